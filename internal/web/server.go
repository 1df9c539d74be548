// Package web serves the read-only classification dashboard.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store *storage.SQLiteStore
	page  *template.Template
}

// NewHandler creates a new Handler over the store.
func NewHandler(store *storage.SQLiteStore) *Handler {
	return &Handler{
		store: store,
		page:  template.Must(template.New("index").Parse(indexPage)),
	}
}

// Routes registers the dashboard endpoints on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/api/summary", h.Summary)
	mux.HandleFunc("/api/outcomes", h.Outcomes)
	return mux
}

// Index renders the dashboard page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	counts, err := h.store.CategoryCounts(r.Context())
	if err != nil {
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	if err := h.page.Execute(w, counts); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
	}
}

// Summary returns parsed/rejected counts per category.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CategoryCounts(r.Context())
	if err != nil {
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, counts)
}

// Outcomes returns stored outcomes, optionally filtered by ?category= and
// ?parsed=.
func (h *Handler) Outcomes(w http.ResponseWriter, r *http.Request) {
	filter := storage.OutcomeFilter{Limit: 200}

	if name := r.URL.Query().Get("category"); name != "" {
		category, err := model.ParseCategory(name)
		if err != nil || category == model.CategoryAuto {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		filter.Category = category
	}
	if v := r.URL.Query().Get("parsed"); v != "" {
		parsed := v == "true" || v == "1"
		filter.Parsed = &parsed
	}

	outcomes, err := h.store.ListOutcomes(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to load outcomes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcomes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Serve runs the dashboard until the context is canceled.
func Serve(ctx context.Context, addr string, store *storage.SQLiteStore) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(store).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	slog.Info("Dashboard listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>textsieve dashboard</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f5f5f5; }
</style>
</head>
<body>
<h1>textsieve</h1>
<table>
<tr><th>Category</th><th>Parsed</th><th>Rejected</th></tr>
{{range .}}<tr><td>{{.Category}}</td><td>{{.Parsed}}</td><td>{{.Rejected}}</td></tr>
{{end}}</table>
<p>API: <a href="/api/summary">/api/summary</a> · /api/outcomes?category=&amp;parsed=</p>
</body>
</html>
`
