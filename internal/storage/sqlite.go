// Package storage persists messages and their classification outcomes in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements result persistence using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path", common.ErrMissingConfig)
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// StoredOutcome is one persisted classification result.
type StoredOutcome struct {
	ID         int64              `json:"id"`
	Hash       string             `json:"hash"`
	Sender     string             `json:"sender,omitempty"`
	Outcome    model.ParseOutcome `json:"outcome"`
	Confidence int                `json:"confidence"`
}

// SaveResult stores a message and its outcome. Re-saving the same message
// replaces the previous outcome rather than duplicating the row.
func (s *SQLiteStore) SaveResult(ctx context.Context, msg model.Message, outcome model.ParseOutcome) error {
	fieldsJSON, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var messageID int64
	hash := msg.Hash()
	err = tx.QueryRowContext(ctx, `SELECT id FROM messages WHERE hash = ?`, hash).Scan(&messageID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insErr := tx.ExecContext(ctx,
			`INSERT INTO messages (hash, text, sender) VALUES (?, ?, ?)`,
			hash, msg.Text, msg.Sender)
		if insErr != nil {
			return fmt.Errorf("failed to insert message: %w", insErr)
		}
		messageID, _ = res.LastInsertId()
	case err != nil:
		return fmt.Errorf("failed to look up message: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcomes (message_id, category, parsed, confidence, reason, fields)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			category = excluded.category,
			parsed = excluded.parsed,
			confidence = excluded.confidence,
			reason = excluded.reason,
			fields = excluded.fields,
			classified_at = CURRENT_TIMESTAMP`,
		messageID, string(outcome.Category), outcome.Parsed, outcome.Confidence, outcome.Reason, string(fieldsJSON))
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}

	return tx.Commit()
}

// OutcomeFilter narrows ListOutcomes results.
type OutcomeFilter struct {
	Category model.Category
	Parsed   *bool
	Limit    int
}

// ListOutcomes returns stored outcomes, newest first.
func (s *SQLiteStore) ListOutcomes(ctx context.Context, filter OutcomeFilter) ([]StoredOutcome, error) {
	query := `
		SELECT o.message_id, m.hash, m.sender, o.confidence, o.fields
		FROM outcomes o
		JOIN messages m ON m.id = o.message_id
		WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		query += ` AND o.category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Parsed != nil {
		query += ` AND o.parsed = ?`
		args = append(args, *filter.Parsed)
	}
	query += ` ORDER BY o.message_id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []StoredOutcome
	for rows.Next() {
		var stored StoredOutcome
		var fieldsJSON string
		if err := rows.Scan(&stored.ID, &stored.Hash, &stored.Sender, &stored.Confidence, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &stored.Outcome); err != nil {
			return nil, fmt.Errorf("failed to decode outcome fields: %w", err)
		}
		results = append(results, stored)
	}

	return results, rows.Err()
}

// CategoryCount summarizes stored outcomes for one category.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Parsed   int            `json:"parsed"`
	Rejected int            `json:"rejected"`
}

// CategoryCounts returns parsed/rejected totals per category.
func (s *SQLiteStore) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category,
		       SUM(CASE WHEN parsed THEN 1 ELSE 0 END),
		       SUM(CASE WHEN parsed THEN 0 ELSE 1 END)
		FROM outcomes
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		var category string
		if err := rows.Scan(&category, &c.Parsed, &c.Rejected); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		c.Category = model.Category(category)
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// Dedupe removes duplicate message rows, keeping the earliest entry of each
// hash, and returns how many rows were deleted.
func (s *SQLiteStore) Dedupe(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM messages
		WHERE id NOT IN (
			SELECT MIN(id) FROM messages GROUP BY hash
		)`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete duplicates: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM outcomes
		WHERE message_id NOT IN (SELECT id FROM messages)`); err != nil {
		return 0, fmt.Errorf("failed to prune orphaned outcomes: %w", err)
	}

	return res.RowsAffected()
}
