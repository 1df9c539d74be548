// Package batch classifies CSV files of messages and writes aggregate
// reports.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"
)

// Result pairs one input row with its outcome. Index is the row's position
// in the input so callers always see results in original order.
type Result struct {
	Index   int                `json:"index"`
	Message model.Message      `json:"-"`
	Outcome model.ParseOutcome `json:"outcome"`
}

// Processor runs the engine over a batch of messages.
type Processor struct {
	engine   *classify.Engine
	writer   io.Writer
	category model.Category
	workers  int
	progress bool
}

// Options configures a Processor.
type Options struct {
	Category model.Category // empty means auto
	Workers  int
	Progress bool
	Writer   io.Writer // progress output; defaults to stderr
}

// NewProcessor creates a batch processor around an engine.
func NewProcessor(engine *classify.Engine, opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Category == "" {
		opts.Category = model.CategoryAuto
	}
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	return &Processor{
		engine:   engine,
		writer:   opts.Writer,
		category: opts.Category,
		workers:  opts.Workers,
		progress: opts.Progress,
	}
}

// ReadCSV loads messages from a CSV file. A header row naming a "message"
// column is honored (with an optional "sender" column); otherwise the first
// column is the message and the second, when present, the sender.
func ReadCSV(path string) ([]model.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, common.ErrNoMessages
	}

	msgCol, senderCol := 0, 1
	start := 0
	for i, col := range records[0] {
		name := strings.ToLower(strings.TrimSpace(col))
		if name == "message" || name == "text" || name == "body" {
			msgCol = i
			start = 1
		}
		if name == "sender" || name == "address" {
			senderCol = i
		}
	}

	var messages []model.Message
	for _, rec := range records[start:] {
		if msgCol >= len(rec) {
			continue
		}
		msg := model.Message{Text: rec[msgCol]}
		if senderCol < len(rec) && senderCol != msgCol {
			msg.Sender = rec[senderCol]
		}
		if strings.TrimSpace(msg.Text) != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return nil, common.ErrNoMessages
	}

	return messages, nil
}

// Process classifies every message, fanning rows out across the worker pool
// and reassembling outcomes in input order. Each engine call is independent,
// so no synchronization beyond the job channel is needed.
func (p *Processor) Process(ctx context.Context, messages []model.Message) ([]Result, error) {
	if len(messages) == 0 {
		return nil, common.ErrNoMessages
	}

	var bar *progressbar.ProgressBar
	if p.progress {
		bar = progressbar.NewOptions(len(messages),
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Classifying messages..."),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	jobs := make(chan int)
	results := make([]Result, len(messages))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome, err := p.engine.Parse(ctx, messages[i], p.category)
				if err != nil {
					common.LogError(err, "Failed to classify row", common.Fields{"index": i})
					outcome = model.Rejected(p.category, 0, err.Error(), messages[i].Text)
				}
				results[i] = Result{Index: i, Message: messages[i], Outcome: outcome}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	send := func() error {
		defer close(jobs)
		for i := range messages {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	}
	sendErr := send()
	wg.Wait()

	if sendErr != nil {
		return nil, sendErr
	}
	return results, nil
}
