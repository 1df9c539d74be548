package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/model"
)

// Console is the interactive classification loop: one message per line in,
// one rendered outcome out.
type Console struct {
	engine   *classify.Engine
	reader   *NonBlockingReader
	writer   io.Writer
	category model.Category
}

// NewConsole creates an interactive console around an engine.
func NewConsole(engine *classify.Engine, in io.Reader, out io.Writer) *Console {
	return &Console{
		engine:   engine,
		reader:   NewNonBlockingReader(in),
		writer:   out,
		category: model.CategoryAuto,
	}
}

// Run reads messages until EOF, :quit, or context cancellation. The
// directives ":category <name>" and ":category auto" switch the requested
// category between reads.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.writer, TitleStyle.Render("textsieve console"))
	fmt.Fprintln(c.writer, SubtleStyle.Render("Paste a message and press enter. :category <name|auto> switches mode, :quit exits."))

	for {
		fmt.Fprint(c.writer, BoldStyle.Render("> "))

		line, err := c.reader.ReadLine(ctx)
		switch {
		case errors.Is(err, ErrInputCancelled):
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			return nil
		}
		if rest, ok := strings.CutPrefix(line, ":category "); ok {
			category, parseErr := model.ParseCategory(strings.TrimSpace(rest))
			if parseErr != nil {
				fmt.Fprintln(c.writer, ErrorStyle.Render(parseErr.Error()))
				continue
			}
			c.category = category
			fmt.Fprintln(c.writer, SubtleStyle.Render("category set to "+string(category)))
			continue
		}

		outcome, err := c.engine.Parse(ctx, model.Message{Text: line}, c.category)
		if err != nil {
			fmt.Fprintln(c.writer, ErrorStyle.Render(err.Error()))
			continue
		}
		RenderOutcome(c.writer, outcome)
	}
}

// RenderOutcome prints one outcome with styled field lines. Every field is
// optional; absent fields are skipped.
func RenderOutcome(w io.Writer, outcome model.ParseOutcome) {
	if outcome.Parsed {
		fmt.Fprintln(w, SuccessStyle.Render(
			fmt.Sprintf("✓ %s (confidence %d)", outcome.Category, outcome.Confidence)))
	} else {
		fmt.Fprintln(w, ErrorStyle.Render(
			fmt.Sprintf("✗ %s rejected (confidence %d): %s", outcome.Category, outcome.Confidence, outcome.Reason)))
		return
	}

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %s%s\n", FieldNameStyle.Render(name), value)
		}
	}

	switch {
	case outcome.AuthCode != nil:
		f := outcome.AuthCode
		field("code", f.Code)
		field("service", f.Service)
		field("purpose", f.Purpose)
		if f.Validity != nil {
			field("validity", fmt.Sprintf("%d %s", f.Validity.Value, f.Validity.Unit))
		}
		if len(f.Warnings) > 0 {
			fmt.Fprintf(w, "  %s%s\n",
				FieldNameStyle.Render("warnings"),
				WarningStyle.Render(strings.Join(f.Warnings, "; ")))
		}
	case outcome.Installment != nil:
		f := outcome.Installment
		field("amount", f.Amount)
		field("due date", f.DueDate)
		field("lender", f.Lender)
		field("account", f.Account)
	case outcome.TrafficFine != nil:
		f := outcome.TrafficFine
		field("challan number", f.ChallanNumber)
		field("vehicle", f.Vehicle)
		field("fine", f.Fine)
		field("status", f.Status)
		field("authority", f.Authority)
		field("payment link", f.PaymentLink)
	case outcome.Trip != nil:
		f := outcome.Trip
		field("mode", f.Mode)
		field("reservation code", f.ReservationCode)
		field("journey date", f.JourneyDate)
		if f.Boarding != "" || f.Drop != "" {
			field("route", strings.TrimSpace(f.Boarding+" → "+f.Drop))
		}
		field("seat", f.SeatInfo)
		field("class", f.Class)
		field("platform", f.Platform)
		field("gate", f.Gate)
		field("departure", f.DepartureTime)
	}
}
