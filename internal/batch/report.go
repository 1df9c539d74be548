package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/textsieve/textsieve/internal/model"
)

// CategorySummary counts outcomes for one category.
type CategorySummary struct {
	Category model.Category `json:"category"`
	Parsed   int            `json:"parsed"`
	Rejected int            `json:"rejected"`
}

// Summary aggregates a whole batch run.
type Summary struct {
	Total          int               `json:"total"`
	Parsed         int               `json:"parsed"`
	Rejected       int               `json:"rejected"`
	MeanConfidence float64           `json:"mean_confidence"`
	ByCategory     []CategorySummary `json:"by_category"`
}

// Report is the aggregate document a batch run produces: structured results
// partitioned by category plus summary counts.
type Report struct {
	Summary Summary                                  `json:"summary"`
	Results map[model.Category][]model.ParseOutcome `json:"results"`
}

// BuildReport partitions batch results by category and computes the summary.
// Mean confidence covers parsed rows only.
func BuildReport(results []Result) Report {
	report := Report{Results: make(map[model.Category][]model.ParseOutcome)}
	byCategory := make(map[model.Category]*CategorySummary)

	confidenceSum := 0
	for _, r := range results {
		outcome := r.Outcome
		report.Summary.Total++
		report.Results[outcome.Category] = append(report.Results[outcome.Category], outcome)

		cs, ok := byCategory[outcome.Category]
		if !ok {
			cs = &CategorySummary{Category: outcome.Category}
			byCategory[outcome.Category] = cs
		}
		if outcome.Parsed {
			report.Summary.Parsed++
			cs.Parsed++
			confidenceSum += outcome.Confidence
		} else {
			report.Summary.Rejected++
			cs.Rejected++
		}
	}

	if report.Summary.Parsed > 0 {
		report.Summary.MeanConfidence = float64(confidenceSum) / float64(report.Summary.Parsed)
	}
	for _, category := range model.Categories() {
		if cs, ok := byCategory[category]; ok {
			report.Summary.ByCategory = append(report.Summary.ByCategory, *cs)
		}
	}

	return report
}

// WriteJSON writes the report as an indented JSON document.
func (r Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteXLSX writes the report as a workbook with a Summary sheet and one
// sheet per category.
func (r Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1",
		&[]any{"Category", "Parsed", "Rejected"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	row := 2
	for _, cs := range r.Summary.ByCategory {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(summarySheet, cell,
			&[]any{string(cs.Category), cs.Parsed, cs.Rejected}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		row++
	}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row+1),
		&[]any{"Total", r.Summary.Total, "Mean confidence", r.Summary.MeanConfidence}); err != nil {
		return fmt.Errorf("failed to write totals row: %w", err)
	}

	for _, category := range model.Categories() {
		outcomes, ok := r.Results[category]
		if !ok {
			continue
		}

		sheet := string(category)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1",
			&[]any{"Parsed", "Confidence", "Reason", "Fields"}); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", sheet, err)
		}

		for i, outcome := range outcomes {
			fields, err := json.Marshal(outcome)
			if err != nil {
				return fmt.Errorf("failed to encode outcome: %w", err)
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell,
				&[]any{outcome.Parsed, outcome.Confidence, outcome.Reason, string(fields)}); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", sheet, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
