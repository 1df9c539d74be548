package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/textsieve/textsieve/internal/model"
)

func sampleResults() []Result {
	return []Result{
		{Index: 0, Outcome: model.ParseOutcome{Category: model.CategoryAuthCode, Parsed: true, Confidence: 90}},
		{Index: 1, Outcome: model.ParseOutcome{Category: model.CategoryAuthCode, Parsed: true, Confidence: 70}},
		{Index: 2, Outcome: model.ParseOutcome{Category: model.CategoryInstallment, Parsed: false, Confidence: 20, Reason: "confidence 20 below threshold 50"}},
		{Index: 3, Outcome: model.ParseOutcome{Category: model.CategoryTrip, Parsed: true, Confidence: 80}},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(sampleResults())

	assert.Equal(t, 4, report.Summary.Total)
	assert.Equal(t, 3, report.Summary.Parsed)
	assert.Equal(t, 1, report.Summary.Rejected)
	assert.InDelta(t, 80.0, report.Summary.MeanConfidence, 0.001)

	assert.Len(t, report.Results[model.CategoryAuthCode], 2)
	assert.Len(t, report.Results[model.CategoryInstallment], 1)
	assert.Len(t, report.Results[model.CategoryTrip], 1)

	// By-category summaries follow dispatch priority order.
	require.Len(t, report.Summary.ByCategory, 3)
	assert.Equal(t, model.CategoryTrip, report.Summary.ByCategory[0].Category)
	assert.Equal(t, model.CategoryInstallment, report.Summary.ByCategory[1].Category)
	assert.Equal(t, model.CategoryAuthCode, report.Summary.ByCategory[2].Category)
	assert.Equal(t, 2, report.Summary.ByCategory[2].Parsed)
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	assert.Zero(t, report.Summary.Total)
	assert.Zero(t, report.Summary.MeanConfidence)
	assert.Empty(t, report.Results)
}

func TestWriteJSON(t *testing.T) {
	report := BuildReport(sampleResults())
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Summary.Total, decoded.Summary.Total)
	assert.Len(t, decoded.Results[model.CategoryAuthCode], 2)
}

func TestWriteXLSX(t *testing.T) {
	report := BuildReport(sampleResults())
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, report.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, string(model.CategoryAuthCode))
	assert.Contains(t, sheets, string(model.CategoryTrip))
	assert.NotContains(t, sheets, string(model.CategoryTrafficFine))

	value, err := f.GetCellValue(string(model.CategoryAuthCode), "B2")
	require.NoError(t, err)
	assert.Equal(t, "90", value)
}
