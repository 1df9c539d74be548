package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textsieve/textsieve/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func parsedOutcome(category model.Category, confidence int) model.ParseOutcome {
	return model.ParseOutcome{Category: category, Parsed: true, Confidence: confidence}
}

func TestSaveAndListOutcomes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := model.Message{Text: "123456 is your OTP", Sender: "VM-HDFCBK"}
	outcome := model.ParseOutcome{
		Category:   model.CategoryAuthCode,
		Parsed:     true,
		Confidence: 85,
		AuthCode:   &model.AuthCodeFields{Code: "123456"},
	}

	require.NoError(t, store.SaveResult(ctx, msg, outcome))

	stored, err := store.ListOutcomes(ctx, OutcomeFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Equal(t, msg.Hash(), stored[0].Hash)
	assert.Equal(t, "VM-HDFCBK", stored[0].Sender)
	assert.Equal(t, 85, stored[0].Confidence)
	require.NotNil(t, stored[0].Outcome.AuthCode)
	assert.Equal(t, "123456", stored[0].Outcome.AuthCode.Code)
}

func TestSaveResultReplacesOutcome(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := model.Message{Text: "EMI of Rs 4500 due"}
	require.NoError(t, store.SaveResult(ctx, msg, parsedOutcome(model.CategoryInstallment, 60)))
	require.NoError(t, store.SaveResult(ctx, msg, parsedOutcome(model.CategoryInstallment, 95)))

	stored, err := store.ListOutcomes(ctx, OutcomeFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1, "re-saving the same message must not duplicate rows")
	assert.Equal(t, 95, stored[0].Confidence)
}

func TestListOutcomesFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "otp one"}, parsedOutcome(model.CategoryAuthCode, 80)))
	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "emi one"}, parsedOutcome(model.CategoryInstallment, 70)))
	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "emi two"},
		model.ParseOutcome{Category: model.CategoryInstallment, Parsed: false, Confidence: 20, Reason: "confidence 20 below threshold 50"}))

	byCategory, err := store.ListOutcomes(ctx, OutcomeFilter{Category: model.CategoryInstallment})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	parsed := true
	parsedOnly, err := store.ListOutcomes(ctx, OutcomeFilter{Category: model.CategoryInstallment, Parsed: &parsed})
	require.NoError(t, err)
	assert.Len(t, parsedOnly, 1)

	limited, err := store.ListOutcomes(ctx, OutcomeFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCategoryCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "otp a"}, parsedOutcome(model.CategoryAuthCode, 80)))
	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "otp b"}, parsedOutcome(model.CategoryAuthCode, 90)))
	require.NoError(t, store.SaveResult(ctx,
		model.Message{Text: "junk"},
		model.ParseOutcome{Category: model.CategoryAuthCode, Parsed: false, Confidence: 0, Reason: "no auth code detected"}))

	counts, err := store.CategoryCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)

	assert.Equal(t, model.CategoryAuthCode, counts[0].Category)
	assert.Equal(t, 2, counts[0].Parsed)
	assert.Equal(t, 1, counts[0].Rejected)
}

func TestDedupe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := model.Message{Text: "duplicate me"}
	require.NoError(t, store.SaveResult(ctx, msg, parsedOutcome(model.CategoryAuthCode, 80)))

	// Insert a duplicate row directly; SaveResult itself never creates one.
	raw, err := sql.Open("sqlite3", store.dbPath)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx,
		`INSERT INTO messages (hash, text, sender) VALUES (?, ?, ?)`,
		msg.Hash(), msg.Text, msg.Sender)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	removed, err := store.Dedupe(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	stored, err := store.ListOutcomes(ctx, OutcomeFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 1, "the surviving row keeps its outcome")

	removed, err = store.Dedupe(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	require.Error(t, err)
}
