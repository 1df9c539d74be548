package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadCSVWithHeader(t *testing.T) {
	path := writeCSV(t, "sender,message\nVM-HDFCBK,123456 is your OTP\nAD-BAJAJF,EMI of Rs 4500 due\n")

	messages, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "123456 is your OTP", messages[0].Text)
	assert.Equal(t, "VM-HDFCBK", messages[0].Sender)
	assert.Equal(t, "AD-BAJAJF", messages[1].Sender)
}

func TestReadCSVWithoutHeader(t *testing.T) {
	path := writeCSV(t, "hello there,VM-SENDER\njust text\n")

	messages, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "hello there", messages[0].Text)
	assert.Equal(t, "VM-SENDER", messages[0].Sender)
	assert.Equal(t, "just text", messages[1].Text)
	assert.Empty(t, messages[1].Sender)
}

func TestReadCSVSkipsBlankRows(t *testing.T) {
	path := writeCSV(t, "message\nfirst\n\"  \"\nsecond\n")

	messages, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "second", messages[1].Text)
}

func TestReadCSVEmpty(t *testing.T) {
	path := writeCSV(t, "message\n")

	_, err := ReadCSV(path)
	assert.ErrorIs(t, err, common.ErrNoMessages)
}

func TestProcessPreservesInputOrder(t *testing.T) {
	engine, err := classify.New()
	require.NoError(t, err)

	messages := []model.Message{
		{Text: "123456 is your OTP for login. Do not share."},
		{Text: "Your EMI of Rs 4500 is due on 05/08/2025. Pay now."},
		{Text: "Challan DL116709240411110024 issued for vehicle MH12AB1234. Fine Rs 500."},
		{Text: "IRCTC: Booking confirmed. PNR 8529637410, DOJ 15-09-2025."},
	}

	p := NewProcessor(engine, Options{Workers: 3, Writer: io.Discard})
	results, err := p.Process(context.Background(), messages)
	require.NoError(t, err)
	require.Len(t, results, len(messages))

	wantCategories := []model.Category{
		model.CategoryAuthCode,
		model.CategoryInstallment,
		model.CategoryTrafficFine,
		model.CategoryTrip,
	}
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, messages[i].Text, result.Message.Text)
		assert.Equal(t, wantCategories[i], result.Outcome.Category)
	}
}

func TestProcessNoMessages(t *testing.T) {
	engine, err := classify.New()
	require.NoError(t, err)

	p := NewProcessor(engine, Options{Writer: io.Discard})
	_, err = p.Process(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrNoMessages)
}

func TestProcessCancelledContext(t *testing.T) {
	engine, err := classify.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	messages := make([]model.Message, 100)
	for i := range messages {
		messages[i] = model.Message{Text: "some message text"}
	}

	p := NewProcessor(engine, Options{Workers: 1, Writer: io.Discard})
	_, err = p.Process(ctx, messages)
	assert.ErrorIs(t, err, context.Canceled)
}
