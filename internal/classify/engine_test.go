package classify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := New()
	require.NoError(t, err)
	return engine
}

func TestParseAuthCodeMessage(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{
			Text:   "123456 is your OTP for HDFC Bank login. Valid for 10 minutes. Do not share with anyone.",
			Sender: "VM-HDFCBK",
		},
		model.CategoryAuthCode)
	require.NoError(t, err)

	assert.True(t, outcome.Parsed)
	assert.Equal(t, model.CategoryAuthCode, outcome.Category)
	assert.GreaterOrEqual(t, outcome.Confidence, 50)

	require.NotNil(t, outcome.AuthCode)
	assert.Equal(t, "123456", outcome.AuthCode.Code)
	assert.Equal(t, "HDFC Bank", outcome.AuthCode.Service)
	assert.Equal(t, "login", outcome.AuthCode.Purpose)
	require.NotNil(t, outcome.AuthCode.Validity)
	assert.Equal(t, 10, outcome.AuthCode.Validity.Value)
	assert.Equal(t, "minutes", outcome.AuthCode.Validity.Unit)
	assert.Contains(t, outcome.AuthCode.Warnings, "do not share")
}

func TestParseAuthCodeServiceFromSender(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Your OTP is 4821. Do not share it.", Sender: "AD-SBIOTP"},
		model.CategoryAuthCode)
	require.NoError(t, err)

	require.True(t, outcome.Parsed)
	require.NotNil(t, outcome.AuthCode)
	assert.Equal(t, "SBI", outcome.AuthCode.Service)
}

func TestParseAuthCodeWithoutCodeRejected(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Please verify your login to continue. Do not share your OTP with anyone."},
		model.CategoryAuthCode)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed)
	assert.Equal(t, "no auth code detected", outcome.Reason)
	assert.Nil(t, outcome.AuthCode)
}

func TestParseAuthCodeTransactionAlertExcluded(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Rs 5000 has been debited from your account 123456. Avl Bal: Rs 42000."},
		model.CategoryAuthCode)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed)
	assert.Equal(t, 0, outcome.Confidence)
	assert.Equal(t, "exclusion matched", outcome.Reason)
}

func TestParseInstallmentReminder(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Your EMI of Rs. 4,500.00 for loan a/c 123456789012 is due on 05/08/2025. Pay now to avoid late payment charges. - Bajaj Finserv"},
		model.CategoryInstallment)
	require.NoError(t, err)

	assert.True(t, outcome.Parsed)
	assert.GreaterOrEqual(t, outcome.Confidence, 50)

	require.NotNil(t, outcome.Installment)
	assert.Equal(t, "4500", outcome.Installment.Amount)
	assert.Equal(t, "05/08/2025", outcome.Installment.DueDate)
	assert.Equal(t, "Bajaj Finserv", outcome.Installment.Lender)
	assert.Equal(t, "123456789012", outcome.Installment.Account)
}

func TestParseNoCostEMIPromotionExcluded(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Get the new phone on No Cost EMI of Rs 2,999/month! Shop now and grab the offer."},
		model.CategoryInstallment)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed)
	assert.Equal(t, 0, outcome.Confidence)
	assert.Equal(t, "exclusion matched", outcome.Reason)
	assert.NotEmpty(t, outcome.Preview)
}

func TestParseTrafficFineNotice(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Traffic violation challan DL116709240411110024 issued for vehicle MH12AB1234. Fine of Rs 500. Pay online at https://echallan.parivahan.gov.in/ - Delhi Traffic Police"},
		model.CategoryTrafficFine)
	require.NoError(t, err)

	assert.True(t, outcome.Parsed)
	assert.GreaterOrEqual(t, outcome.Confidence, 40)

	require.NotNil(t, outcome.TrafficFine)
	assert.Equal(t, "DL116709240411110024", outcome.TrafficFine.ChallanNumber)
	assert.Equal(t, "MH12AB1234", outcome.TrafficFine.Vehicle)
	assert.Equal(t, "500", outcome.TrafficFine.Fine)
	assert.Equal(t, "https://echallan.parivahan.gov.in", outcome.TrafficFine.PaymentLink)
	assert.Equal(t, "Delhi Traffic Police", outcome.TrafficFine.Authority)
	assert.Equal(t, "issued", outcome.TrafficFine.Status)
}

func TestParseTrafficFineStatus(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "paid beats pending",
			text: "Challan 2024123456 for vehicle MH12AB1234: payment received, no longer pending.",
			want: "paid",
		},
		{
			name: "pending",
			text: "Challan 2024123456 for vehicle MH12AB1234 is unpaid. Pay the fine online.",
			want: "pending",
		},
		{
			name: "default issued",
			text: "Traffic challan 2024123456 for vehicle MH12AB1234. Fine Rs 500.",
			want: "issued",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := engine.Parse(context.Background(),
				model.Message{Text: tt.text}, model.CategoryTrafficFine)
			require.NoError(t, err)
			require.True(t, outcome.Parsed)
			require.NotNil(t, outcome.TrafficFine)
			assert.Equal(t, tt.want, outcome.TrafficFine.Status)
		})
	}
}

func TestParseTrainTripConfirmation(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "IRCTC: Booking confirmed. PNR 8529637410, Train 12952, NDLS to BCT, DOJ 15-09-2025, Class SL, Coach S5, Seat 34. Happy Journey!"},
		model.CategoryTrip)
	require.NoError(t, err)

	assert.True(t, outcome.Parsed)
	assert.GreaterOrEqual(t, outcome.Confidence, 40)

	require.NotNil(t, outcome.Trip)
	assert.Equal(t, ModeTrain, outcome.Trip.Mode)
	assert.Equal(t, "8529637410", outcome.Trip.ReservationCode)
	assert.Equal(t, "15/09/2025", outcome.Trip.JourneyDate)
	assert.Equal(t, "NDLS", outcome.Trip.Boarding)
	assert.Equal(t, "BCT", outcome.Trip.Drop)
	assert.Equal(t, "S5, 34", outcome.Trip.SeatInfo)
	assert.Equal(t, "Sleeper", outcome.Trip.Class)
}

func TestParseFlightTripConfirmation(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Flight booking confirmed! PNR: AB3X9Z, DEL to BOM on 20/09/2025, departs 16:30, Gate 12. Web check-in open."},
		model.CategoryTrip)
	require.NoError(t, err)

	require.True(t, outcome.Parsed)
	require.NotNil(t, outcome.Trip)
	assert.Equal(t, ModeFlight, outcome.Trip.Mode)
	assert.Equal(t, "AB3X9Z", outcome.Trip.ReservationCode)
	assert.Equal(t, "DEL", outcome.Trip.Boarding)
	assert.Equal(t, "BOM", outcome.Trip.Drop)
	assert.Equal(t, "12", outcome.Trip.Gate)
	assert.Equal(t, "16:30", outcome.Trip.DepartureTime)
}

func TestParseTripCancellationExcluded(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "Your ticket PNR 8529637410 has been cancelled. Refund processed to your account."},
		model.CategoryTrip)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed)
	assert.Equal(t, 0, outcome.Confidence)
	assert.Equal(t, "exclusion matched", outcome.Reason)
}

func TestParseTripHelplineNumberNotAPNR(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "For booking queries call our helpline 9876543210 anytime."},
		model.CategoryTrip)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed, "a helpline number must not score as a reservation code")
}

func TestParseDispatchPriority(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		text string
		want model.Category
	}{
		{
			name: "otp dispatches to auth code",
			text: "123456 is your OTP for login. Do not share.",
			want: model.CategoryAuthCode,
		},
		{
			name: "emi dispatches to installment",
			text: "Your EMI of Rs 4500 is due on 05/08/2025.",
			want: model.CategoryInstallment,
		},
		{
			name: "challan dispatches to traffic fine",
			text: "Challan DL116709240411110024 issued for over-speeding. Fine Rs 1000.",
			want: model.CategoryTrafficFine,
		},
		{
			name: "pnr dispatches to trip",
			text: "PNR 8529637410 confirmed for your journey, DOJ 15-09-2025.",
			want: model.CategoryTrip,
		},
		{
			name: "trip outranks auth when both have evidence",
			text: "Your OTP is 4821 for ticket booking PNR 8529637410.",
			want: model.CategoryTrip,
		},
		{
			name: "no evidence defaults to auth code",
			text: "Hello, how are you doing today?",
			want: model.CategoryAuthCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := engine.Parse(context.Background(),
				model.Message{Text: tt.text}, model.CategoryAuto)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Category)
		})
	}
}

func TestParseEmptyMessage(t *testing.T) {
	engine := newTestEngine(t)

	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: "   "}, model.CategoryAuto)
	require.NoError(t, err)

	assert.False(t, outcome.Parsed)
	assert.Equal(t, 0, outcome.Confidence)
	assert.Equal(t, "empty message", outcome.Reason)
	assert.Equal(t, model.CategoryAuthCode, outcome.Category)
}

func TestParseUnsupportedCategory(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Parse(context.Background(),
		model.Message{Text: "some text"}, model.Category("receipts"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedCategory)
}

func TestParseIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	msg := model.Message{Text: "123456 is your OTP for HDFC Bank login. Valid for 10 minutes. Do not share."}

	first, err := engine.Parse(context.Background(), msg, model.CategoryAuto)
	require.NoError(t, err)
	second, err := engine.Parse(context.Background(), msg, model.CategoryAuto)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseConfidenceBounds(t *testing.T) {
	engine := newTestEngine(t)

	messages := []string{
		"123456 is your OTP. Do not share. Never share. Verify login. Valid for 5 mins. Verification code. One time password.",
		"EMI installment due overdue loan repayment pay now Rs 4500 due on 05/08/2025 a/c 123456789012 HDFC",
		"random text with no evidence at all",
	}

	for _, text := range messages {
		outcome, err := engine.Parse(context.Background(),
			model.Message{Text: text}, model.CategoryAuto)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, outcome.Confidence, 0)
		assert.LessOrEqual(t, outcome.Confidence, 100)
	}
}

func TestParseTruncatesOversizedInput(t *testing.T) {
	engine := newTestEngine(t)

	text := "123456 is your OTP for login. Do not share. " + strings.Repeat("x", maxInputLen*2)
	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: text}, model.CategoryAuthCode)
	require.NoError(t, err)

	// The prefix survives truncation, so extraction still succeeds.
	require.True(t, outcome.Parsed)
	assert.Equal(t, "123456", outcome.AuthCode.Code)
}

func TestRejectionPreviewCapped(t *testing.T) {
	engine := newTestEngine(t)

	text := "No Cost EMI offer! " + strings.Repeat("great deal ", 30)
	outcome, err := engine.Parse(context.Background(),
		model.Message{Text: text}, model.CategoryInstallment)
	require.NoError(t, err)

	require.False(t, outcome.Parsed)
	assert.LessOrEqual(t, len(outcome.Preview), 100)
}
