package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/pattern"
)

// maxInputLen bounds matching cost on adversarial input; notification
// messages are far shorter in practice.
const maxInputLen = 4096

const reasonExcluded = "exclusion matched"

func belowThreshold(score, threshold int) string {
	return fmt.Sprintf("confidence %d below threshold %d", score, threshold)
}

// Engine is the pattern-cascade classification engine. All pattern tables
// are compiled once in New and never mutated afterwards, so a single Engine
// may be shared across any number of goroutines without locking.
type Engine struct {
	authCode    *authCodeParser
	installment *installmentParser
	trafficFine *trafficFineParser
	trip        *tripParser
}

// New builds an Engine, compiling every cascade, indicator set and exclusion
// filter.
func New() (*Engine, error) {
	authCode, err := newAuthCodeParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build auth-code parser: %w", err)
	}
	installment, err := newInstallmentParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build installment parser: %w", err)
	}
	trafficFine, err := newTrafficFineParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build traffic-fine parser: %w", err)
	}
	trip, err := newTripParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build trip parser: %w", err)
	}

	return &Engine{
		authCode:    authCode,
		installment: installment,
		trafficFine: trafficFine,
		trip:        trip,
	}, nil
}

// Parse classifies one message. With CategoryAuto the dispatcher picks the
// category; otherwise only the requested parser runs. The only error case
// is an unsupported category: heterogeneous text always yields an outcome.
func (e *Engine) Parse(_ context.Context, msg model.Message, category model.Category) (model.ParseOutcome, error) {
	text := strings.TrimSpace(msg.Text)
	if len(text) > maxInputLen {
		text = text[:maxInputLen]
	}

	if category == "" {
		category = model.CategoryAuto
	}
	if category == model.CategoryAuto {
		category = e.dispatch(text)
	}

	if text == "" {
		return model.Rejected(category, 0, "empty message", text), nil
	}

	switch category {
	case model.CategoryAuthCode:
		return e.authCode.parse(text, msg.Sender), nil
	case model.CategoryInstallment:
		return e.installment.parse(text), nil
	case model.CategoryTrafficFine:
		return e.trafficFine.parse(text), nil
	case model.CategoryTrip:
		return e.trip.parse(text), nil
	}

	return model.ParseOutcome{}, fmt.Errorf("%w: %q", common.ErrUnsupportedCategory, category)
}

// dispatch picks the single category to run in auto mode. Priority order is
// Trip > TrafficFine > Installment > AuthCode: the first category with a
// strong identifying token or a non-zero indicator count wins, and AuthCode
// is the default when none qualifies.
func (e *Engine) dispatch(text string) model.Category {
	if e.trip.hasStrongToken(text) || e.trip.indicators.Count(text) > 0 {
		return model.CategoryTrip
	}
	if e.trafficFine.hasStrongToken(text) || e.trafficFine.indicators.Count(text) > 0 {
		return model.CategoryTrafficFine
	}
	if e.installment.indicators.Count(text) > 0 {
		return model.CategoryInstallment
	}
	return model.CategoryAuthCode
}

// constant builds a normalizer that maps any capture to a fixed canonical
// value, used by the lookup-style cascades.
func constant(v string) pattern.Normalizer {
	return func(string) string { return v }
}
