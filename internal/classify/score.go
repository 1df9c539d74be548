package classify

// Scoring weights.
//
// These are empirically chosen heuristics, not statistically derived. They
// live here, away from the cascade definitions, so they can be tuned without
// touching any pattern table.

// Auth-code scoring.
const (
	authIndicatorWeight = 15
	authIndicatorCap    = 45
	authCodeBonus       = 30
	authShareWarnBonus  = 15 // a cautionary phrase alongside a detected code
	authServiceBonus    = 10
	authValidityBonus   = 5
	authThreshold       = 50
)

// Installment-reminder scoring.
const (
	instIndicatorWeight = 15
	instIndicatorCap    = 45
	instAmountBonus     = 20
	instDueDateBonus    = 20
	instAccountBonus    = 10
	instLenderBonus     = 10
	instThreshold       = 50
)

// Traffic-fine scoring. The challan number carries the most weight.
const (
	fineIndicatorWeight = 10
	fineIndicatorCap    = 30
	fineChallanBonus    = 35
	fineVehicleBonus    = 20
	fineAmountBonus     = 10
	fineLinkBonus       = 10
	fineAuthorityBonus  = 5
	fineThreshold       = 40
)

// Trip-confirmation scoring. The reservation code carries the most weight.
const (
	tripIndicatorWeight = 10
	tripIndicatorCap    = 30
	tripCodeBonus       = 35
	tripDateBonus       = 15
	tripRouteBonus      = 15
	tripSeatBonus       = 5
	tripClassBonus      = 5
	tripThreshold       = 40
)

// Mode bonuses derived from the detected reservation code's shape.
const (
	trainCodeModeBonus  = 2
	flightCodeModeBonus = 2
	busCodeModeBonus    = 1
)

// clampScore bounds a computed confidence to [0, 100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// cappedIndicatorScore multiplies an indicator count by its weight, bounded
// by the category's cap.
func cappedIndicatorScore(count, weight, limit int) int {
	score := count * weight
	if score > limit {
		return limit
	}
	return score
}
