package classify

import (
	"regexp"

	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/pattern"
)

// Travel modes resolved for trip confirmations.
const (
	ModeTrain   = "train"
	ModeFlight  = "flight"
	ModeBus     = "bus"
	ModeUnknown = "unknown"
)

func tripCodePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `\bpnr\s*(?:no\.?|number)?\s*[:\-]?\s*(\d{10})\b`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.IsTrainCode,
		},
		{
			Regex:     `\bpnr\s*(?:no\.?|number)?\s*[:\-]?\s*([A-Za-z0-9]{6})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsFlightCode,
		},
		{
			Regex:     `(?:booking|ticket)\s*(?:id|ref(?:erence)?|no\.?)?\s*[:\-]?\s*([A-Za-z0-9]{6,12})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsReservationCode,
		},
		{
			// Bare ten-digit fallback for unlabeled train codes.
			Regex:     `\b(\d{10})\b`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.IsTrainCode,
		},
	}
}

func tripDatePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `(?:doj|date\s+of\s+journey|journey\s+date|travel\s+date|dep(?:arture)?\s+date)\s*[:\-]?\s*` + dateToken,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
		{
			Regex:     `(?:on|dated|for)\s+` + dateToken,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
		{
			Regex:     dateToken,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
	}
}

func tripRoutePatterns() []pattern.PairPattern {
	isCode := func(s string) bool { return len(s) >= 3 && len(s) <= 5 }
	return []pattern.PairPattern{
		{
			// Station/airport codes joined by "to" or an arrow. Highest
			// precision, so listed first.
			Regex:         `\b([A-Z]{3,5})\s*(?:[Tt][Oo]|-+|->|→)\s*([A-Z]{3,5})\b`,
			CaseSensitive: true,
			Validate:      isCode,
		},
		{
			// Place names carrying codes in parentheses; the code group is
			// the one captured.
			Regex:         `[A-Za-z ]+\(([A-Z]{3,5})\)\s*(?:[Tt][Oo]|-+)\s*[A-Za-z ]+\(([A-Z]{3,5})\)`,
			CaseSensitive: true,
			Validate:      isCode,
		},
		{
			Regex:     `from\s+([A-Za-z][A-Za-z ]{2,20}?)\s+to\s+([A-Za-z][A-Za-z ]{2,20}?)(?:[.,;]|\s*$|\s+on\b|\s+doj\b)`,
			Normalize: pattern.TitleCase,
		},
	}
}

func tripSeatPairPatterns() []pattern.PairPattern {
	return []pattern.PairPattern{
		{
			Regex: `coach\s*[:\-]?\s*([A-Za-z]{1,2}\d{1,2})\s*[,/]?\s*(?:seat|berth)?\s*(?:no\.?)?\s*[:\-]?\s*(\d{1,3})\b`,
		},
	}
}

func tripSeatPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex: `(?:seat|berth)\s*(?:no\.?)?\s*[:\-]?\s*([A-Za-z0-9]{1,4}(?:\s*,\s*[A-Za-z0-9]{1,4})*)`,
		},
	}
}

func tripClassPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{Regex: `(?:class|cls)\s*[:\-]?\s*([A-Za-z0-9]{1,3})\b`, Normalize: pattern.NormalizeCode},
		{Regex: `\b(sleeper|semi[-\s]?sleeper|seater|economy|business|first\s+class|premium\s+economy)\b`, Normalize: pattern.NormalizeCode},
	}
}

// Class lookups keyed by detected mode; keys are uppercased with separators
// stripped, matching NormalizeCode output.
var (
	trainClasses = map[string]string{
		"SL":      "Sleeper",
		"3A":      "AC 3 Tier",
		"2A":      "AC 2 Tier",
		"1A":      "AC First Class",
		"CC":      "AC Chair Car",
		"2S":      "Second Sitting",
		"3E":      "AC 3 Economy",
		"SLEEPER": "Sleeper",
	}
	flightClasses = map[string]string{
		"Y":              "Economy",
		"J":              "Business",
		"F":              "First",
		"W":              "Premium Economy",
		"ECONOMY":        "Economy",
		"BUSINESS":       "Business",
		"FIRSTCLASS":     "First",
		"PREMIUMECONOMY": "Premium Economy",
	}
	busClasses = map[string]string{
		"SLEEPER":     "Sleeper",
		"SEATER":      "Seater",
		"SEMISLEEPER": "Semi Sleeper",
	}
)

func tripPlatformPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{Regex: `platform\s*(?:no\.?)?\s*[:\-]?\s*(\d{1,2})\b`},
	}
}

func tripGatePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{Regex: `gate\s*(?:no\.?)?\s*[:\-]?\s*([A-Za-z]?\d{1,3})\b`, Normalize: pattern.NormalizeCode},
	}
}

func tripDeparturePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `dep(?:arts?|arture)?\.?\s*(?:time|at)?\s*[:\-]?\s*(\d{1,2}[:.]\d{2}\s*(?:am|pm)?)\b`,
			Normalize: pattern.NormalizeTime,
		},
		{
			Regex:     `(?:leaves|departing)\s+at\s+(\d{1,2}[:.]\d{2}\s*(?:am|pm)?)\b`,
			Normalize: pattern.NormalizeTime,
		},
	}
}

// modeIndicator contributes weighted evidence toward one travel mode.
type modeIndicator struct {
	regex  string
	weight int
}

var modeIndicatorTables = map[string][]modeIndicator{
	ModeTrain: {
		{`\birctc\b`, 2},
		{`\btrain\b`, 2},
		{`\bcoach\b`, 2},
		{`\bberth\b`, 2},
		{`\bplatform\b`, 1},
		{`\brly\b|railway`, 1},
	},
	ModeFlight: {
		{`\bflight\b`, 2},
		{`air(?:lines?|ways)\b`, 2},
		{`web\s*check[-\s]?in`, 2},
		{`\bairport\b`, 1},
		{`\bgate\b`, 1},
		{`boarding\s+pass`, 1},
		{`\bterminal\b`, 1},
	},
	ModeBus: {
		{`\bbus\b`, 2},
		{`\bredbus\b`, 2},
		{`\bvolvo\b`, 1},
		{`boarding\s+point`, 1},
		{`\bseater\b`, 1},
	},
}

func tripIndicators() []Indicator {
	return []Indicator{
		{Name: "pnr", Regex: `\bpnr\b`},
		{Name: "booking", Regex: `booking|booked`},
		{Name: "confirmed", Regex: `confirm(?:ed|ation)`},
		{Name: "doj", Regex: `\bdoj\b|date\s+of\s+journey`},
		{Name: "departure", Regex: `depart(?:s|ure|ing)?`},
		{Name: "ticket", Regex: `\bticket\b`},
		{Name: "journey", Regex: `\btravel\b|journey`},
		{Name: "happy journey", Regex: `happy\s+journey|bon\s+voyage`},
	}
}

// tripExclusions reject travel promotions and cancellations; only
// confirmations belong to this category.
func tripExclusions() []string {
	return []string{
		`(?:has\s+been|stands?)\s+cancelled|cancellation\s+confirmed|refund\s+(?:processed|initiated)`,
		`book\s+now|sale\s+ends|fares?\s+starting\s+(?:at|from)|flat\s+\d+\s*%\s*off`,
	}
}

type compiledModeIndicator struct {
	re     *regexp.Regexp
	weight int
}

type tripParser struct {
	code       *pattern.Cascade
	date       *pattern.Cascade
	route      *pattern.PairCascade
	seatPair   *pattern.PairCascade
	seat       *pattern.Cascade
	class      *pattern.Cascade
	platform   *pattern.Cascade
	gate       *pattern.Cascade
	departure  *pattern.Cascade
	modes      map[string][]compiledModeIndicator
	phone      *regexp.Regexp
	indicators *IndicatorSet
	exclusions *ExclusionFilter
}

func newTripParser() (*tripParser, error) {
	p := &tripParser{modes: make(map[string][]compiledModeIndicator)}
	var err error

	if p.code, err = pattern.NewCascade("reservation_code", tripCodePatterns()); err != nil {
		return nil, err
	}
	if p.date, err = pattern.NewCascade("journey_date", tripDatePatterns()); err != nil {
		return nil, err
	}
	if p.route, err = pattern.NewPairCascade("route", tripRoutePatterns()); err != nil {
		return nil, err
	}
	if p.seatPair, err = pattern.NewPairCascade("seat_info", tripSeatPairPatterns()); err != nil {
		return nil, err
	}
	if p.seat, err = pattern.NewCascade("seat_info", tripSeatPatterns()); err != nil {
		return nil, err
	}
	if p.class, err = pattern.NewCascade("class", tripClassPatterns()); err != nil {
		return nil, err
	}
	if p.platform, err = pattern.NewCascade("platform", tripPlatformPatterns()); err != nil {
		return nil, err
	}
	if p.gate, err = pattern.NewCascade("gate", tripGatePatterns()); err != nil {
		return nil, err
	}
	if p.departure, err = pattern.NewCascade("departure_time", tripDeparturePatterns()); err != nil {
		return nil, err
	}
	for mode, table := range modeIndicatorTables {
		for _, ind := range table {
			re, compileErr := regexp.Compile("(?i)" + ind.regex)
			if compileErr != nil {
				return nil, compileErr
			}
			p.modes[mode] = append(p.modes[mode], compiledModeIndicator{re: re, weight: ind.weight})
		}
	}
	p.phone = regexp.MustCompile(`(?i)(?:call|helpline|customer\s+care|contact)\s*(?:us\s*)?(?:at|on)?\s*[:\-]?\s*(\d{10})\b`)
	if p.indicators, err = NewIndicatorSet(tripIndicators()); err != nil {
		return nil, err
	}
	if p.exclusions, err = NewExclusionFilter(tripExclusions()); err != nil {
		return nil, err
	}

	return p, nil
}

// extractCode runs the reservation cascade, discarding a bare ten-digit hit
// that is really a phone number from a help line.
func (p *tripParser) extractCode(text string) (string, bool) {
	code, ok := p.code.Extract(text)
	if !ok {
		return "", false
	}
	if m := p.phone.FindStringSubmatch(text); m != nil && m[1] == code {
		return "", false
	}
	return code, true
}

// detectMode scores each travel mode's provider indicators plus a bonus from
// the reservation code's shape. The highest score wins; all-zero means
// unknown.
func (p *tripParser) detectMode(text, code string) string {
	scores := map[string]int{ModeTrain: 0, ModeFlight: 0, ModeBus: 0}

	for mode, indicators := range p.modes {
		for _, ind := range indicators {
			if ind.re.MatchString(text) {
				scores[mode] += ind.weight
			}
		}
	}

	switch {
	case pattern.IsTrainCode(code):
		scores[ModeTrain] += trainCodeModeBonus
	case pattern.IsFlightCode(code):
		scores[ModeFlight] += flightCodeModeBonus
	case pattern.IsBusCode(code):
		scores[ModeBus] += busCodeModeBonus
	}

	best, bestScore := ModeUnknown, 0
	for _, mode := range []string{ModeTrain, ModeFlight, ModeBus} {
		if scores[mode] > bestScore {
			best, bestScore = mode, scores[mode]
		}
	}
	return best
}

func classForMode(mode, token string) string {
	var classes map[string]string
	switch mode {
	case ModeTrain:
		classes = trainClasses
	case ModeFlight:
		classes = flightClasses
	case ModeBus:
		classes = busClasses
	default:
		return ""
	}
	return classes[token]
}

func (p *tripParser) parse(text string) model.ParseOutcome {
	if p.exclusions.Excluded(text) {
		return model.Rejected(model.CategoryTrip, 0, reasonExcluded, text)
	}

	fields := &model.TripFields{}
	if code, ok := p.extractCode(text); ok {
		fields.ReservationCode = code
	}
	fields.Mode = p.detectMode(text, fields.ReservationCode)

	if date, ok := p.date.Extract(text); ok {
		fields.JourneyDate = date
	}
	if boarding, drop, ok := p.route.Extract(text); ok {
		fields.Boarding, fields.Drop = boarding, drop
	}
	if coach, seat, ok := p.seatPair.Extract(text); ok {
		fields.SeatInfo = pattern.NormalizeCode(coach) + ", " + seat
	} else if seat, ok := p.seat.Extract(text); ok {
		fields.SeatInfo = seat
	}
	if token, ok := p.class.Extract(text); ok {
		fields.Class = classForMode(fields.Mode, token)
	}
	if fields.Mode == ModeTrain {
		if platform, ok := p.platform.Extract(text); ok {
			fields.Platform = platform
		}
	}
	if fields.Mode == ModeFlight {
		if gate, ok := p.gate.Extract(text); ok {
			fields.Gate = gate
		}
	}
	if dep, ok := p.departure.Extract(text); ok {
		fields.DepartureTime = dep
	}

	score := p.score(text, fields)
	if score < tripThreshold {
		return model.Rejected(model.CategoryTrip, score, belowThreshold(score, tripThreshold), text)
	}

	return model.ParseOutcome{
		Category:   model.CategoryTrip,
		Parsed:     true,
		Confidence: score,
		Trip:       fields,
	}
}

func (p *tripParser) score(text string, fields *model.TripFields) int {
	score := cappedIndicatorScore(p.indicators.Count(text), tripIndicatorWeight, tripIndicatorCap)

	if fields.ReservationCode != "" {
		score += tripCodeBonus
	}
	if fields.JourneyDate != "" {
		score += tripDateBonus
	}
	if fields.Boarding != "" && fields.Drop != "" {
		score += tripRouteBonus
	}
	if fields.SeatInfo != "" {
		score += tripSeatBonus
	}
	if fields.Class != "" {
		score += tripClassBonus
	}

	return clampScore(score)
}

func (p *tripParser) hasStrongToken(text string) bool {
	_, ok := p.extractCode(text)
	return ok
}
