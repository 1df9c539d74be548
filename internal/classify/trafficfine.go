package classify

import (
	"regexp"

	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/pattern"
)

func fineChallanPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `(?:challan|e[-\s]?challan)\s*(?:no\.?|number|#)?\s*[:\-]?\s*([A-Za-z0-9]{8,20})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsChallanNumber,
		},
		{
			Regex:     `vide\s+challan\s+([A-Za-z0-9]{8,20})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsChallanNumber,
		},
	}
}

func fineVehiclePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			// Strict plate grammar: state code, district, series, number.
			Regex:         `\b([A-Z]{2}\s?\d{1,2}\s?[A-Z]{1,2}\s?\d{4})\b`,
			CaseSensitive: true,
			Normalize:     pattern.NormalizeCode,
			Validate:      pattern.IsVehiclePlate,
		},
		{
			// Keyword-anchored fallback with a looser grammar.
			Regex:     `vehicle\s*(?:no\.?|number)?\s*[:\-]?\s*([A-Za-z]{2}[-\s]?\d{1,2}[-\s]?[A-Za-z]{0,3}[-\s]?\d{3,4})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsLooseVehiclePlate,
		},
	}
}

func fineAmountPatterns() []pattern.FieldPattern {
	inRange := pattern.AmountBetween(1, 100000)
	return []pattern.FieldPattern{
		{
			Regex:     `(?:fine|penalty|amount)\s+(?:of\s+)?` + currencyMark + `\s*` + amountToken,
			Normalize: pattern.NormalizeAmount,
			Validate:  inRange,
		},
		{
			Regex:     currencyMark + `\s*` + amountToken,
			Normalize: pattern.NormalizeAmount,
			Validate:  inRange,
		},
	}
}

func fineLinkPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `(https?:\/\/[^\s]+)`,
			Normalize: pattern.TrimURL,
			Validate:  pattern.IsHTTPURL,
		},
	}
}

func fineAuthorityPatterns() []pattern.FieldPattern {
	authorities := []struct {
		keyword string
		name    string
	}{
		{`delhi\s+traffic\s+police`, "Delhi Traffic Police"},
		{`mumbai\s+traffic\s+police`, "Mumbai Traffic Police"},
		{`(?:bengaluru|bangalore)\s+traffic\s+police`, "Bengaluru Traffic Police"},
		{`hyderabad\s+traffic\s+police`, "Hyderabad Traffic Police"},
		{`chennai\s+traffic\s+police`, "Chennai Traffic Police"},
		{`kolkata\s+traffic\s+police`, "Kolkata Traffic Police"},
		{`pune\s+traffic\s+police`, "Pune Traffic Police"},
		{`parivahan`, "Parivahan"},
		{`\brto\b`, "RTO"},
		{`traffic\s+police`, "Traffic Police"},
	}

	patterns := make([]pattern.FieldPattern, 0, len(authorities))
	for _, a := range authorities {
		patterns = append(patterns, pattern.FieldPattern{
			Regex:     `(` + a.keyword + `)`,
			Normalize: constant(a.name),
		})
	}
	return patterns
}

// fineStatusBuckets are checked in priority order; the first bucket with a
// match wins and the default is "issued".
var fineStatusBuckets = []struct {
	status string
	regex  string
}{
	{"paid", `\bpaid\b|payment\s+(?:received|successful)|settled`},
	{"pending", `\bpending\b|unpaid|not\s+(?:yet\s+)?paid|payment\s+due`},
	{"issued", `issued|generated|raised`},
}

func fineIndicators() []Indicator {
	return []Indicator{
		{Name: "challan", Regex: `challan`},
		{Name: "traffic", Regex: `\btraffic\b`},
		{Name: "violation", Regex: `violation|offence|over[\s-]?speed(?:ing)?|red\s+light|signal\s+jump|wrong\s+side`},
		{Name: "fine", Regex: `\bfine\b|penalty`},
		{Name: "vehicle", Regex: `\bvehicle\b`},
		{Name: "pay", Regex: `pay\s+(?:online|at|your|the)|payment`},
		{Name: "transport dept", Regex: `parivahan|transport\s+dep(?:artmen)?t|\brto\b`},
	}
}

// fineExclusions reject the vehicle-adjacent promotions that quote plates
// and amounts without being a fine.
func fineExclusions() []string {
	return []string{
		`insurance\s+(?:renewal|expir\w*)|renew\s+your\s+(?:vehicle\s+)?insurance`,
		`pollution\s+certificate|puc\s+expir`,
		`fastag\s+recharge`,
	}
}

type trafficFineParser struct {
	challan    *pattern.Cascade
	vehicle    *pattern.Cascade
	amount     *pattern.Cascade
	link       *pattern.Cascade
	authority  *pattern.Cascade
	status     []*regexp.Regexp
	indicators *IndicatorSet
	exclusions *ExclusionFilter
}

func newTrafficFineParser() (*trafficFineParser, error) {
	p := &trafficFineParser{}
	var err error

	if p.challan, err = pattern.NewCascade("challan_number", fineChallanPatterns()); err != nil {
		return nil, err
	}
	if p.vehicle, err = pattern.NewCascade("vehicle", fineVehiclePatterns()); err != nil {
		return nil, err
	}
	if p.amount, err = pattern.NewCascade("fine", fineAmountPatterns()); err != nil {
		return nil, err
	}
	if p.link, err = pattern.NewCascade("payment_link", fineLinkPatterns()); err != nil {
		return nil, err
	}
	if p.authority, err = pattern.NewCascade("authority", fineAuthorityPatterns()); err != nil {
		return nil, err
	}
	for _, bucket := range fineStatusBuckets {
		re, compileErr := regexp.Compile("(?i)" + bucket.regex)
		if compileErr != nil {
			return nil, compileErr
		}
		p.status = append(p.status, re)
	}
	if p.indicators, err = NewIndicatorSet(fineIndicators()); err != nil {
		return nil, err
	}
	if p.exclusions, err = NewExclusionFilter(fineExclusions()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *trafficFineParser) resolveStatus(text string) string {
	for i, re := range p.status {
		if re.MatchString(text) {
			return fineStatusBuckets[i].status
		}
	}
	return "issued"
}

func (p *trafficFineParser) parse(text string) model.ParseOutcome {
	if p.exclusions.Excluded(text) {
		return model.Rejected(model.CategoryTrafficFine, 0, reasonExcluded, text)
	}

	fields := &model.TrafficFineFields{}
	if challan, ok := p.challan.Extract(text); ok {
		fields.ChallanNumber = challan
	}
	if vehicle, ok := p.vehicle.Extract(text); ok {
		fields.Vehicle = vehicle
	}
	if amount, ok := p.amount.Extract(text); ok {
		fields.Fine = amount
	}
	if link, ok := p.link.Extract(text); ok {
		fields.PaymentLink = link
	}
	if authority, ok := p.authority.Extract(text); ok {
		fields.Authority = authority
	}
	fields.Status = p.resolveStatus(text)

	score := p.score(text, fields)
	if score < fineThreshold {
		return model.Rejected(model.CategoryTrafficFine, score, belowThreshold(score, fineThreshold), text)
	}

	return model.ParseOutcome{
		Category:    model.CategoryTrafficFine,
		Parsed:      true,
		Confidence:  score,
		TrafficFine: fields,
	}
}

func (p *trafficFineParser) score(text string, fields *model.TrafficFineFields) int {
	score := cappedIndicatorScore(p.indicators.Count(text), fineIndicatorWeight, fineIndicatorCap)

	if fields.ChallanNumber != "" {
		score += fineChallanBonus
	}
	if fields.Vehicle != "" {
		score += fineVehicleBonus
	}
	if fields.Fine != "" {
		score += fineAmountBonus
	}
	if fields.PaymentLink != "" {
		score += fineLinkBonus
	}
	if fields.Authority != "" {
		score += fineAuthorityBonus
	}

	return clampScore(score)
}

// hasStrongToken reports whether the text carries a category-defining
// identifier, used by the auto dispatcher.
func (p *trafficFineParser) hasStrongToken(text string) bool {
	if _, ok := p.challan.Extract(text); ok {
		return true
	}
	_, ok := p.vehicle.Extract(text)
	return ok
}
