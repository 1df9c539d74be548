package classify

import (
	"strconv"
	"strings"

	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/pattern"
)

// serviceBySender maps sender-label fragments to service names. Used as a
// fallback when the message body does not name the service.
var serviceBySender = map[string]string{
	"HDFCBK": "HDFC Bank",
	"ICICIB": "ICICI Bank",
	"SBIINB": "SBI",
	"SBIOTP": "SBI",
	"AXISBK": "Axis Bank",
	"KOTAKB": "Kotak Bank",
	"PAYTMB": "Paytm",
	"PHONPE": "PhonePe",
	"GPAY":   "Google Pay",
	"AMAZON": "Amazon",
	"FLPKRT": "Flipkart",
	"WHTSAP": "WhatsApp",
	"IRCTCS": "IRCTC",
	"SWIGGY": "Swiggy",
	"ZOMATO": "Zomato",
	"UBERIN": "Uber",
	"OLACAB": "Ola",
}

// serviceNames canonicalizes body-extracted service names whose acronym
// casing a naive title-case would mangle.
var serviceNames = map[string]string{
	"HDFC":       "HDFC Bank",
	"HDFC BANK":  "HDFC Bank",
	"ICICI":      "ICICI Bank",
	"ICICI BANK": "ICICI Bank",
	"SBI":        "SBI",
	"AXIS BANK":  "Axis Bank",
	"PHONEPE":    "PhonePe",
	"GOOGLE PAY": "Google Pay",
	"WHATSAPP":   "WhatsApp",
	"IRCTC":      "IRCTC",
}

func normalizeService(s string) string {
	s = pattern.TitleCase(s)
	if canonical, ok := serviceNames[strings.ToUpper(s)]; ok {
		return canonical
	}
	return s
}

// serviceFromSender resolves a service from a sender label such as
// "VM-HDFCBK". The two-letter route prefix is ignored.
func serviceFromSender(sender string) string {
	label := strings.ToUpper(strings.TrimSpace(sender))
	if len(label) > 3 && label[2] == '-' {
		label = label[3:]
	}
	for fragment, service := range serviceBySender {
		if strings.Contains(label, fragment) {
			return service
		}
	}
	return ""
}

func authCodePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `\b(\d{4,8})\s+is\s+your\s+(?:otp|one[\s-]?time\s+password|verification\s+code|security\s+code)`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.NumericCode(4, 8),
		},
		{
			Regex:     `(?:otp|one[\s-]?time\s+password|verification\s+code|security\s+code|login\s+code)\s*(?:is|:|-)?\s*(\d{4,8})\b`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.NumericCode(4, 8),
		},
		{
			Regex:     `\buse\s+(?:otp|code)\s+(\d{4,8})\b`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.NumericCode(4, 8),
		},
		{
			Regex:     `\bcode\s*[:\-]?\s*(\d{4,8})\b`,
			Normalize: pattern.DigitsOnly,
			Validate:  pattern.NumericCode(4, 8),
		},
	}
}

func authServicePatterns() []pattern.FieldPattern {
	notStopword := func(s string) bool {
		switch strings.ToLower(s) {
		case "your", "the", "this", "my", "an", "a":
			return false
		}
		return len(s) >= 3
	}
	return []pattern.FieldPattern{
		{
			Regex:     `(?:otp|code|password)\s+for\s+(?:your\s+)?([A-Za-z][A-Za-z0-9 .&-]{2,24}?)\s+(?:login|log[\s-]?in|sign[\s-]?up|sign[\s-]?in|transaction|txn|account|registration|verification|app|wallet|order)\b`,
			Normalize: normalizeService,
			Validate:  notStopword,
		},
		{
			Regex:     `your\s+([A-Za-z][A-Za-z0-9 .&-]{2,24}?)\s+(?:otp|one[\s-]?time\s+password|verification\s+code)\b`,
			Normalize: normalizeService,
			Validate:  notStopword,
		},
	}
}

func authPurposePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{Regex: `\b(log[\s-]?in|sign[\s-]?in)\b`, Normalize: constant("login")},
		{Regex: `\b(sign[\s-]?up|registration|register(?:ing)?)\b`, Normalize: constant("signup")},
		{Regex: `\b(password\s+reset|reset(?:ting)?\s+(?:your\s+)?password)\b`, Normalize: constant("password_reset")},
		{Regex: `\b(transaction|txn|payment|purchase)\b`, Normalize: constant("transaction")},
		{Regex: `\b(verification|verify(?:ing)?)\b`, Normalize: constant("verification")},
	}
}

func authValidityPatterns() []pattern.PairPattern {
	units := `minutes?|mins?|min|seconds?|secs?|sec|hours?|hrs?|hr`
	return []pattern.PairPattern{
		{Regex: `valid\s+(?:for|till|upto|up\s+to)\s+(\d{1,3})\s*(` + units + `)\b`},
		{Regex: `expires?\s+in\s+(\d{1,3})\s*(` + units + `)\b`},
	}
}

func authIndicators() []Indicator {
	return []Indicator{
		{Name: "otp", Regex: `\botp\b`},
		{Name: "one time password", Regex: `one[\s-]?time\s+password`},
		{Name: "verification code", Regex: `verification\s+code|security\s+code`},
		{Name: "do not share", Regex: `do\s+not\s+share|don'?t\s+share|never\s+share`},
		{Name: "valid for", Regex: `valid\s+(?:for|till|upto)|expires?\s+in`},
		{Name: "login", Regex: `\blog[\s-]?in\b|\bsign[\s-]?in\b`},
		{Name: "verify", Regex: `\bverify\b|verification`},
	}
}

func authWarnings() []Indicator {
	return []Indicator{
		{Name: "do not share", Regex: `do\s+not\s+share|don'?t\s+share|never\s+share`},
		{Name: "do not disclose", Regex: `do\s+not\s+disclose`},
		{Name: "bank never asks", Regex: `bank\s+(?:will\s+)?never\s+asks?`},
		{Name: "beware of fraud", Regex: `\bbeware\b|fraud(?:ulent)?\s+(?:call|message)`},
	}
}

// authExclusions reject the two classic look-alikes: banking transaction
// alerts (which quote large digit runs) and promotional coupon codes.
func authExclusions() []string {
	return []string{
		`(?:debited|credited)\s+(?:from|to|with)|has\s+been\s+(?:debited|credited)`,
		`a\/?c\s+balance|avl\s+bal|available\s+balance`,
		`txn\s+of\s+(?:rs\.?|inr)`,
		`promo\s+code|coupon\s+code|voucher\s+code`,
		`use\s+code\s+\w+\s+(?:to\s+get|and\s+get|for\s+\d)`,
		`%\s*off|flat\s+\d+\s*%|cashback\s+offer`,
	}
}

type authCodeParser struct {
	code       *pattern.Cascade
	service    *pattern.Cascade
	purpose    *pattern.Cascade
	validity   *pattern.PairCascade
	indicators *IndicatorSet
	warnings   *IndicatorSet
	exclusions *ExclusionFilter
}

func newAuthCodeParser() (*authCodeParser, error) {
	p := &authCodeParser{}
	var err error

	if p.code, err = pattern.NewCascade("code", authCodePatterns()); err != nil {
		return nil, err
	}
	if p.service, err = pattern.NewCascade("service", authServicePatterns()); err != nil {
		return nil, err
	}
	if p.purpose, err = pattern.NewCascade("purpose", authPurposePatterns()); err != nil {
		return nil, err
	}
	if p.validity, err = pattern.NewPairCascade("validity", authValidityPatterns()); err != nil {
		return nil, err
	}
	if p.indicators, err = NewIndicatorSet(authIndicators()); err != nil {
		return nil, err
	}
	if p.warnings, err = NewIndicatorSet(authWarnings()); err != nil {
		return nil, err
	}
	if p.exclusions, err = NewExclusionFilter(authExclusions()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *authCodeParser) parse(text, sender string) model.ParseOutcome {
	if p.exclusions.Excluded(text) {
		return model.Rejected(model.CategoryAuthCode, 0, reasonExcluded, text)
	}

	fields := &model.AuthCodeFields{}
	if code, ok := p.code.Extract(text); ok {
		fields.Code = code
	}
	if svc, ok := p.service.Extract(text); ok {
		fields.Service = svc
	} else if svc := serviceFromSender(sender); svc != "" {
		fields.Service = svc
	}
	if purpose, ok := p.purpose.Extract(text); ok {
		fields.Purpose = purpose
	}
	if value, unit, ok := p.validity.Extract(text); ok {
		if v, convErr := strconv.Atoi(value); convErr == nil {
			fields.Validity = &model.Validity{Value: v, Unit: pattern.NormalizeDurationUnit(unit)}
		}
	}
	fields.Warnings = p.warnings.Matches(text)

	score := p.score(text, fields)
	if fields.Code == "" {
		return model.Rejected(model.CategoryAuthCode, score, "no auth code detected", text)
	}
	if score < authThreshold {
		return model.Rejected(model.CategoryAuthCode, score, belowThreshold(score, authThreshold), text)
	}

	return model.ParseOutcome{
		Category:   model.CategoryAuthCode,
		Parsed:     true,
		Confidence: score,
		AuthCode:   fields,
	}
}

func (p *authCodeParser) score(text string, fields *model.AuthCodeFields) int {
	score := cappedIndicatorScore(p.indicators.Count(text), authIndicatorWeight, authIndicatorCap)

	if fields.Code != "" {
		score += authCodeBonus
		if len(fields.Warnings) > 0 {
			score += authShareWarnBonus
		}
	}
	if fields.Service != "" {
		score += authServiceBonus
	}
	if fields.Validity != nil {
		score += authValidityBonus
	}

	return clampScore(score)
}
