package classify

import (
	"github.com/textsieve/textsieve/internal/model"
	"github.com/textsieve/textsieve/internal/pattern"
)

// dateToken matches the date spellings the normalizer understands:
// numeric with /-. separators, day-month-name, and bare month-year.
const dateToken = `(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{1,2}[-\s][A-Za-z]{3,9}[-\s]\d{2,4}|[A-Za-z]{3,9}\s+\d{4})`

const amountToken = `([\d,]+(?:\.\d{1,2})?)`

const currencyMark = `(?:rs\.?|inr|₹)`

func instAmountPatterns() []pattern.FieldPattern {
	inRange := pattern.AmountBetween(1, 10000000)
	return []pattern.FieldPattern{
		{
			Regex:     `(?:emi|instal?lment|amount|amt)\s+of\s+` + currencyMark + `\s*` + amountToken,
			Normalize: pattern.NormalizeAmount,
			Validate:  inRange,
		},
		{
			Regex:     currencyMark + `\s*` + amountToken + `\s+(?:is\s+)?(?:due|payable|pending|overdue)`,
			Normalize: pattern.NormalizeAmount,
			Validate:  inRange,
		},
		{
			Regex:     `pay(?:ment\s+of)?\s+` + currencyMark + `\s*` + amountToken,
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

func instDueDatePatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `due\s+(?:on|by|date)?\s*[:\-]?\s*` + dateToken,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
		{
			Regex:     `pay(?:able)?\s+(?:before|by)\s+` + dateToken,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
		{
			Regex:     `due\s+(?:in|for)\s+([A-Za-z]{3,9}\s+\d{4})`,
			Normalize: pattern.NormalizeDate,
			Validate:  pattern.ValidDate,
		},
	}
}

// instLenderPatterns is the abbreviation-to-full-name lookup expressed as a
// cascade; multiword lenders come first so "bajaj finserv" never resolves as
// a bare bank keyword.
func instLenderPatterns() []pattern.FieldPattern {
	lenders := []struct {
		keyword string
		name    string
	}{
		{`bajaj\s+finserv`, "Bajaj Finserv"},
		{`bajaj\s+finance`, "Bajaj Finance"},
		{`tata\s+capital`, "Tata Capital"},
		{`lic\s+hfl|lic\s+housing`, "LIC Housing Finance"},
		{`home\s+credit`, "Home Credit"},
		{`idfc(?:\s+first)?`, "IDFC First Bank"},
		{`\bhdfc\b`, "HDFC Bank"},
		{`\bicici\b`, "ICICI Bank"},
		{`\bsbi\b`, "SBI"},
		{`\baxis\b`, "Axis Bank"},
		{`\bkotak\b`, "Kotak Mahindra Bank"},
		{`\bmuthoot\b`, "Muthoot Finance"},
		{`\bfullerton\b`, "Fullerton India"},
	}

	patterns := make([]pattern.FieldPattern, 0, len(lenders))
	for _, l := range lenders {
		patterns = append(patterns, pattern.FieldPattern{
			Regex:     `(` + l.keyword + `)`,
			Normalize: constant(l.name),
		})
	}
	return patterns
}

func instAccountPatterns() []pattern.FieldPattern {
	return []pattern.FieldPattern{
		{
			Regex:     `(?:loan|a\/?c|acc(?:oun)?t)\s*(?:no\.?|number|#)?\s*[:\-]?\s*([A-Za-z0-9Xx*]{6,20})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsAccountRef,
		},
		{
			Regex:     `ending\s+(?:in\s+)?([Xx*]{2,6}\d{4,8})\b`,
			Normalize: pattern.NormalizeCode,
			Validate:  pattern.IsAccountRef,
		},
	}
}

func instIndicators() []Indicator {
	return []Indicator{
		{Name: "emi", Regex: `\bemi\b`},
		{Name: "installment", Regex: `instal?lment`},
		{Name: "due", Regex: `\bdue\b|overdue`},
		{Name: "loan", Regex: `\bloan\b`},
		{Name: "repayment", Regex: `repay(?:ment)?`},
		{Name: "late charge", Regex: `bounce\s+charges?|late\s+(?:fee|payment\s+charges?)|penal\s+(?:interest|charges?)`},
		{Name: "pay reminder", Regex: `pay\s+(?:now|immediately|before|at\s+the\s+earliest)|kindly\s+pay`},
	}
}

// instExclusions reject promotional financing offers outright: a "no-cost
// EMI" pitch is an advertisement, not a reminder.
func instExclusions() []string {
	return []string{
		`no[-\s]?cost\s+emi|zero[-\s]?cost\s+emi|0\s*%\s+interest`,
		`emi\s+offers?|easy\s+emi\s+(?:available|options?)|emi\s+available`,
		`shop\s+now|buy\s+now|grab\s+(?:the\s+)?offer|limited\s+period\s+offer`,
	}
}

type installmentParser struct {
	amount     *pattern.Cascade
	dueDate    *pattern.Cascade
	lender     *pattern.Cascade
	account    *pattern.Cascade
	indicators *IndicatorSet
	exclusions *ExclusionFilter
}

func newInstallmentParser() (*installmentParser, error) {
	p := &installmentParser{}
	var err error

	if p.amount, err = pattern.NewCascade("amount", instAmountPatterns()); err != nil {
		return nil, err
	}
	if p.dueDate, err = pattern.NewCascade("due_date", instDueDatePatterns()); err != nil {
		return nil, err
	}
	if p.lender, err = pattern.NewCascade("lender", instLenderPatterns()); err != nil {
		return nil, err
	}
	if p.account, err = pattern.NewCascade("account", instAccountPatterns()); err != nil {
		return nil, err
	}
	if p.indicators, err = NewIndicatorSet(instIndicators()); err != nil {
		return nil, err
	}
	if p.exclusions, err = NewExclusionFilter(instExclusions()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *installmentParser) parse(text string) model.ParseOutcome {
	if p.exclusions.Excluded(text) {
		return model.Rejected(model.CategoryInstallment, 0, reasonExcluded, text)
	}

	fields := &model.InstallmentFields{}
	if amount, ok := p.amount.Extract(text); ok {
		fields.Amount = amount
	}
	if due, ok := p.dueDate.Extract(text); ok {
		fields.DueDate = due
	}
	if lender, ok := p.lender.Extract(text); ok {
		fields.Lender = lender
	}
	if account, ok := p.account.Extract(text); ok {
		fields.Account = account
	}

	score := p.score(text, fields)
	if score < instThreshold {
		return model.Rejected(model.CategoryInstallment, score, belowThreshold(score, instThreshold), text)
	}

	return model.ParseOutcome{
		Category:    model.CategoryInstallment,
		Parsed:      true,
		Confidence:  score,
		Installment: fields,
	}
}

func (p *installmentParser) score(text string, fields *model.InstallmentFields) int {
	score := cappedIndicatorScore(p.indicators.Count(text), instIndicatorWeight, instIndicatorCap)

	if fields.Amount != "" {
		score += instAmountBonus
	}
	if fields.DueDate != "" {
		score += instDueDateBonus
	}
	if fields.Account != "" {
		score += instAccountBonus
	}
	if fields.Lender != "" {
		score += instLenderBonus
	}

	return clampScore(score)
}
