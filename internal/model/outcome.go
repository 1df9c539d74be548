package model

// Empty string means the field was absent from the message; callers must
// treat every field as optional.

// Validity is how long an auth code stays usable.
type Validity struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// AuthCodeFields holds the extracted fields of an auth-code message.
type AuthCodeFields struct {
	Code     string    `json:"code,omitempty"`
	Service  string    `json:"service,omitempty"`
	Purpose  string    `json:"purpose,omitempty"`
	Validity *Validity `json:"validity,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// InstallmentFields holds the extracted fields of an installment reminder.
type InstallmentFields struct {
	Amount  string `json:"amount,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	Lender  string `json:"lender,omitempty"`
	Account string `json:"account,omitempty"`
}

// TrafficFineFields holds the extracted fields of a traffic-fine notice.
type TrafficFineFields struct {
	ChallanNumber string `json:"challan_number,omitempty"`
	Vehicle       string `json:"vehicle,omitempty"`
	Fine          string `json:"fine,omitempty"`
	PaymentLink   string `json:"payment_link,omitempty"`
	Authority     string `json:"authority,omitempty"`
	Status        string `json:"status,omitempty"`
}

// TripFields holds the extracted fields of a trip confirmation.
type TripFields struct {
	Mode            string `json:"mode,omitempty"`
	ReservationCode string `json:"reservation_code,omitempty"`
	JourneyDate     string `json:"journey_date,omitempty"`
	Boarding        string `json:"boarding,omitempty"`
	Drop            string `json:"drop,omitempty"`
	SeatInfo        string `json:"seat_info,omitempty"`
	Class           string `json:"class,omitempty"`
	Platform        string `json:"platform,omitempty"`
	Gate            string `json:"gate,omitempty"`
	DepartureTime   string `json:"departure_time,omitempty"`
}

// previewLen caps how much raw text a rejection carries.
const previewLen = 100

// ParseOutcome is the result of classifying one message. Exactly one of the
// per-category field records is non-nil, and only when Parsed is true.
type ParseOutcome struct {
	Category    Category           `json:"category"`
	Parsed      bool               `json:"parsed"`
	Confidence  int                `json:"confidence"`
	Reason      string             `json:"reason,omitempty"`
	Preview     string             `json:"preview,omitempty"`
	AuthCode    *AuthCodeFields    `json:"auth_code,omitempty"`
	Installment *InstallmentFields `json:"installment,omitempty"`
	TrafficFine *TrafficFineFields `json:"traffic_fine,omitempty"`
	Trip        *TripFields        `json:"trip,omitempty"`
}

// Rejected builds a rejection outcome carrying a short preview of the text
// instead of the full message.
func Rejected(category Category, confidence int, reason, text string) ParseOutcome {
	preview := text
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return ParseOutcome{
		Category:   category,
		Parsed:     false,
		Confidence: confidence,
		Reason:     reason,
		Preview:    preview,
	}
}
