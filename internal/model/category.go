package model

import "fmt"

// Category identifies one of the supported message categories.
type Category string

const (
	// CategoryAuthCode represents one-time password / verification code messages.
	CategoryAuthCode Category = "auth_code"
	// CategoryInstallment represents installment-due reminders.
	CategoryInstallment Category = "installment_reminder"
	// CategoryTrafficFine represents traffic-fine (challan) notices.
	CategoryTrafficFine Category = "traffic_fine"
	// CategoryTrip represents travel booking confirmations.
	CategoryTrip Category = "trip_confirmation"

	// CategoryAuto asks the dispatcher to pick the category itself.
	CategoryAuto Category = "auto"
)

// Categories lists every concrete category in dispatch priority order.
func Categories() []Category {
	return []Category{CategoryTrip, CategoryTrafficFine, CategoryInstallment, CategoryAuthCode}
}

// ParseCategory converts a user-supplied name into a Category.
func ParseCategory(name string) (Category, error) {
	switch Category(name) {
	case CategoryAuthCode, CategoryInstallment, CategoryTrafficFine, CategoryTrip, CategoryAuto:
		return Category(name), nil
	}
	return "", fmt.Errorf("unsupported category %q", name)
}
