package domain

import "time"

// Widget is a configurable payment-request unit embeddable on third-party pages.
type Widget struct {
	ID                string
	OwnerID           string
	Title             string
	Description       string
	DefaultAmounts    []float64
	AllowCustomAmount bool
	ButtonText        string
	PrimaryColor      string
	CreatedAt         time.Time
}

// WidgetOwnerInfo is the supporter-facing subset of the owning account.
// It is the only owner data that may leave the service unauthenticated.
type WidgetOwnerInfo struct {
	DisplayName  string
	PaymanPaytag string
}

// PublicWidget joins a widget with its owner's display info for the
// payment page and the embed script.
type PublicWidget struct {
	Widget
	Owner WidgetOwnerInfo
}

// Defaults applied when a widget is created without explicit values.
const (
	DefaultButtonText   = "Buy me a coffee"
	DefaultPrimaryColor = "#4fd1c7"
)

// DefaultAmountPresets returns the preset list used when none is supplied.
func DefaultAmountPresets() []float64 {
	return []float64{5, 10, 25}
}
