package domain

import "time"

// PaymentFlow is a short-lived server-held session holding the
// parameters of an in-flight supporter payment while the external
// wallet-authorization redirect is in progress.
type PaymentFlow struct {
	ID            string
	WidgetID      string
	Amount        float64
	SupporterName string
	Message       string
	ReturnURL     string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Expired reports whether the flow is past its expiry at the given instant.
func (f PaymentFlow) Expired(now time.Time) bool {
	return now.After(f.ExpiresAt)
}
