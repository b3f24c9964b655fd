package domain

import "time"

// TransactionStatus enumerates recorded payment outcomes. Only the
// success path is modeled; failed attempts are never persisted.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
)

// UnknownExternalID is recorded when the payment network omits a
// transaction identifier from its response.
const UnknownExternalID = "unknown"

// Transaction is the immutable record of a supporter payment.
type Transaction struct {
	ID                  string
	WidgetID            string
	Amount              float64
	SupporterName       string
	Message             string
	SupporterCountry    string
	OwnerPaytag         string
	PaymanTransactionID string
	Status              TransactionStatus
	CreatedAt           time.Time
}
