package domain

import "time"

// Owner represents a registered widget owner account.
type Owner struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	PaymanPaytag string
	CreatedAt    time.Time
}
