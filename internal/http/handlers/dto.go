package handlers

import (
	"time"

	"paycoffee/server/internal/domain"
)

type ownerDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PaymanPaytag string    `json:"payman_paytag"`
	CreatedAt    time.Time `json:"created_at"`
}

// ownerToDTO strips the password hash; it must never reach a response.
func ownerToDTO(o *domain.Owner) ownerDTO {
	return ownerDTO{
		ID:           o.ID,
		Email:        o.Email,
		DisplayName:  o.DisplayName,
		PaymanPaytag: o.PaymanPaytag,
		CreatedAt:    o.CreatedAt,
	}
}

type widgetDTO struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	DefaultAmounts    []float64 `json:"default_amounts"`
	AllowCustomAmount bool      `json:"allow_custom_amount"`
	ButtonText        string    `json:"button_text"`
	PrimaryColor      string    `json:"primary_color"`
	CreatedAt         time.Time `json:"created_at"`
}

func widgetToDTO(w *domain.Widget) widgetDTO {
	return widgetDTO{
		ID:                w.ID,
		OwnerID:           w.OwnerID,
		Title:             w.Title,
		Description:       w.Description,
		DefaultAmounts:    w.DefaultAmounts,
		AllowCustomAmount: w.AllowCustomAmount,
		ButtonText:        w.ButtonText,
		PrimaryColor:      w.PrimaryColor,
		CreatedAt:         w.CreatedAt,
	}
}

type publicOwnerDTO struct {
	DisplayName  string `json:"display_name"`
	PaymanPaytag string `json:"payman_paytag"`
}

type publicWidgetDTO struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	DefaultAmounts    []float64      `json:"default_amounts"`
	AllowCustomAmount bool           `json:"allow_custom_amount"`
	ButtonText        string         `json:"button_text"`
	PrimaryColor      string         `json:"primary_color"`
	Owner             publicOwnerDTO `json:"owner"`
}

func publicWidgetToDTO(w *domain.PublicWidget) publicWidgetDTO {
	return publicWidgetDTO{
		ID:                w.ID,
		Title:             w.Title,
		Description:       w.Description,
		DefaultAmounts:    w.DefaultAmounts,
		AllowCustomAmount: w.AllowCustomAmount,
		ButtonText:        w.ButtonText,
		PrimaryColor:      w.PrimaryColor,
		Owner: publicOwnerDTO{
			DisplayName:  w.Owner.DisplayName,
			PaymanPaytag: w.Owner.PaymanPaytag,
		},
	}
}

type transactionDTO struct {
	ID                  string    `json:"id"`
	WidgetID            string    `json:"widget_id"`
	Amount              float64   `json:"amount"`
	SupporterName       string    `json:"supporter_name"`
	Message             string    `json:"message"`
	SupporterCountry    string    `json:"supporter_country,omitempty"`
	OwnerPaytag         string    `json:"owner_paytag"`
	PaymanTransactionID string    `json:"payman_transaction_id"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
}

func transactionToDTO(tx *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:                  tx.ID,
		WidgetID:            tx.WidgetID,
		Amount:              tx.Amount,
		SupporterName:       tx.SupporterName,
		Message:             tx.Message,
		SupporterCountry:    tx.SupporterCountry,
		OwnerPaytag:         tx.OwnerPaytag,
		PaymanTransactionID: tx.PaymanTransactionID,
		Status:              string(tx.Status),
		CreatedAt:           tx.CreatedAt,
	}
}

type paymentFlowDTO struct {
	ID            string    `json:"id"`
	WidgetID      string    `json:"widget_id"`
	Amount        float64   `json:"amount"`
	SupporterName string    `json:"supporter_name"`
	Message       string    `json:"message"`
	ReturnURL     string    `json:"return_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func paymentFlowToDTO(f *domain.PaymentFlow) paymentFlowDTO {
	return paymentFlowDTO{
		ID:            f.ID,
		WidgetID:      f.WidgetID,
		Amount:        f.Amount,
		SupporterName: f.SupporterName,
		Message:       f.Message,
		ReturnURL:     f.ReturnURL,
		ExpiresAt:     f.ExpiresAt,
	}
}
