package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paycoffee/server/internal/domain"
	"paycoffee/server/internal/middleware"
	"paycoffee/server/internal/payment"
)

type paymentRequest struct {
	Amount         float64 `json:"amount"`
	SupporterToken string  `json:"supporterToken"`
	SupporterName  string  `json:"supporterName"`
	Message        string  `json:"message"`
}

// PaymentsProcess drives a supporter payment through the external
// network and returns the recorded transaction.
func (a *App) PaymentsProcess(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Valid amount is required")
		return
	}

	tx, err := a.Payments.Process(r.Context(), payment.ProcessParams{
		WidgetID:         chi.URLParam(r, "widgetId"),
		Amount:           req.Amount,
		SupporterToken:   req.SupporterToken,
		SupporterName:    req.SupporterName,
		Message:          req.Message,
		SupporterCountry: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			a.error(w, http.StatusBadRequest, "Valid amount is required")
		case errors.Is(err, payment.ErrMissingSupporterToken):
			a.error(w, http.StatusBadRequest, "Supporter authentication required")
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "Widget not found")
		default:
			a.Logger.Error().Err(err).Str("widget_id", chi.URLParam(r, "widgetId")).Msg("payment processing failed")
			a.error(w, http.StatusInternalServerError, "Payment failed")
		}
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"message":     "Payment sent successfully",
		"transaction": transactionToDTO(tx),
	})
}

func (a *App) PaymentsListByWidget(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	txs, err := a.Payments.ListByWidget(r.Context(), owner.ID, chi.URLParam(r, "widgetId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "Widget not found")
			return
		}
		a.Logger.Error().Err(err).Msg("list transactions failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	items := make([]transactionDTO, 0, len(txs))
	for i := range txs {
		items = append(items, transactionToDTO(&txs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"transactions": items})
}

type beginFlowRequest struct {
	WidgetID      string  `json:"widgetId"`
	Amount        float64 `json:"amount"`
	SupporterName string  `json:"supporterName"`
	Message       string  `json:"message"`
	ReturnURL     string  `json:"returnUrl"`
}

// PaymentsBeginFlow stores the in-flight payment parameters server-side
// so the supporter can resume after the wallet-authorization redirect.
func (a *App) PaymentsBeginFlow(w http.ResponseWriter, r *http.Request) {
	var req beginFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Valid amount is required")
		return
	}

	flow, err := a.Payments.BeginFlow(r.Context(), payment.BeginFlowParams{
		WidgetID:      req.WidgetID,
		Amount:        req.Amount,
		SupporterName: req.SupporterName,
		Message:       req.Message,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			a.error(w, http.StatusBadRequest, "Valid amount is required")
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "Widget not found")
		default:
			a.Logger.Error().Err(err).Msg("begin payment flow failed")
			a.error(w, http.StatusInternalServerError, "Failed to start payment flow")
		}
		return
	}

	a.json(w, http.StatusCreated, map[string]any{"flow": paymentFlowToDTO(flow)})
}

func (a *App) PaymentsGetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := a.Payments.GetFlow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFlowExpired), errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "Payment flow not found")
		default:
			a.Logger.Error().Err(err).Msg("fetch payment flow failed")
			a.error(w, http.StatusInternalServerError, "Failed to fetch payment flow")
		}
		return
	}
	a.json(w, http.StatusOK, map[string]any{"flow": paymentFlowToDTO(flow)})
}
