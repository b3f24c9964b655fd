// Package payment orchestrates supporter payments against the external
// payment network and records their outcomes.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"paycoffee/server/internal/domain"
	"paycoffee/server/internal/infra"
	"paycoffee/server/internal/payman"
)

// Validation failures reported before any external call is attempted.
var (
	ErrInvalidAmount         = errors.New("valid amount is required")
	ErrMissingSupporterToken = errors.New("supporter authentication required")
)

// NetworkClient is the subset of the Payman client the orchestrator needs.
type NetworkClient interface {
	CreatePayee(ctx context.Context, accessToken string, payee payman.CreatePayeeRequest) (*payman.Payee, error)
	SendPayment(ctx context.Context, accessToken string, payment payman.SendPaymentRequest) (*payman.Payment, error)
}

// Service drives a payment attempt through payee creation, fund
// transfer, and transaction recording. Each external call is a single
// best-effort request; there is no rollback if payee creation succeeds
// but the transfer fails.
type Service struct {
	widgets      domain.WidgetRepository
	transactions domain.TransactionRepository
	flows        domain.PaymentFlowRepository
	client       NetworkClient
	logger       infra.Logger
	flowTTL      time.Duration
}

// NewService wires the orchestrator with its collaborators.
func NewService(widgets domain.WidgetRepository, transactions domain.TransactionRepository, flows domain.PaymentFlowRepository, client NetworkClient, logger infra.Logger, flowTTL time.Duration) *Service {
	if flowTTL <= 0 {
		flowTTL = 15 * time.Minute
	}
	return &Service{
		widgets:      widgets,
		transactions: transactions,
		flows:        flows,
		client:       client,
		logger:       logger,
		flowTTL:      flowTTL,
	}
}

// ProcessParams are the inputs of a payment attempt.
type ProcessParams struct {
	WidgetID         string
	Amount           float64
	SupporterToken   string
	SupporterName    string
	Message          string
	SupporterCountry string
}

var nameCaser = cases.Title(language.Und)

// Process validates the attempt, performs the external payee-creation
// and fund-transfer calls, and records the outcome. The returned
// transaction reflects the sent payment even when the local write
// failed; that failure is logged, not surfaced, so the ledger can lag
// the actual fund movement.
func (s *Service) Process(ctx context.Context, p ProcessParams) (*domain.Transaction, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(p.SupporterToken) == "" {
		return nil, ErrMissingSupporterToken
	}

	widget, err := s.widgets.GetPublic(ctx, p.WidgetID)
	if err != nil {
		return nil, err
	}

	payee, err := s.client.CreatePayee(ctx, p.SupporterToken, payman.CreatePayeeRequest{
		Paytag: widget.Owner.PaymanPaytag,
		Name:   widget.Owner.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("payment: create payee: %w", err)
	}

	sent, err := s.client.SendPayment(ctx, p.SupporterToken, payman.SendPaymentRequest{
		PayeeID: payee.ID,
		Amount:  p.Amount,
		Memo:    p.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("payment: send payment: %w", err)
	}

	externalID := sent.ID
	if externalID == "" {
		externalID = domain.UnknownExternalID
	}

	tx := &domain.Transaction{
		ID:                  uuid.NewString(),
		WidgetID:            widget.ID,
		Amount:              p.Amount,
		SupporterName:       supporterName(p.SupporterName),
		Message:             p.Message,
		SupporterCountry:    p.SupporterCountry,
		OwnerPaytag:         widget.Owner.PaymanPaytag,
		PaymanTransactionID: externalID,
		Status:              domain.TransactionCompleted,
		CreatedAt:           time.Now(),
	}

	recorded, err := s.transactions.Create(ctx, tx)
	if err != nil {
		// The transfer already happened; keep the response consistent
		// with the money movement and leave the gap in the ledger.
		s.logger.Error().Err(err).
			Str("widget_id", widget.ID).
			Str("payman_transaction_id", externalID).
			Msg("transaction recording failed after sent payment")
		return tx, nil
	}
	return recorded, nil
}

// ListByWidget returns the transactions of a widget owned by ownerID,
// newest first. A widget owned by another account reports ErrNotFound.
func (s *Service) ListByWidget(ctx context.Context, ownerID, widgetID string) ([]domain.Transaction, error) {
	if _, err := s.widgets.GetByOwner(ctx, ownerID, widgetID); err != nil {
		return nil, err
	}
	return s.transactions.ListByWidget(ctx, widgetID)
}

func supporterName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Anonymous"
	}
	return nameCaser.String(name)
}
