package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"paycoffee/server/internal/domain"
)

// BeginFlowParams captures the in-flight payment parameters stored
// while the supporter completes the wallet-authorization redirect.
type BeginFlowParams struct {
	WidgetID      string
	Amount        float64
	SupporterName string
	Message       string
	ReturnURL     string
}

// BeginFlow creates a short-lived flow session for a widget. The widget
// must exist; the amount must be positive.
func (s *Service) BeginFlow(ctx context.Context, p BeginFlowParams) (*domain.PaymentFlow, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.widgets.GetPublic(ctx, p.WidgetID); err != nil {
		return nil, err
	}

	now := time.Now()
	flow := &domain.PaymentFlow{
		ID:            uuid.NewString(),
		WidgetID:      p.WidgetID,
		Amount:        p.Amount,
		SupporterName: strings.TrimSpace(p.SupporterName),
		Message:       p.Message,
		ReturnURL:     p.ReturnURL,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.flowTTL),
	}
	if err := s.flows.Create(ctx, flow); err != nil {
		return nil, err
	}
	return flow, nil
}

// GetFlow resumes a flow session by id. An expired session is removed
// and reported as ErrFlowExpired.
func (s *Service) GetFlow(ctx context.Context, id string) (*domain.PaymentFlow, error) {
	flow, err := s.flows.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if flow.Expired(time.Now()) {
		if err := s.flows.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("flow_id", id).Msg("failed to delete expired flow")
		}
		return nil, domain.ErrFlowExpired
	}
	return flow, nil
}

// PurgeExpiredFlows removes all expired flow sessions. Intended to run
// periodically from the entrypoint.
func (s *Service) PurgeExpiredFlows(ctx context.Context) {
	n, err := s.flows.DeleteExpired(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to purge expired payment flows")
		return
	}
	if n > 0 {
		s.logger.Debug().Int64("purged", n).Msg("purged expired payment flows")
	}
}
