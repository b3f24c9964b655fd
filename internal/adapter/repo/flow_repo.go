package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paycoffee/server/internal/domain"
)

// PaymentFlowRepositoryPG stores short-lived payment flow sessions in
// PostgreSQL.
type PaymentFlowRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPaymentFlowRepository creates a new payment flow repo.
func NewPaymentFlowRepository(pool *pgxpool.Pool) *PaymentFlowRepositoryPG {
	return &PaymentFlowRepositoryPG{pool: pool}
}

// Create inserts a new flow session.
func (r *PaymentFlowRepositoryPG) Create(ctx context.Context, flow *domain.PaymentFlow) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO payment_flows (id, widget_id, amount, supporter_name, message, return_url, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, flow.ID, flow.WidgetID, flow.Amount, flow.SupporterName, flow.Message, flow.ReturnURL, flow.CreatedAt, flow.ExpiresAt)
	return err
}

// Get fetches a flow session by id, expired or not. Expiry policy is
// the caller's concern.
func (r *PaymentFlowRepositoryPG) Get(ctx context.Context, id string) (*domain.PaymentFlow, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, widget_id, amount, supporter_name, message, return_url, created_at, expires_at
FROM payment_flows
WHERE id = $1;
`, id)

	var f domain.PaymentFlow
	if err := row.Scan(&f.ID, &f.WidgetID, &f.Amount, &f.SupporterName, &f.Message, &f.ReturnURL, &f.CreatedAt, &f.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Delete removes a flow session.
func (r *PaymentFlowRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_flows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteExpired removes every flow past its expiry.
func (r *PaymentFlowRepositoryPG) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_flows WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
