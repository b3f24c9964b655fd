package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paycoffee/server/internal/domain"
)

// TransactionRepositoryPG implements domain.TransactionRepository using
// PostgreSQL. Rows are insert-only.
type TransactionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repo.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepositoryPG {
	return &TransactionRepositoryPG{pool: pool}
}

const transactionColumns = `id, widget_id, amount, supporter_name, message, supporter_country, owner_paytag, payman_transaction_id, status, created_at`

// Create inserts a new transaction record.
func (r *TransactionRepositoryPG) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO transactions (id, widget_id, amount, supporter_name, message, supporter_country, owner_paytag, payman_transaction_id, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+transactionColumns+`;
`, tx.ID, tx.WidgetID, tx.Amount, tx.SupporterName, tx.Message, tx.SupporterCountry, tx.OwnerPaytag, tx.PaymanTransactionID, tx.Status)
	return scanTransaction(row)
}

// ListByWidget returns a widget's transactions, newest first.
func (r *TransactionRepositoryPG) ListByWidget(ctx context.Context, widgetID string) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE widget_id = $1
ORDER BY created_at DESC;
`, widgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.WidgetID, &tx.Amount, &tx.SupporterName, &tx.Message, &tx.SupporterCountry, &tx.OwnerPaytag, &tx.PaymanTransactionID, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := row.Scan(&tx.ID, &tx.WidgetID, &tx.Amount, &tx.SupporterName, &tx.Message, &tx.SupporterCountry, &tx.OwnerPaytag, &tx.PaymanTransactionID, &tx.Status, &tx.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}
