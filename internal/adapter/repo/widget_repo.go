package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paycoffee/server/internal/domain"
)

// WidgetRepositoryPG implements domain.WidgetRepository backed by PostgreSQL.
// Owner-scoped queries filter by owner_id so a foreign id is
// indistinguishable from a missing one.
type WidgetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewWidgetRepository creates a new WidgetRepositoryPG.
func NewWidgetRepository(pool *pgxpool.Pool) *WidgetRepositoryPG {
	return &WidgetRepositoryPG{pool: pool}
}

const widgetColumns = `id, owner_id, title, description, default_amounts, allow_custom_amount, button_text, primary_color, created_at`

// Create inserts a new widget.
func (r *WidgetRepositoryPG) Create(ctx context.Context, widget *domain.Widget) (*domain.Widget, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO widgets (id, owner_id, title, description, default_amounts, allow_custom_amount, button_text, primary_color)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+widgetColumns+`;
`, widget.ID, widget.OwnerID, widget.Title, widget.Description, widget.DefaultAmounts, widget.AllowCustomAmount, widget.ButtonText, widget.PrimaryColor)
	return scanWidget(row)
}

// ListByOwner returns the owner's widgets, newest first.
func (r *WidgetRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Widget, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+widgetColumns+`
FROM widgets
WHERE owner_id = $1
ORDER BY created_at DESC;
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Widget
	for rows.Next() {
		var w domain.Widget
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.DefaultAmounts, &w.AllowCustomAmount, &w.ButtonText, &w.PrimaryColor, &w.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByOwner fetches a widget scoped to its owner.
func (r *WidgetRepositoryPG) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Widget, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+widgetColumns+` FROM widgets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanWidget(row)
}

// Update replaces all configurable fields, scoped to the owner.
func (r *WidgetRepositoryPG) Update(ctx context.Context, widget *domain.Widget) (*domain.Widget, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE widgets
SET title = $3,
    description = $4,
    default_amounts = $5,
    allow_custom_amount = $6,
    button_text = $7,
    primary_color = $8
WHERE id = $1 AND owner_id = $2
RETURNING `+widgetColumns+`;
`, widget.ID, widget.OwnerID, widget.Title, widget.Description, widget.DefaultAmounts, widget.AllowCustomAmount, widget.ButtonText, widget.PrimaryColor)
	return scanWidget(row)
}

// Delete removes a widget scoped to the owner. A missing or foreign id
// reports ErrNotFound.
func (r *WidgetRepositoryPG) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM widgets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetPublic fetches a widget with its owner's display info, without
// owner scoping. Only display name and paytag leave the owners table.
func (r *WidgetRepositoryPG) GetPublic(ctx context.Context, id string) (*domain.PublicWidget, error) {
	row := r.pool.QueryRow(ctx, `
SELECT w.id, w.owner_id, w.title, w.description, w.default_amounts, w.allow_custom_amount, w.button_text, w.primary_color, w.created_at,
       o.display_name, o.payman_paytag
FROM widgets w
JOIN owners o ON o.id = w.owner_id
WHERE w.id = $1;
`, id)

	var pw domain.PublicWidget
	err := row.Scan(&pw.ID, &pw.OwnerID, &pw.Title, &pw.Description, &pw.DefaultAmounts, &pw.AllowCustomAmount, &pw.ButtonText, &pw.PrimaryColor, &pw.CreatedAt,
		&pw.Owner.DisplayName, &pw.Owner.PaymanPaytag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pw, nil
}

func scanWidget(row pgx.Row) (*domain.Widget, error) {
	var w domain.Widget
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.DefaultAmounts, &w.AllowCustomAmount, &w.ButtonText, &w.PrimaryColor, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}
