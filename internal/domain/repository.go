package domain

import "context"

// OwnerRepository defines access methods for owner accounts.
type OwnerRepository interface {
	Create(ctx context.Context, owner *Owner) (*Owner, error)
	GetByID(ctx context.Context, id string) (*Owner, error)
	GetByEmail(ctx context.Context, email string) (*Owner, error)
}

// WidgetRepository defines persistence for widgets. All owner-scoped
// methods must report ErrNotFound for ids owned by another account.
type WidgetRepository interface {
	Create(ctx context.Context, widget *Widget) (*Widget, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Widget, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*Widget, error)
	Update(ctx context.Context, widget *Widget) (*Widget, error)
	Delete(ctx context.Context, ownerID, id string) error
	GetPublic(ctx context.Context, id string) (*PublicWidget, error)
}

// TransactionRepository handles payment record persistence.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) (*Transaction, error)
	ListByWidget(ctx context.Context, widgetID string) ([]Transaction, error)
}

// PaymentFlowRepository stores short-lived payment flow sessions.
type PaymentFlowRepository interface {
	Create(ctx context.Context, flow *PaymentFlow) error
	Get(ctx context.Context, id string) (*PaymentFlow, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
