package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"paycoffee/server/internal/auth"
	"paycoffee/server/internal/domain"
	"paycoffee/server/internal/embed"
	"paycoffee/server/internal/infra"
	"paycoffee/server/internal/middleware"
	"paycoffee/server/internal/payman"
	"paycoffee/server/internal/payment"
)

// CodeExchanger trades an authorization code for a supporter access token.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*payman.Token, error)
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Logger   infra.Logger
	Auth     *auth.Service
	Widgets  domain.WidgetRepository
	Payments *payment.Service
	Embed    *embed.Generator
	Exchange CodeExchanger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) currentOwner(r *http.Request) *domain.Owner {
	return middleware.OwnerFromContext(r.Context())
}
