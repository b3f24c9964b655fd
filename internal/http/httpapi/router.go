package httpapi

import (
	stdhttp "net/http"
	"time"

	"paycoffee/server/internal/http/handlers"
	"paycoffee/server/internal/infra"
	"paycoffee/server/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the REST surface. Owner-facing routes sit behind
// bearer auth; the public widget, embed, and payment routes do not.
func NewRouter(app *handlers.App, cfg *infra.Config, countryLookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	authed := middleware.AuthJWT(app.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.Signup)
			r.Post("/login", app.Login)
			r.With(authed).Get("/me", app.Me)
			r.Post("/payman/exchange", app.PaymanExchange)
		})

		r.Route("/widgets", func(r chi.Router) {
			r.Get("/{id}/public", app.WidgetsGetPublic)

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/", app.WidgetsList)
				r.Post("/", app.WidgetsCreate)
				r.Get("/{id}", app.WidgetsGet)
				r.Put("/{id}", app.WidgetsUpdate)
				r.Delete("/{id}", app.WidgetsDelete)
				r.Get("/{id}/embed", app.WidgetsEmbedCode)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/flows", app.PaymentsBeginFlow)
			r.Get("/flows/{id}", app.PaymentsGetFlow)
			r.With(authed).Get("/widget/{widgetId}", app.PaymentsListByWidget)
			r.With(middleware.Country(countryLookup)).Post("/{widgetId}", app.PaymentsProcess)
		})

		r.Get("/embed/widget.js", app.WidgetScript)
	})

	return r
}
