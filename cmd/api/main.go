package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"paycoffee/server/internal/adapter/repo"
	"paycoffee/server/internal/auth"
	"paycoffee/server/internal/embed"
	"paycoffee/server/internal/http/handlers"
	httpapi "paycoffee/server/internal/http/httpapi"
	"paycoffee/server/internal/infra"
	"paycoffee/server/internal/infra/geoip"
	"paycoffee/server/internal/middleware"
	"paycoffee/server/internal/payman"
	"paycoffee/server/internal/payment"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	owners := repo.NewOwnerRepository(dbpool)
	widgets := repo.NewWidgetRepository(dbpool)
	transactions := repo.NewTransactionRepository(dbpool)
	flows := repo.NewPaymentFlowRepository(dbpool)

	authService := auth.NewService(owners, cfg.JWTSecret, cfg.TokenTTL)

	paymanClient := payman.NewClient(payman.Options{
		ClientID:     cfg.PaymanClientID,
		ClientSecret: cfg.PaymanClientSecret,
		BaseURL:      cfg.PaymanBaseURL,
		Logger:       &logger,
	})
	if !paymanClient.HasCredentials() {
		logger.Warn().Msg("payman client credentials missing; code exchange disabled")
	}

	paymentService := payment.NewService(widgets, transactions, flows, paymanClient, logger, cfg.FlowTTL)
	embedGenerator := embed.NewGenerator(cfg.AppBaseURL, cfg.APIBaseURL)

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable; transactions will omit supporter country")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
		defer func() { _ = resolver.Close() }()
	}

	app := &handlers.App{
		Logger:   logger,
		Auth:     authService,
		Widgets:  widgets,
		Payments: paymentService,
		Embed:    embedGenerator,
		Exchange: paymanClient,
	}

	router := httpapi.NewRouter(app, cfg, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	// Expired payment flow sessions are purged in the background.
	purgeCtx, cancelPurge := context.WithCancel(ctx)
	defer cancelPurge()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				paymentService.PurgeExpiredFlows(purgeCtx)
			}
		}
	}()

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
