package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/bootstrap"
	"github.com/chris/topup-webhook-bridge/pkg/config"
	"github.com/chris/topup-webhook-bridge/pkg/handlers"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/balances"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/ledger"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/payments"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/transactions"
	wshandler "github.com/chris/topup-webhook-bridge/pkg/handlers/websockets"
	mw "github.com/chris/topup-webhook-bridge/pkg/middleware"
	"github.com/chris/topup-webhook-bridge/pkg/websockets"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := bootstrap.NewLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger = bootstrap.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close(context.Background())

	hub := websockets.NewHub(logger)

	handler := handlers.NewApiHandler(
		payments.NewPaymentsHandler(app.Charges, app.Gateway, app.Engine, app.Store, hub, logger),
		transactions.NewTransactionsHandler(app.Store),
		balances.NewBalancesHandler(app.Store),
		ledger.NewLedgerHandler(app.Store),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)

	router.Handle("/ws", wshandler.NewHandler(hub, logger))
	api.HandlerFromMux(handler, router)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
