package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/topup-webhook-bridge/pkg/bootstrap"
	"github.com/chris/topup-webhook-bridge/pkg/config"
)

func main() {
	logger := bootstrap.NewLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	sweeper := &Sweeper{
		Store:      app.Store,
		Gateway:    app.Gateway,
		Reconciler: app.Engine,
		StaleAfter: cfg.ReconcileStaleAfter,
		Logger:     logger,
	}

	// Triggered by an EventBridge Schedule.
	lambda.Start(func(ctx context.Context) error {
		logger.Info("Starting reconciliation of stale transactions")
		sum, err := sweeper.Sweep(ctx)
		if err != nil {
			logger.Error("reconciliation failed", "error", err)
			return err
		}
		logger.Info("Reconciliation finished",
			"checked", sum.Checked, "changed", sum.Changed, "skipped", sum.Skipped, "failures", sum.Failures)
		return nil
	})
}
