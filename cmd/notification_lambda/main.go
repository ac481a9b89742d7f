package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
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

	processor := &Processor{Parser: app.Gateway, Reconciler: app.Engine, Logger: logger}
	lambda.Start(func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		return processor.HandleRequest(ctx, event), nil
	})
}
