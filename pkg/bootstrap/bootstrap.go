// Package bootstrap builds the dependency graph shared by the HTTP server and
// the lambdas.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/topup-webhook-bridge/pkg/alerts"
	"github.com/chris/topup-webhook-bridge/pkg/charge"
	"github.com/chris/topup-webhook-bridge/pkg/config"
	"github.com/chris/topup-webhook-bridge/pkg/gateway/midtrans"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/reconcile"
	"github.com/chris/topup-webhook-bridge/pkg/records"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	dydbstore "github.com/chris/topup-webhook-bridge/pkg/storage/dynamodb"
	"github.com/chris/topup-webhook-bridge/pkg/storage/memory"
	mongostore "github.com/chris/topup-webhook-bridge/pkg/storage/mongo"
)

// App holds the wired components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   storage.Storage
	Gateway *midtrans.Client
	Records *records.Manager
	Engine  *reconcile.Engine
	Charges *charge.Flow
	Alerter alerts.Alerter

	awsCfg  *aws.Config
	closers []func(context.Context) error
}

// NewLogger returns a JSON logger writing to stdout at the given LOG_LEVEL.
func NewLogger(level string) *slog.Logger {
	return newLogger(os.Stdout, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// New wires every component from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	store, err := app.newStore(ctx)
	if err != nil {
		return nil, errors.Join(err, app.Close(ctx))
	}
	app.Store = store

	alerter, err := app.newAlerter(ctx)
	if err != nil {
		return nil, errors.Join(err, app.Close(ctx))
	}
	app.Alerter = alerter

	app.Gateway = midtrans.New(midtrans.Config{
		ServerKey:       cfg.MidtransServerKey,
		IsProduction:    cfg.MidtransIsProduction,
		Timeout:         cfg.MidtransTimeout,
		SnapURL:         cfg.MidtransSnapURL,
		APIURL:          cfg.MidtransAPIURL,
		SkipStatusCheck: cfg.MidtransSkipStatusCheck,
	})
	app.Records = records.NewManager(store)
	app.Engine = reconcile.NewEngine(app.Records, store, logger)

	app.Charges, err = charge.New(app.Gateway, app.Records, alerter, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to build charge flow: %w", err), app.Close(ctx))
	}
	if cfg.MaxChargeAmount > 0 {
		app.Charges.MaxAmount = models.MoneyFromInt(cfg.MaxChargeAmount)
	}
	return app, nil
}

// Close releases connections opened by New.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) awsConfig(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	a.awsCfg = &cfg
	return cfg, nil
}

func (a *App) newStore(ctx context.Context) (storage.Storage, error) {
	cfg := a.Config
	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.TransactionsTable, cfg.BalancesTable, cfg.LedgerTable)
		store.RequireExistingBalance = cfg.RequireExistingBalance
		return store, nil

	case config.BackendMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		store := mongostore.New(client.Database(cfg.MongoDatabase))
		store.RequireExistingBalance = cfg.RequireExistingBalance
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		a.Logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		store.RequireExistingBalance = cfg.RequireExistingBalance
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) newAlerter(ctx context.Context) (alerts.Alerter, error) {
	if a.Config.AlertQueueURL == "" {
		return &alerts.LogAlerter{Logger: a.Logger}, nil
	}
	awsCfg, err := a.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	return alerts.NewSQSAlerter(sqs.NewFromConfig(awsCfg), a.Config.AlertQueueURL, a.Logger), nil
}
