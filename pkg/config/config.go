// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MidtransServerKey       string        `env:"MIDTRANS_SERVER_KEY"`
	MidtransIsProduction    bool          `env:"MIDTRANS_IS_PRODUCTION" envDefault:"false"`
	MidtransTimeout         time.Duration `env:"MIDTRANS_TIMEOUT" envDefault:"10s"`
	MidtransSnapURL         string        `env:"MIDTRANS_SNAP_URL"`
	MidtransAPIURL          string        `env:"MIDTRANS_API_URL"`
	MidtransSkipStatusCheck bool          `env:"MIDTRANS_SKIP_STATUS_CHECK" envDefault:"false"`

	MaxChargeAmount int64 `env:"MAX_CHARGE_AMOUNT" envDefault:"100000000"`

	StorageBackend         string `env:"STORAGE_BACKEND" envDefault:"dynamodb"`
	RequireExistingBalance bool   `env:"REQUIRE_EXISTING_BALANCE" envDefault:"false"`

	TransactionsTable string `env:"DYNAMODB_TRANSACTIONS_TABLE_NAME"`
	BalancesTable     string `env:"DYNAMODB_BALANCES_TABLE_NAME"`
	LedgerTable       string `env:"DYNAMODB_LEDGER_TABLE_NAME"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"topup"`

	AlertQueueURL       string        `env:"ALERT_QUEUE_URL"`
	ReconcileStaleAfter time.Duration `env:"RECONCILE_STALE_AFTER" envDefault:"20m"`
}

// Load reads an optional .env file, parses the environment and validates the result.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the selected backend needs.
func (c *Config) Validate() error {
	var errs []error
	if c.MidtransServerKey == "" {
		errs = append(errs, errors.New("MIDTRANS_SERVER_KEY is not set"))
	}

	switch c.StorageBackend {
	case BackendDynamoDB:
		if c.TransactionsTable == "" || c.BalancesTable == "" || c.LedgerTable == "" {
			errs = append(errs, errors.New("one or more DynamoDB table name environment variables are not set"))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is not set"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	if c.MaxChargeAmount <= 0 {
		errs = append(errs, errors.New("MAX_CHARGE_AMOUNT must be positive"))
	}
	if c.ReconcileStaleAfter <= 0 {
		errs = append(errs, errors.New("RECONCILE_STALE_AFTER must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps LOG_LEVEL to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
