package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-x")
		t.Setenv("STORAGE_BACKEND", "memory")

		cfg, err := Load(discard)
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 10*time.Second, cfg.MidtransTimeout)
		assert.Equal(t, 20*time.Minute, cfg.ReconcileStaleAfter)
		assert.Equal(t, "topup", cfg.MongoDatabase)
		assert.Equal(t, int64(100000000), cfg.MaxChargeAmount)
		assert.False(t, cfg.MidtransIsProduction)
		assert.False(t, cfg.RequireExistingBalance)
	})

	t.Run("DynamoDB", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", "Mid-server-x")
		t.Setenv("MIDTRANS_IS_PRODUCTION", "true")
		t.Setenv("STORAGE_BACKEND", "dynamodb")
		t.Setenv("DYNAMODB_TRANSACTIONS_TABLE_NAME", "transactions")
		t.Setenv("DYNAMODB_BALANCES_TABLE_NAME", "balances")
		t.Setenv("DYNAMODB_LEDGER_TABLE_NAME", "ledger")
		t.Setenv("REQUIRE_EXISTING_BALANCE", "true")
		t.Setenv("RECONCILE_STALE_AFTER", "45m")

		cfg, err := Load(discard)
		require.NoError(t, err)
		assert.True(t, cfg.MidtransIsProduction)
		assert.True(t, cfg.RequireExistingBalance)
		assert.Equal(t, "balances", cfg.BalancesTable)
		assert.Equal(t, 45*time.Minute, cfg.ReconcileStaleAfter)
	})

	t.Run("Bad Duration", func(t *testing.T) {
		t.Setenv("MIDTRANS_SERVER_KEY", "x")
		t.Setenv("STORAGE_BACKEND", "memory")
		t.Setenv("MIDTRANS_TIMEOUT", "soon")

		_, err := Load(discard)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			MidtransServerKey:   "x",
			StorageBackend:      BackendMemory,
			LogLevel:            "info",
			ReconcileStaleAfter: time.Minute,
			MaxChargeAmount:     1000,
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{name: "Missing Server Key", mutate: func(c *Config) { c.MidtransServerKey = "" }, wantErr: "MIDTRANS_SERVER_KEY"},
		{name: "Missing Tables", mutate: func(c *Config) { c.StorageBackend = BackendDynamoDB; c.TransactionsTable = "t" }, wantErr: "DynamoDB table"},
		{name: "Missing Mongo URI", mutate: func(c *Config) { c.StorageBackend = BackendMongo }, wantErr: "MONGODB_URI"},
		{name: "Unknown Backend", mutate: func(c *Config) { c.StorageBackend = "postgres" }, wantErr: "unknown STORAGE_BACKEND"},
		{name: "Bad Log Level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LOG_LEVEL"},
		{name: "Zero Charge Maximum", mutate: func(c *Config) { c.MaxChargeAmount = 0 }, wantErr: "MAX_CHARGE_AMOUNT"},
		{name: "Zero Stale Age", mutate: func(c *Config) { c.ReconcileStaleAfter = 0 }, wantErr: "RECONCILE_STALE_AFTER"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
