package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/alerts"
	"github.com/chris/topup-webhook-bridge/pkg/config"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		LogLevel:               "info",
		MidtransServerKey:      "SB-Mid-server-x",
		MidtransTimeout:        time.Second,
		StorageBackend:         config.BackendMemory,
		RequireExistingBalance: true,
		ReconcileStaleAfter:    time.Minute,
		MaxChargeAmount:        500000,
	}
}

func TestNew(t *testing.T) {
	t.Run("Memory Backend", func(t *testing.T) {
		var buf bytes.Buffer
		app, err := New(context.Background(), memoryConfig(), newLogger(&buf, "info"))
		require.NoError(t, err)
		defer app.Close(context.Background())

		store, ok := app.Store.(*memory.Store)
		require.True(t, ok)
		assert.True(t, store.RequireExistingBalance)
		assert.IsType(t, &alerts.LogAlerter{}, app.Alerter)
		assert.NotNil(t, app.Engine)
		require.NotNil(t, app.Charges)
		assert.True(t, app.Charges.MaxAmount.Equal(models.MoneyFromInt(500000)))
		assert.Contains(t, buf.String(), "in-memory storage")
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.StorageBackend = "postgres"

		_, err := New(context.Background(), cfg, newLogger(&bytes.Buffer{}, "info"))
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "order_id", "A1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "A1", entry["order_id"])
}
