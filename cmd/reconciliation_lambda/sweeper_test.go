package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	gatewaymocks "github.com/chris/topup-webhook-bridge/pkg/gateway/mocks"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/reconcile"
	"github.com/chris/topup-webhook-bridge/pkg/records"
	"github.com/chris/topup-webhook-bridge/pkg/storage/memory"
	"github.com/chris/topup-webhook-bridge/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seed(t *testing.T, store *memory.Store, orderID string, status models.TransactionStatus, age time.Duration) {
	t.Helper()
	created := time.Now().UTC().Add(-age)
	require.NoError(t, store.CreateTransaction(context.Background(), &models.Transaction{
		OrderId:   orderID,
		UserId:    "U1",
		Amount:    models.MoneyFromInt(50000),
		Type:      models.TopUp,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}))
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "paid", models.PENDING, time.Hour)
	seed(t, store, "expired", models.CHALLENGE, time.Hour)
	seed(t, store, "abandoned", models.PENDING, time.Hour)
	seed(t, store, "fresh", models.PENDING, time.Minute)

	gw := new(gatewaymocks.Client)
	gw.On("GetStatus", mock.Anything, "paid").Return(&gateway.Status{
		OrderID: "paid", TransactionStatus: "settlement", GrossAmount: models.MoneyFromInt(50000),
	}, nil).Once()
	gw.On("GetStatus", mock.Anything, "expired").Return(&gateway.Status{
		OrderID: "expired", TransactionStatus: "expire", GrossAmount: models.MoneyFromInt(50000),
	}, nil).Once()
	gw.On("GetStatus", mock.Anything, "abandoned").Return(nil, gateway.ErrTransactionNotFound).Once()

	sweeper := &Sweeper{
		Store:      store,
		Gateway:    gw,
		Reconciler: reconcile.NewEngine(records.NewManager(store), store, discard),
		StaleAfter: 20 * time.Minute,
		Logger:     discard,
	}

	sum, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Checked: 3, Changed: 2, Skipped: 1}, sum)

	paid, _ := store.GetTransaction(ctx, "paid")
	assert.Equal(t, models.SUCCESS, paid.Status)
	expired, _ := store.GetTransaction(ctx, "expired")
	assert.Equal(t, models.FAILED, expired.Status)
	balance, _ := store.GetBalance(ctx, "U1")
	assert.True(t, balance.Balance.Equal(models.MoneyFromInt(50000)))

	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "GetStatus", mock.Anything, "fresh")
}

func TestSweepContinuesPastFailures(t *testing.T) {
	store := memory.New()
	seed(t, store, "A1", models.PENDING, time.Hour)
	seed(t, store, "A2", models.PENDING, 2*time.Hour)

	gw := new(gatewaymocks.Client)
	gw.On("GetStatus", mock.Anything, "A1").Return(nil, &gateway.Error{Op: "status", StatusCode: 500}).Once()
	gw.On("GetStatus", mock.Anything, "A2").Return(&gateway.Status{
		OrderID: "A2", TransactionStatus: "pending",
	}, nil).Once()

	sweeper := &Sweeper{
		Store:      store,
		Gateway:    gw,
		Reconciler: reconcile.NewEngine(records.NewManager(store), store, discard),
		StaleAfter: 20 * time.Minute,
		Logger:     discard,
	}

	sum, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Checked: 2, Failures: 1}, sum)
}

func TestSweepStoreFailure(t *testing.T) {
	store := new(mocks.Storage)
	store.On("GetStaleTransactions", mock.Anything, models.PENDING, 20*time.Minute).Return(nil, assert.AnError).Once()

	sweeper := &Sweeper{Store: store, Gateway: new(gatewaymocks.Client), StaleAfter: 20 * time.Minute, Logger: discard}

	_, err := sweeper.Sweep(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	store.AssertExpectations(t)
}
