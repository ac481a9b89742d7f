package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"github.com/chris/topup-webhook-bridge/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePending(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		m := NewManager(mockStore)
		m.now = func() time.Time { return fixed }

		mockStore.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.OrderId == "A1" &&
				tx.Status == models.PENDING &&
				tx.Type == models.TopUp &&
				tx.GatewayToken == "snap-token" &&
				tx.CreatedAt.Equal(fixed)
		})).Return(nil).Once()

		tx, err := m.CreatePending(context.Background(), NewPending{
			OrderID: "A1", UserID: "U1", Amount: models.MoneyFromInt(50000), GatewayToken: "snap-token",
		})

		require.NoError(t, err)
		assert.Equal(t, models.PENDING, tx.Status)
		mockStore.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		m := NewManager(mockStore)

		mockStore.On("CreateTransaction", mock.Anything, mock.Anything).Return(storage.ErrDuplicateOrder)

		_, err := m.CreatePending(context.Background(), NewPending{OrderID: "A1"})

		assert.ErrorIs(t, err, storage.ErrDuplicateOrder)
		mockStore.AssertExpectations(t)
	})
}

func TestExists(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetTransaction", mock.Anything, "A1").Return(&models.Transaction{OrderId: "A1"}, nil)

		ok, err := NewManager(mockStore).Exists(context.Background(), "A1")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetTransaction", mock.Anything, "A1").Return(nil, storage.ErrNotFound)

		ok, err := NewManager(mockStore).Exists(context.Background(), "A1")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Store Error", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetTransaction", mock.Anything, "A1").Return(nil, errors.New("timeout"))

		_, err := NewManager(mockStore).Exists(context.Background(), "A1")

		assert.Error(t, err)
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("Conditional Write", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("UpdateTransactionStatus", mock.Anything, "A1", models.PENDING, models.CHALLENGE).Return(nil).Once()

		err := NewManager(mockStore).SetStatus(context.Background(), "A1", models.PENDING, models.CHALLENGE)

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Success Target Rejected", func(t *testing.T) {
		mockStore := new(mocks.Storage)

		err := NewManager(mockStore).SetStatus(context.Background(), "A1", models.PENDING, models.SUCCESS)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		mockStore.AssertNotCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Terminal Source Rejected", func(t *testing.T) {
		mockStore := new(mocks.Storage)

		err := NewManager(mockStore).SetStatus(context.Background(), "A1", models.FAILED, models.PENDING)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Conflict Passed Through", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("UpdateTransactionStatus", mock.Anything, "A1", models.PENDING, models.FAILED).Return(storage.ErrStatusConflict)

		err := NewManager(mockStore).SetStatus(context.Background(), "A1", models.PENDING, models.FAILED)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})
}
