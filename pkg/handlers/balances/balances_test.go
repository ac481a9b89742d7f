package balances_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/balances"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage/memory"
	"github.com/chris/topup-webhook-bridge/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetBalanceByUserId(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.Storage)
		updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mockStorage.On("GetBalance", mock.Anything, "U1").
			Return(&models.Balance{UserId: "U1", Balance: models.MoneyFromInt(50000), UpdatedAt: updated}, nil).Once()
		h := balances.NewBalancesHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/api/balances/U1", nil)
		rr := httptest.NewRecorder()

		// Act
		h.GetBalanceByUserId(rr, req, "U1")

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.Balance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "U1", got.UserId)
		assert.Equal(t, "50000", got.Balance.String())
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, updated.Equal(*got.UpdatedAt))
		mockStorage.AssertExpectations(t)
	})

	t.Run("Never Credited Reads Zero", func(t *testing.T) {
		h := balances.NewBalancesHandler(memory.New())

		req := httptest.NewRequest(http.MethodGet, "/api/balances/nobody", nil)
		rr := httptest.NewRecorder()

		h.GetBalanceByUserId(rr, req, "nobody")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"user_id":"nobody","balance":"0"}`, rr.Body.String())
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetBalance", mock.Anything, "U1").Return(nil, assert.AnError).Once()
		h := balances.NewBalancesHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/api/balances/U1", nil)
		rr := httptest.NewRecorder()

		h.GetBalanceByUserId(rr, req, "U1")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
