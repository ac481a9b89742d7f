package mapping

import (
	"testing"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiTransaction(t *testing.T) {
	now := time.Now().UTC()
	apiTx := ToApiTransaction(&models.Transaction{
		OrderId: "A1", UserId: "U1", UserName: "Budi", Amount: models.MoneyFromInt(50000),
		Type: models.TopUp, Status: models.SUCCESS, CreatedAt: now, UpdatedAt: now,
	})

	assert.Equal(t, "A1", apiTx.OrderId)
	assert.Equal(t, api.SUCCESS, apiTx.Status)
	assert.Equal(t, "TOP UP", apiTx.Type)
	require.NotNil(t, apiTx.UserName)
	assert.Equal(t, "Budi", *apiTx.UserName)
	assert.True(t, apiTx.Amount.Equal(decimal.NewFromInt(50000)))
}

func TestToApiBalance(t *testing.T) {
	zero := ToApiBalance(&models.Balance{UserId: "U9", Balance: models.MoneyFromInt(0)})
	assert.Nil(t, zero.UpdatedAt)
	assert.True(t, zero.Balance.IsZero())

	stored := ToApiBalance(&models.Balance{UserId: "U1", Balance: models.MoneyFromInt(10), UpdatedAt: time.Now()})
	assert.NotNil(t, stored.UpdatedAt)
}

func TestToChargeRequest(t *testing.T) {
	name, email := "Budi", "budi@example.com"
	req := ToChargeRequest(&api.ChargeRequest{
		OrderId: "A1", Amount: decimal.NewFromInt(50000), UserId: "U1", UserName: &name, UserEmail: &email,
	})

	assert.Equal(t, "A1", req.OrderID)
	assert.Equal(t, "Budi", req.UserName)
	assert.Equal(t, "budi@example.com", req.UserEmail)
	assert.True(t, req.Amount.Equal(models.MoneyFromInt(50000)))

	bare := ToChargeRequest(&api.ChargeRequest{OrderId: "A2", UserId: "U1"})
	assert.Empty(t, bare.UserName)
	assert.Empty(t, bare.UserEmail)
}
