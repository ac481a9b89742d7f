package balances

import (
	"fmt"
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/handlers/respond"
	"github.com/chris/topup-webhook-bridge/pkg/mapping"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// BalancesHandler serves user balances.
type BalancesHandler struct {
	Store storage.BalanceReader
}

// NewBalancesHandler creates a new BalancesHandler.
func NewBalancesHandler(store storage.BalanceReader) *BalancesHandler {
	return &BalancesHandler{Store: store}
}

// GetBalanceByUserId returns a user's balance. Users that were never credited have a zero balance.
func (h *BalancesHandler) GetBalanceByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	balance, err := h.Store.GetBalance(r.Context(), userId)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve balance: %v", err))
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiBalance(balance))
}
