package transactions

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/respond"
	"github.com/chris/topup-webhook-bridge/pkg/mapping"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Store storage.TransactionReader
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(store storage.TransactionReader) *TransactionsHandler {
	return &TransactionsHandler{Store: store}
}

// GetTransactionById handles the logic for retrieving a transaction by its order ID.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request, orderId string) {
	domainTx, err := h.Store.GetTransaction(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, fmt.Sprintf("transaction %s not found", orderId))
			return
		}
		respond.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transaction: %v", err))
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(domainTx))
}

// ListTransactionsByUserId handles the logic for retrieving all transactions for a user.
func (h *TransactionsHandler) ListTransactionsByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	domainTxs, err := h.Store.ListTransactionsByUserID(r.Context(), userId)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}

	apiTxs := make([]*api.Transaction, len(domainTxs))
	for i, tx := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&tx)
	}

	respond.JSON(w, http.StatusOK, apiTxs)
}
