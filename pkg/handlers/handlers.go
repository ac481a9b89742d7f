package handlers

import (
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/balances"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/ledger"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/payments"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/transactions"
)

// HealthMessage is the body of the health endpoint.
const HealthMessage = "Midtrans Backend for Top Up Saldo App is Running!"

// ApiHandler implements the generated server interface by composing the
// resource handlers.
type ApiHandler struct {
	*payments.PaymentsHandler
	*transactions.TransactionsHandler
	*balances.BalancesHandler
	*ledger.LedgerHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(
	ph *payments.PaymentsHandler,
	th *transactions.TransactionsHandler,
	bh *balances.BalancesHandler,
	lh *ledger.LedgerHandler,
) *ApiHandler {
	return &ApiHandler{
		PaymentsHandler:     ph,
		TransactionsHandler: th,
		BalancesHandler:     bh,
		LedgerHandler:       lh,
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetHealth reports that the service is up.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(HealthMessage))
}
