package ledger

import (
	"fmt"
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/respond"
	"github.com/chris/topup-webhook-bridge/pkg/mapping"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams) {
	limit := int32(defaultLimit)
	if params.Limit != nil {
		if *params.Limit < 1 || *params.Limit > maxLimit {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
			return
		}
		limit = int32(*params.Limit)
	}

	domainEntries, err := h.Store.ListLedgerEntries(r.Context(), limit)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve ledger entries: %v", err))
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(domainEntries))
	for i, entry := range domainEntries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entry)
	}

	respond.JSON(w, http.StatusOK, apiEntries)
}
