package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/google/uuid"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)
}

// LedgerPartition is the constant partition key that lets all entries be listed by time.
const LedgerPartition = "LEDGER_ENTRIES"

var ledgerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:topup-webhook-bridge:ledger"))

// LedgerEntriesFor builds the debit and credit entries of a top-up. Entry ids
// depend only on the order ID and side, so a retried credit produces the same ids.
func LedgerEntriesFor(tx *models.Transaction, at time.Time) (debit, credit models.LedgerEntry) {
	description := fmt.Sprintf("Top up for order %s", tx.OrderId)
	debit = models.LedgerEntry{
		EntryID:       uuid.NewSHA1(ledgerNamespace, []byte("debit:"+tx.OrderId)).String(),
		TransactionID: tx.OrderId,
		AccountID:     models.GatewayAccount,
		Debit:         tx.Amount,
		Description:   description,
		Timestamp:     at,
		GSI1PK:        LedgerPartition,
	}
	credit = models.LedgerEntry{
		EntryID:       uuid.NewSHA1(ledgerNamespace, []byte("credit:"+tx.OrderId)).String(),
		TransactionID: tx.OrderId,
		AccountID:     tx.UserId,
		Credit:        tx.Amount,
		Description:   description,
		Timestamp:     at,
		GSI1PK:        LedgerPartition,
	}
	return debit, credit
}
