package mapping

import (
	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/charge"
	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	apiTx := &api.Transaction{
		OrderId:   tx.OrderId,
		UserId:    tx.UserId,
		Amount:    tx.Amount.Decimal,
		Type:      string(tx.Type),
		Status:    api.TransactionStatus(tx.Status),
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
	if tx.UserName != "" {
		name := tx.UserName
		apiTx.UserName = &name
	}
	return apiTx
}

// ToApiBalance converts a domain Balance to the API model. A balance that was
// never stored has no update time.
func ToApiBalance(b *models.Balance) *api.Balance {
	apiBalance := &api.Balance{
		UserId:  b.UserId,
		Balance: b.Balance.Decimal,
	}
	if !b.UpdatedAt.IsZero() {
		updated := b.UpdatedAt
		apiBalance.UpdatedAt = &updated
	}
	return apiBalance
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	debit := entry.Debit.Decimal
	credit := entry.Credit.Decimal
	return &api.LedgerEntry{
		TransactionId: entry.TransactionID,
		EntryId:       entry.EntryID,
		AccountId:     entry.AccountID,
		Debit:         &debit,
		Credit:        &credit,
		Description:   entry.Description,
		Timestamp:     entry.Timestamp,
	}
}

// ToChargeRequest converts an API ChargeRequest to the charge flow's request.
func ToChargeRequest(req *api.ChargeRequest) charge.Request {
	out := charge.Request{
		OrderID: req.OrderId,
		Amount:  models.NewMoney(req.Amount),
		UserID:  req.UserId,
	}
	if req.UserName != nil {
		out.UserName = *req.UserName
	}
	if req.UserEmail != nil {
		out.UserEmail = *req.UserEmail
	}
	return out
}

// ToApiChargeResponse converts a gateway result to the API response.
func ToApiChargeResponse(result *gateway.ChargeResult) *api.ChargeResponse {
	return &api.ChargeResponse{
		Token:       result.Token,
		RedirectUrl: result.RedirectURL,
	}
}
