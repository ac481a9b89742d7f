// Package gateway defines what the service needs from a payment processor.
package gateway

import (
	"context"

	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// ChargeRequest describes a checkout to open with the processor.
type ChargeRequest struct {
	OrderID   string
	Amount    models.Money
	UserID    string
	UserName  string
	UserEmail string
}

// ChargeResult is what the payer needs to complete the checkout.
type ChargeResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Status is the processor's view of an order.
type Status struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	PaymentType       string
	GrossAmount       models.Money
}

// Notification is a verified inbound status notification.
type Notification struct {
	Status

	// Confirmed is set when the fields were refetched from the status API
	// instead of taken from the pushed payload.
	Confirmed bool
}

// Client is a payment processor.
type Client interface {
	// CreateCharge opens a remote checkout. Failures are returned as *Error.
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// ParseNotification decodes and authenticates a raw notification body.
	// It returns ErrMalformedPayload for undecodable bodies and ErrVerification
	// when the payload cannot be authenticated.
	ParseNotification(ctx context.Context, body []byte) (*Notification, error)

	// GetStatus fetches the authoritative status of an order.
	// It returns ErrTransactionNotFound when the processor does not know the order.
	GetStatus(ctx context.Context, orderID string) (*Status, error)
}
