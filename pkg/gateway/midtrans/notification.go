package midtrans

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/models"
)

type notificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// ParseNotification authenticates a pushed notification by its signature key
// and then, unless disabled, replaces its fields with the status API's answer.
func (c *Client) ParseNotification(ctx context.Context, body []byte) (*gateway.Notification, error) {
	var p notificationPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
	}
	if p.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", gateway.ErrMalformedPayload)
	}

	if !validSignature(p.OrderID, p.StatusCode, p.GrossAmount, c.serverKey, p.SignatureKey) {
		return nil, fmt.Errorf("order %s: signature mismatch: %w", p.OrderID, gateway.ErrVerification)
	}

	if c.skipStatusCheck {
		amount, err := parseGrossAmount(p.GrossAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
		}
		return &gateway.Notification{Status: gateway.Status{
			OrderID:           p.OrderID,
			TransactionID:     p.TransactionID,
			TransactionStatus: p.TransactionStatus,
			FraudStatus:       p.FraudStatus,
			StatusCode:        p.StatusCode,
			PaymentType:       p.PaymentType,
			GrossAmount:       amount,
		}}, nil
	}

	status, err := c.GetStatus(ctx, p.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm notification for order %s: %w", p.OrderID, err)
	}
	if status.OrderID != p.OrderID {
		return nil, fmt.Errorf("status API answered for order %q, notification was for %q: %w",
			status.OrderID, p.OrderID, gateway.ErrVerification)
	}
	return &gateway.Notification{Status: *status, Confirmed: true}, nil
}

func parseGrossAmount(s string) (models.Money, error) {
	amount, err := models.ParseMoney(s)
	if err != nil {
		return models.Money{}, fmt.Errorf("gross_amount: %w", err)
	}
	return amount, nil
}
