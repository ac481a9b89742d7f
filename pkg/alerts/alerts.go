// Package alerts raises operational alerts that need a human, such as a
// remote charge that has no local record.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// OrphanedCharge is raised when the gateway accepted a charge but the PENDING
// record could not be written. Notifications for the order will be rejected
// as unknown until an operator repairs it.
type OrphanedCharge struct {
	OrderID      string       `json:"order_id"`
	UserID       string       `json:"user_id"`
	Amount       models.Money `json:"amount"`
	GatewayToken string       `json:"gateway_token"`
	Reason       string       `json:"reason"`
	RaisedAt     time.Time    `json:"raised_at"`
}

// Alerter defines the interface for a component that delivers operational alerts.
type Alerter interface {
	OrphanedCharge(ctx context.Context, alert OrphanedCharge) error
}

// LogAlerter writes alerts to the log at ERROR level.
type LogAlerter struct {
	Logger *slog.Logger
}

var _ Alerter = (*LogAlerter)(nil)

func (a *LogAlerter) OrphanedCharge(_ context.Context, alert OrphanedCharge) error {
	a.Logger.Error("Charge created at gateway without a local record",
		slog.String("alert", "orphaned_charge"),
		slog.String("order_id", alert.OrderID),
		slog.String("user_id", alert.UserID),
		slog.String("amount", alert.Amount.String()),
		slog.String("reason", alert.Reason),
	)
	return nil
}
