// Package charge opens top-up checkouts with the payment gateway and records
// them as PENDING transactions.
package charge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/alerts"
	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/records"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	OrderID   string       `json:"order_id" validate:"required,max=50,order_id"`
	Amount    models.Money `json:"amount"`
	UserID    string       `json:"user_id" validate:"required"`
	UserName  string       `json:"user_name" validate:"max=255"`
	UserEmail string       `json:"user_email" validate:"omitempty,email"`
}

// DefaultMaxAmount is the largest amount the gateway can carry.
var DefaultMaxAmount = models.MoneyFromInt(math.MaxInt64)

type Flow struct {
	// MaxAmount is the largest accepted charge.
	MaxAmount models.Money

	gateway  gateway.Client
	records  *records.Manager
	alerter  alerts.Alerter
	logger   *slog.Logger
	validate *validator.Validate
}

func New(gw gateway.Client, rec *records.Manager, alerter alerts.Alerter, logger *slog.Logger) (*Flow, error) {
	v, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &Flow{MaxAmount: DefaultMaxAmount, gateway: gw, records: rec, alerter: alerter, logger: logger, validate: v}, nil
}

// Charge validates the request, opens the checkout at the gateway and writes
// the PENDING record. If the record cannot be written after the gateway
// accepted the charge, an OrphanedCharge alert is raised before returning.
func (f *Flow) Charge(ctx context.Context, req Request) (*gateway.ChargeResult, error) {
	if err := f.validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	if !req.Amount.IsPositive() {
		return nil, &InvalidRequestError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !req.Amount.IsInteger() {
		return nil, &InvalidRequestError{Field: "amount", Reason: "must be a whole number"}
	}
	if req.Amount.GreaterThan(f.MaxAmount.Decimal) {
		return nil, &InvalidRequestError{Field: "amount", Reason: "must not exceed " + f.MaxAmount.String()}
	}

	exists, err := f.records.Exists(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order %s: %w", req.OrderID, err)
	}
	if exists {
		return nil, fmt.Errorf("order %s: %w", req.OrderID, storage.ErrDuplicateOrder)
	}

	result, err := f.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		UserID:    req.UserID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create charge for order %s: %w", req.OrderID, err)
	}

	_, err = f.records.CreatePending(ctx, records.NewPending{
		OrderID:      req.OrderID,
		UserID:       req.UserID,
		UserName:     req.UserName,
		Amount:       req.Amount,
		GatewayToken: result.Token,
	})
	if err != nil {
		alert := alerts.OrphanedCharge{
			OrderID:      req.OrderID,
			UserID:       req.UserID,
			Amount:       req.Amount,
			GatewayToken: result.Token,
			Reason:       err.Error(),
			RaisedAt:     time.Now().UTC(),
		}
		if alertErr := f.alerter.OrphanedCharge(ctx, alert); alertErr != nil {
			f.logger.Error("Failed to raise orphaned charge alert",
				slog.String("order_id", req.OrderID), slog.String("error", alertErr.Error()))
		}
		return nil, err
	}

	f.logger.Info("Created pending top-up", slog.String("order_id", req.OrderID), slog.String("user_id", req.UserID))
	return result, nil
}
