package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/payments"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// StatusFetcher asks the gateway for an order's authoritative status.
type StatusFetcher interface {
	GetStatus(ctx context.Context, orderID string) (*gateway.Status, error)
}

// Sweeper re-reconciles transactions whose notification never arrived.
type Sweeper struct {
	Store      storage.TransactionReader
	Gateway    StatusFetcher
	Reconciler payments.Reconciler
	StaleAfter time.Duration
	Logger     *slog.Logger
}

// Summary counts what one sweep did.
type Summary struct {
	Checked  int
	Changed  int
	Skipped  int
	Failures int
}

var sweptStatuses = []models.TransactionStatus{models.PENDING, models.CHALLENGE}

// Sweep fetches the gateway status of every stale open transaction and feeds
// it through the reconciler. One failing order does not stop the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (Summary, error) {
	var sum Summary
	for _, status := range sweptStatuses {
		stale, err := s.Store.GetStaleTransactions(ctx, status, s.StaleAfter)
		if err != nil {
			return sum, fmt.Errorf("failed to get stale %s transactions: %w", status, err)
		}

		for _, tx := range stale {
			sum.Checked++
			logger := s.Logger.With(slog.String("order_id", tx.OrderId), slog.String("status", string(tx.Status)))

			remote, err := s.Gateway.GetStatus(ctx, tx.OrderId)
			if err != nil {
				if errors.Is(err, gateway.ErrTransactionNotFound) {
					logger.Info("Gateway has no payment for order yet")
					sum.Skipped++
					continue
				}
				logger.Error("failed to fetch gateway status", slog.Any("error", err))
				sum.Failures++
				continue
			}

			result, err := s.Reconciler.HandleNotification(ctx, &gateway.Notification{Status: *remote, Confirmed: true})
			if err != nil {
				logger.Error("failed to reconcile stale transaction", slog.Any("error", err))
				sum.Failures++
				continue
			}
			if result.From != result.To {
				sum.Changed++
			}
		}
	}
	return sum, nil
}
