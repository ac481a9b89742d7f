package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/payments"
	"github.com/chris/topup-webhook-bridge/pkg/reconcile"
)

// Processor reconciles gateway notifications buffered on SQS.
type Processor struct {
	Parser     payments.NotificationParser
	Reconciler payments.Reconciler
	Logger     *slog.Logger
}

// HandleRequest processes each message and reports the ones SQS should
// redeliver. Messages that can never succeed are logged and dropped.
func (p *Processor) HandleRequest(ctx context.Context, event events.SQSEvent) events.SQSEventResponse {
	var resp events.SQSEventResponse
	for _, message := range event.Records {
		logger := p.Logger.With(slog.String("message_id", message.MessageId))
		logger.Info("Processing notification")

		if err := p.process(ctx, message.Body); err != nil {
			if permanent(err) {
				logger.Error("Dropping notification", slog.Any("error", err))
				continue
			}
			logger.Error("Failed to process notification, will retry", slog.Any("error", err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp
}

func (p *Processor) process(ctx context.Context, body string) error {
	notification, err := p.Parser.ParseNotification(ctx, []byte(body))
	if err != nil {
		return err
	}
	result, err := p.Reconciler.HandleNotification(ctx, notification)
	if err != nil {
		return err
	}
	p.Logger.Info("Notification reconciled",
		slog.String("order_id", notification.OrderID),
		slog.String("outcome", string(result.Outcome)))
	return nil
}

func permanent(err error) bool {
	return errors.Is(err, reconcile.ErrUnknownOrder) ||
		errors.Is(err, reconcile.ErrAmountMismatch) ||
		errors.Is(err, gateway.ErrVerification) ||
		errors.Is(err, gateway.ErrMalformedPayload) ||
		errors.Is(err, gateway.ErrTransactionNotFound)
}
