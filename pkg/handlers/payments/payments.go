package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/charge"
	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/respond"
	"github.com/chris/topup-webhook-bridge/pkg/mapping"
	"github.com/chris/topup-webhook-bridge/pkg/reconcile"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"github.com/chris/topup-webhook-bridge/pkg/websockets"
)

const maxNotificationBytes = 64 << 10

// Charger creates a remote charge and its pending record.
type Charger interface {
	Charge(ctx context.Context, req charge.Request) (*gateway.ChargeResult, error)
}

// NotificationParser verifies and decodes a raw gateway notification.
type NotificationParser interface {
	ParseNotification(ctx context.Context, body []byte) (*gateway.Notification, error)
}

// Reconciler applies a verified notification to the order's record.
type Reconciler interface {
	HandleNotification(ctx context.Context, n *gateway.Notification) (*reconcile.Result, error)
}

// PaymentsHandler holds the dependencies for the charge and notification endpoints.
type PaymentsHandler struct {
	Charger    Charger
	Parser     NotificationParser
	Reconciler Reconciler
	Balances   storage.BalanceReader
	Publisher  websockets.Publisher
	Logger     *slog.Logger
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(charger Charger, parser NotificationParser, reconciler Reconciler, balances storage.BalanceReader, publisher websockets.Publisher, logger *slog.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		Charger:    charger,
		Parser:     parser,
		Reconciler: reconciler,
		Balances:   balances,
		Publisher:  publisher,
		Logger:     logger,
	}
}

// CreateCharge opens a checkout with the gateway and records it as pending.
func (h *PaymentsHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req api.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.Charger.Charge(r.Context(), mapping.ToChargeRequest(&req))
	if err != nil {
		var invalid *charge.InvalidRequestError
		if errors.As(err, &invalid) {
			respond.Error(w, http.StatusBadRequest, invalid.Error())
			return
		}
		h.Logger.Error("Failed to create charge", slog.String("order_id", req.OrderId), slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiChargeResponse(result))
}

// HandleNotification verifies a gateway notification and reconciles it.
func (h *PaymentsHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxNotificationBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	notification, err := h.Parser.ParseNotification(r.Context(), body)
	if err != nil {
		h.Logger.Error("Failed to parse notification", slog.Any("error", err))
		http.Error(w, err.Error(), notificationStatus(err))
		return
	}

	result, err := h.Reconciler.HandleNotification(r.Context(), notification)
	if err != nil {
		h.Logger.Error("Failed to reconcile notification", slog.String("order_id", notification.OrderID), slog.Any("error", err))
		http.Error(w, err.Error(), notificationStatus(err))
		return
	}

	if result.Outcome == reconcile.OutcomeCredited {
		h.publishBalance(r.Context(), result)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

// notificationStatus maps a notification failure to its HTTP status.
func notificationStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrMalformedPayload):
		return http.StatusBadRequest
	case errors.Is(err, reconcile.ErrUnknownOrder), errors.Is(err, gateway.ErrTransactionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publishBalance tells connected clients about a credit. Failures are logged only.
func (h *PaymentsHandler) publishBalance(ctx context.Context, result *reconcile.Result) {
	tx := result.Transaction
	balance, err := h.Balances.GetBalance(ctx, tx.UserId)
	if err != nil {
		h.Logger.Error("failed to get balance for websocket message", slog.String("user_id", tx.UserId), slog.Any("error", err))
		return
	}

	msg := websockets.Message{
		Type: websockets.MessageTypeBalanceUpdate,
		Payload: websockets.BalanceUpdatePayload{
			UserID:     tx.UserId,
			OrderID:    tx.OrderId,
			Change:     tx.Amount,
			NewBalance: balance.Balance,
		},
	}
	if err := h.Publisher.Publish(ctx, msg); err != nil {
		h.Logger.Error("failed to publish websocket message", slog.String("order_id", tx.OrderId), slog.Any("error", err))
	}
}
