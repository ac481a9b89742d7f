package websockets

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/websockets"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Handler handles WebSocket connections.
type Handler struct {
	connManager websockets.ConnectionManager
	logger      *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(connManager websockets.ConnectionManager, logger *slog.Logger) *Handler {
	return &Handler{
		connManager: connManager,
		logger:      logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP upgrades the request and streams balance updates to the client
// until either side closes the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	h.logger.Info("Client connected", "connectionId", connectionID)

	ctx := r.Context()
	send, err := h.connManager.AddConnection(ctx, connectionID)
	if err != nil {
		h.logger.Error("failed to register connection", "connectionId", connectionID, "error", err)
		return
	}
	defer func() {
		h.logger.Info("Client disconnected", "connectionId", connectionID)
		if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
			h.logger.Error("failed to remove connection", "connectionId", connectionID, "error", err)
		}
	}()

	// Clients are not expected to send anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Error("unexpected close error", "connectionId", connectionID, "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-send:
			if !ok {
				// Dropped by the hub.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Error("failed to write message", "connectionId", connectionID, "error", err)
				return
			}
		}
	}
}
