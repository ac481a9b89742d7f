package websockets

import "github.com/chris/topup-webhook-bridge/pkg/models"

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is sent after a top-up is credited.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID     string       `json:"user_id"`
	OrderID    string       `json:"order_id"`
	Change     models.Money `json:"change"`
	NewBalance models.Money `json:"new_balance"`
}
