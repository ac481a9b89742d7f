package websockets

import (
	"context"
)

// ConnectionManager defines the interface for managing WebSocket connections.
// AddConnection returns the channel on which the connection receives encoded messages;
// the channel is closed when the connection is removed.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) (<-chan []byte, error)
	RemoveConnection(ctx context.Context, connectionID string) error
}

// Publisher defines the interface for publishing messages to WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
