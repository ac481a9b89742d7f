package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const defaultSendBuffer = 16

// Hub fans messages out to the connections of this process. A connection
// whose buffer is full is dropped instead of blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]chan []byte
	logger      *slog.Logger
	bufferSize  int
}

var (
	_ ConnectionManager = (*Hub)(nil)
	_ Publisher         = (*Hub)(nil)
)

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]chan []byte),
		logger:      logger,
		bufferSize:  defaultSendBuffer,
	}
}

func (h *Hub) AddConnection(_ context.Context, connectionID string) (<-chan []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[connectionID]; ok {
		return nil, fmt.Errorf("connection %s already registered", connectionID)
	}
	ch := make(chan []byte, h.bufferSize)
	h.connections[connectionID] = ch
	return ch, nil
}

func (h *Hub) RemoveConnection(_ context.Context, connectionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(connectionID)
	return nil
}

// remove must be called with h.mu held for writing.
func (h *Hub) remove(connectionID string) {
	if ch, ok := h.connections[connectionID]; ok {
		delete(h.connections, connectionID)
		close(ch)
	}
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Publish sends a message to all connected clients.
func (h *Hub) Publish(_ context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for connectionID, ch := range h.connections {
		select {
		case ch <- payload:
		default:
			h.logger.Info("slow connection found, dropping", "connectionId", connectionID)
			h.remove(connectionID)
		}
	}
	return nil
}
