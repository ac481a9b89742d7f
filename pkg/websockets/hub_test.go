package websockets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubPublish(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()

	first, err := hub.AddConnection(ctx, "c1")
	require.NoError(t, err)
	second, err := hub.AddConnection(ctx, "c2")
	require.NoError(t, err)

	msg := Message{Type: MessageTypeBalanceUpdate, Payload: BalanceUpdatePayload{
		UserID: "U1", OrderID: "A1", Change: models.MoneyFromInt(50000), NewBalance: models.MoneyFromInt(75000),
	}}
	require.NoError(t, hub.Publish(ctx, msg))

	for _, ch := range []<-chan []byte{first, second} {
		var got struct {
			Type    MessageType    `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(<-ch, &got))
		assert.Equal(t, MessageTypeBalanceUpdate, got.Type)
		assert.Equal(t, "A1", got.Payload["order_id"])
		assert.Equal(t, "75000", got.Payload["new_balance"])
	}
}

func TestHubDuplicateConnection(t *testing.T) {
	hub := newTestHub()
	_, err := hub.AddConnection(context.Background(), "c1")
	require.NoError(t, err)

	_, err = hub.AddConnection(context.Background(), "c1")
	assert.Error(t, err)
}

func TestHubRemoveClosesChannel(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()
	ch, _ := hub.AddConnection(ctx, "c1")

	require.NoError(t, hub.RemoveConnection(ctx, "c1"))

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Count())
	assert.NoError(t, hub.RemoveConnection(ctx, "c1"))
}

func TestHubDropsSlowConnection(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()
	hub.bufferSize = 1
	_, err := hub.AddConnection(ctx, "slow")
	require.NoError(t, err)

	msg := Message{Type: MessageTypeBalanceUpdate}
	require.NoError(t, hub.Publish(ctx, msg))
	require.NoError(t, hub.Publish(ctx, msg))

	assert.Equal(t, 0, hub.Count())
}
