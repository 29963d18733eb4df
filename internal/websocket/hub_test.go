package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func registered(t *testing.T, hub *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	c := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, buffer)}
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.Connected(userID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func TestHubSendsOnlyToOwner(t *testing.T) {
	hub := startHub(t)
	owner, other := uuid.New(), uuid.New()
	a := registered(t, hub, owner, 4)
	b := registered(t, hub, other, 4)

	hub.Send(owner, []byte(`{"type":"notebook.updated"}`))

	select {
	case msg := <-a.Send:
		assert.JSONEq(t, `{"type":"notebook.updated"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("owner did not receive the event")
	}
	assert.Len(t, b.Send, 0)
}

func TestHubFansOutToEveryDevice(t *testing.T) {
	hub := startHub(t)
	owner := uuid.New()
	first := registered(t, hub, owner, 4)
	second := &Client{Hub: hub, UserID: owner, Send: make(chan []byte, 4)}
	require.True(t, hub.Register(second))
	require.Eventually(t, func() bool { return hub.Connected(owner) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(owner, []byte("x"))
	assert.Len(t, first.Send, 1)
	assert.Len(t, second.Send, 1)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	owner := uuid.New()
	c := registered(t, hub, owner, 1)

	hub.Send(owner, []byte("1"))
	hub.Send(owner, []byte("2"))

	require.Eventually(t, func() bool { return hub.Connected(owner) == 0 }, time.Second, 5*time.Millisecond)
	// The buffered message is still readable, then the channel is closed.
	_, ok := <-c.Send
	assert.True(t, ok)
	_, ok = <-c.Send
	assert.False(t, ok)
}

func TestHubCallsReturnAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	owner := uuid.New()
	c := registered(t, hub, owner, 1)

	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		hub.Unregister(c)
		assert.False(t, hub.Register(&Client{Hub: hub, UserID: owner, Send: make(chan []byte, 1)}))
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
}
