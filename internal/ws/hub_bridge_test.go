package ws

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"parley/config"
	"parley/internal/cache"
	"parley/internal/events"
	"parley/pkg/logger"
)

func newBridgedHub(t *testing.T) *Hub {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	log, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)

	c := cache.New(ctx, &config.Config{
		Redis: config.RedisConfig{Addr: addr, DialTimeoutMs: 3000},
	}, *log)
	require.True(t, c.Enabled())
	t.Cleanup(func() { c.Close() })

	hub := NewHub(c, *log)

	bctx, cancel := context.WithCancel(ctx)
	bridgeDone := make(chan error, 1)
	go func() { bridgeDone <- hub.RunBridge(bctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-bridgeDone:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("bridge did not stop after cancel")
		}
	})

	// Give the pattern subscription a moment to establish before tests
	// publish through it.
	time.Sleep(500 * time.Millisecond)
	return hub
}

// With the cache enabled every broadcast goes out through Redis and comes
// back through the bridge, so any frame a client reads here has survived the
// pub/sub hop.
func TestHub_BridgeDeliversAcrossPubSub(t *testing.T) {
	hub := newBridgedHub(t)

	t.Run("room fanout", func(t *testing.T) {
		roomID := uuid.NewString()
		a := dialTestConn(t, hub, uuid.New(), "alice")
		b := dialTestConn(t, hub, uuid.New(), "bob")
		outsider := dialTestConn(t, hub, uuid.New(), "carol")
		hub.JoinRoom(a.client, roomID)
		hub.JoinRoom(b.client, roomID)

		hub.BroadcastToRoom(roomID, events.NewMessage, map[string]string{"content": "hi"})

		for _, tc := range []*testConn{a, b} {
			ev := tc.readEvent(t)
			assert.Equal(t, events.NewMessage, ev.Type)
		}
		outsider.assertSilent(t)
	})

	t.Run("originator exclusion survives the hop", func(t *testing.T) {
		roomID := uuid.NewString()
		typist := dialTestConn(t, hub, uuid.New(), "alice")
		watcher := dialTestConn(t, hub, uuid.New(), "bob")
		hub.JoinRoom(typist.client, roomID)
		hub.JoinRoom(watcher.client, roomID)

		hub.BroadcastToRoomExcept(roomID, typist.client.userID.String(), events.UserTyping, nil)

		assert.Equal(t, events.UserTyping, watcher.readEvent(t).Type)
		typist.assertSilent(t)
	})

	t.Run("personal room", func(t *testing.T) {
		userID := uuid.New()
		phone := dialTestConn(t, hub, userID, "alice")
		laptop := dialTestConn(t, hub, userID, "alice")
		other := dialTestConn(t, hub, uuid.New(), "bob")

		hub.BroadcastToUser(userID.String(), events.NewDirectMessage, nil)

		assert.Equal(t, events.NewDirectMessage, phone.readEvent(t).Type)
		assert.Equal(t, events.NewDirectMessage, laptop.readEvent(t).Type)
		other.assertSilent(t)
	})

	t.Run("process-wide broadcast", func(t *testing.T) {
		a := dialTestConn(t, hub, uuid.New(), "alice")
		b := dialTestConn(t, hub, uuid.New(), "bob")

		hub.BroadcastToAll(events.UserOnline, nil)

		assert.Equal(t, events.UserOnline, a.readEvent(t).Type)
		assert.Equal(t, events.UserOnline, b.readEvent(t).Type)
	})
}

func TestHub_BridgeRequiresEnabledCache(t *testing.T) {
	hub := newTestHub(t)
	err := hub.RunBridge(context.Background())
	assert.ErrorIs(t, err, cache.ErrDisabled)
}
