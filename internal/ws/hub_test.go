package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/config"
	"parley/internal/cache"
	"parley/internal/events"
	"parley/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	log, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)
	return NewHub(cache.Disabled(*log), *log)
}

// testConn is a registered client backed by a real websocket pair, so the
// write pump and eviction paths run against the same code paths production
// uses.
type testConn struct {
	client *Client
	peer   *websocket.Conn
}

func dialTestConn(t *testing.T, hub *Hub, userID uuid.UUID, username string) *testConn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverSide <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	client := &Client{
		hub:      hub,
		conn:     <-serverSide,
		send:     make(chan []byte, sendBufferSize),
		socketID: uuid.NewString(),
		userID:   userID,
		username: username,
	}
	hub.Register(client)
	go client.writePump()

	return &testConn{client: client, peer: peer}
}

func (tc *testConn) readEvent(t *testing.T) events.Event {
	t.Helper()
	tc.peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := tc.peer.ReadMessage()
	require.NoError(t, err)

	var ev events.Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func (tc *testConn) assertSilent(t *testing.T) {
	t.Helper()
	tc.peer.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err := tc.peer.ReadMessage()
	assert.Error(t, err, "expected no frame")
}

func TestHub_RoomFanout(t *testing.T) {
	hub := newTestHub(t)
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
		assert.Positive(t, ev.Seq)
	}
	outsider.assertSilent(t)
}

func TestHub_RoomFanoutExcludesOriginator(t *testing.T) {
	hub := newTestHub(t)
	roomID := uuid.NewString()

	typist := dialTestConn(t, hub, uuid.New(), "alice")
	watcher := dialTestConn(t, hub, uuid.New(), "bob")
	hub.JoinRoom(typist.client, roomID)
	hub.JoinRoom(watcher.client, roomID)

	hub.BroadcastToRoomExcept(roomID, typist.client.userID.String(), events.UserTyping, nil)

	ev := watcher.readEvent(t)
	assert.Equal(t, events.UserTyping, ev.Type)
	typist.assertSilent(t)
}

func TestHub_PersonalRoomReachesEveryDevice(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()

	phone := dialTestConn(t, hub, userID, "alice")
	laptop := dialTestConn(t, hub, userID, "alice")
	other := dialTestConn(t, hub, uuid.New(), "bob")

	hub.BroadcastToUser(userID.String(), events.NewDirectMessage, nil)

	assert.Equal(t, events.NewDirectMessage, phone.readEvent(t).Type)
	assert.Equal(t, events.NewDirectMessage, laptop.readEvent(t).Type)
	other.assertSilent(t)
}

func TestHub_BroadcastToAll(t *testing.T) {
	hub := newTestHub(t)

	a := dialTestConn(t, hub, uuid.New(), "alice")
	b := dialTestConn(t, hub, uuid.New(), "bob")

	hub.BroadcastToAll(events.UserOnline, nil)

	assert.Equal(t, events.UserOnline, a.readEvent(t).Type)
	assert.Equal(t, events.UserOnline, b.readEvent(t).Type)
}

func TestHub_SeqIncreasesPerRoom(t *testing.T) {
	hub := newTestHub(t)
	roomID := uuid.NewString()

	a := dialTestConn(t, hub, uuid.New(), "alice")
	hub.JoinRoom(a.client, roomID)

	var last int64
	for i := 0; i < 5; i++ {
		hub.BroadcastToRoom(roomID, events.NewMessage, nil)
		ev := a.readEvent(t)
		assert.Greater(t, ev.Seq, last)
		last = ev.Seq
	}
}

func TestHub_UnregisterCleansBothIndexes(t *testing.T) {
	hub := newTestHub(t)
	roomA := uuid.NewString()
	roomB := uuid.NewString()

	a := dialTestConn(t, hub, uuid.New(), "alice")
	b := dialTestConn(t, hub, uuid.New(), "bob")
	hub.JoinRoom(a.client, roomA)
	hub.JoinRoom(a.client, roomB)
	hub.JoinRoom(b.client, roomA)

	rooms := hub.Unregister(a.client)
	assert.ElementsMatch(t, []string{roomA, roomB}, rooms)
	assert.Equal(t, 1, hub.ConnectionCount())

	// The survivor still gets room traffic.
	hub.BroadcastToRoom(roomA, events.NewMessage, nil)
	assert.Equal(t, events.NewMessage, b.readEvent(t).Type)
}

func TestHub_LeaveRoomStopsDelivery(t *testing.T) {
	hub := newTestHub(t)
	roomID := uuid.NewString()

	a := dialTestConn(t, hub, uuid.New(), "alice")
	hub.JoinRoom(a.client, roomID)
	hub.LeaveRoom(a.client, roomID)

	hub.BroadcastToRoom(roomID, events.NewMessage, nil)
	a.assertSilent(t)
	assert.Empty(t, hub.RoomsOf(a.client))
}
