package ws

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	"parley/internal/cache"
	"parley/internal/events"
	"parley/pkg/logger"
)

const (
	roomTopicPrefix = "room:"
	userTopicPrefix = "user:"
	broadcastTopic  = "broadcast"
)

// Hub tracks live connections, their room memberships, and fans events out
// to them. When the cache is enabled every broadcast goes through Redis
// pub/sub so sibling processes deliver to their own connections; otherwise
// delivery stays in-process.
type Hub struct {
	mu sync.RWMutex
	// roomID -> clients in that room.
	rooms map[string]map[*Client]struct{}
	// reverse index, client -> roomIDs, so disconnects clean up in O(rooms of client).
	clientRooms map[*Client]map[string]struct{}
	// userID -> that user's connections (the personal room).
	users map[string]map[*Client]struct{}

	seq    atomic.Int64
	cache  *cache.Cache
	logger logger.Logger

	closed   bool
	closedMu sync.Mutex
}

func NewHub(c *cache.Cache, log logger.Logger) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		clientRooms: make(map[*Client]map[string]struct{}),
		users:       make(map[string]map[*Client]struct{}),
		cache:       c,
		logger:      log,
	}
}

// Register adds a connection to its user's personal room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.userID.String()]
	if !ok {
		set = make(map[*Client]struct{})
		h.users[c.userID.String()] = set
	}
	set[c] = struct{}{}
	h.clientRooms[c] = make(map[string]struct{})
}

// Unregister removes the connection from every room and its personal room,
// closes its send channel, and returns the roomIDs it was in so the caller
// can run per-room cleanup (typing sets and the like).
func (h *Hub) Unregister(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomIDs := make([]string, 0, len(h.clientRooms[c]))
	for roomID := range h.clientRooms[c] {
		roomIDs = append(roomIDs, roomID)
		if members, ok := h.rooms[roomID]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	delete(h.clientRooms, c)

	if set, ok := h.users[c.userID.String()]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, c.userID.String())
		}
	}

	close(c.send)
	return roomIDs
}

func (h *Hub) JoinRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	if set, ok := h.clientRooms[c]; ok {
		set[roomID] = struct{}{}
	}
}

func (h *Hub) LeaveRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if set, ok := h.clientRooms[c]; ok {
		delete(set, roomID)
	}
}

// RoomsOf snapshots the rooms a connection currently belongs to.
func (h *Hub) RoomsOf(c *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clientRooms[c]))
	for roomID := range h.clientRooms[c] {
		ids = append(ids, roomID)
	}
	return ids
}

// BroadcastToRoom fans an event out to every connection in the room.
func (h *Hub) BroadcastToRoom(roomID, eventType string, data any) {
	h.broadcast(roomTopicPrefix+roomID, "", eventType, data)
}

// BroadcastToRoomExcept skips every connection belonging to excludeUserID.
func (h *Hub) BroadcastToRoomExcept(roomID, excludeUserID, eventType string, data any) {
	h.broadcast(roomTopicPrefix+roomID, excludeUserID, eventType, data)
}

// BroadcastToUser delivers to all of one user's connections.
func (h *Hub) BroadcastToUser(userID, eventType string, data any) {
	h.broadcast(userTopicPrefix+userID, "", eventType, data)
}

// BroadcastToAll delivers to every live connection on every process.
func (h *Hub) BroadcastToAll(eventType string, data any) {
	h.broadcast(broadcastTopic, "", eventType, data)
}

func (h *Hub) broadcast(topic, excludeUserID, eventType string, data any) {
	payload, err := json.Marshal(events.Event{
		Type: eventType,
		Seq:  h.seq.Add(1),
		Data: data,
	})
	if err != nil {
		h.logger.Error("marshal outbound event", "type", eventType, "err", err)
		return
	}

	if h.cache.Enabled() {
		err := h.cache.PublishEnvelope(context.Background(), cache.Envelope{
			Topic:         topic,
			ExcludeUserID: excludeUserID,
			Payload:       payload,
		})
		if err == nil {
			return
		}
		h.logger.Warn("pub/sub publish failed, delivering locally", "topic", topic, "err", err)
	}
	h.deliver(topic, excludeUserID, payload)
}

// RunBridge consumes the Redis pub/sub stream and re-delivers envelopes to
// this process's connections. Returns when ctx is cancelled or the cache is
// disabled.
func (h *Hub) RunBridge(ctx context.Context) error {
	envs, err := h.cache.SubscribeEnvelopes(ctx, roomTopicPrefix+"*", userTopicPrefix+"*", broadcastTopic)
	if err != nil {
		return err
	}
	for env := range envs {
		h.deliver(env.Topic, env.ExcludeUserID, env.Payload)
	}
	return nil
}

func (h *Hub) deliver(topic, excludeUserID string, payload []byte) {
	h.mu.RLock()

	var targets map[*Client]struct{}
	switch {
	case topic == broadcastTopic:
		targets = make(map[*Client]struct{}, len(h.clientRooms))
		for c := range h.clientRooms {
			targets[c] = struct{}{}
		}
	case strings.HasPrefix(topic, roomTopicPrefix):
		targets = h.rooms[strings.TrimPrefix(topic, roomTopicPrefix)]
	case strings.HasPrefix(topic, userTopicPrefix):
		targets = h.users[strings.TrimPrefix(topic, userTopicPrefix)]
	}

	var stalled []*Client
	for c := range targets {
		if excludeUserID != "" && c.userID.String() == excludeUserID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	// A full send buffer means the reader is gone or hopelessly behind.
	// Drop the connection rather than block the whole fan-out.
	for _, c := range stalled {
		h.logger.Warn("evicting stalled connection", "user_id", c.userID, "socket_id", c.socketID)
		c.conn.Close()
	}
}

// SendToClient queues an event for a single connection, bypassing rooms.
// Used for error frames and join/leave acknowledgements.
func (h *Hub) SendToClient(c *Client, eventType string, data any) {
	payload, err := json.Marshal(events.Event{
		Type: eventType,
		Seq:  h.seq.Add(1),
		Data: data,
	})
	if err != nil {
		h.logger.Error("marshal outbound event", "type", eventType, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, registered := h.clientRooms[c]; !registered {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// Shutdown closes every live connection. New registrations after this point
// are the caller's responsibility to prevent (stop accepting upgrades first).
func (h *Hub) Shutdown() {
	h.closedMu.Lock()
	if h.closed {
		h.closedMu.Unlock()
		return
	}
	h.closed = true
	h.closedMu.Unlock()

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clientRooms))
	for c := range h.clientRooms {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.conn.Close()
	}
}

// ConnectionCount reports live connections, for the health endpoint.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientRooms)
}
