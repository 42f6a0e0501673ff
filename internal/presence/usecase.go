package presence

import "context"

// Broadcaster is the slice of the hub the tracker needs: presence
// transitions go to every live connection.
type Broadcaster interface {
	BroadcastToAll(eventType string, data any)
}

// OnlineCache mirrors the online set into Redis, best effort.
type OnlineCache interface {
	AddOnlineUser(ctx context.Context, userID string) error
	RemoveOnlineUser(ctx context.Context, userID string) error
}

type PresenceEventDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
