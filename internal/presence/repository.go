package presence

import (
	"context"

	"github.com/google/uuid"

	Presence "parley/internal/presence/model"
)

type PresenceRepository interface {
	// RegisterSocket adds a connection id to the user's durable socket set and
	// marks the user online in the same statement. wentOnline is true only on
	// the empty → non-empty transition.
	RegisterSocket(ctx context.Context, userID uuid.UUID, socketID string) (wentOnline bool, err error)

	// DeregisterSocket removes a connection id; wentOffline is true only when
	// the set became empty, at which point last_seen is recorded. Removing a
	// socket that was never registered is a no-op.
	DeregisterSocket(ctx context.Context, userID uuid.UUID, socketID string) (wentOffline bool, err error)

	GetPresence(ctx context.Context, userID uuid.UUID) (*Presence.UserPresence, error)
	ListOnlineUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
