package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"parley/internal/cache"
	"parley/internal/events"
	"parley/internal/presence"
	"parley/pkg/logger"
)

// Tracker turns connection churn into presence transitions. Storage decides
// the transition atomically; the tracker only broadcasts and mirrors it, so
// a user with three devices goes online once and offline once.
type Tracker struct {
	repo   presence.PresenceRepository
	cache  presence.OnlineCache
	pub    presence.Broadcaster
	logger logger.Logger
}

func NewTracker(repo presence.PresenceRepository, onlineCache presence.OnlineCache, pub presence.Broadcaster, logger logger.Logger) *Tracker {
	return &Tracker{repo: repo, cache: onlineCache, pub: pub, logger: logger}
}

func (t *Tracker) HandleConnect(ctx context.Context, userID uuid.UUID, username, socketID string) error {
	wentOnline, err := t.repo.RegisterSocket(ctx, userID, socketID)
	if err != nil {
		return err
	}
	if !wentOnline {
		return nil
	}

	t.bestEffort("cache online user", t.cache.AddOnlineUser(ctx, userID.String()))
	t.pub.BroadcastToAll(events.UserOnline, presence.PresenceEventDTO{
		UserID:   userID.String(),
		Username: username,
	})
	return nil
}

func (t *Tracker) HandleDisconnect(ctx context.Context, userID uuid.UUID, username, socketID string) error {
	wentOffline, err := t.repo.DeregisterSocket(ctx, userID, socketID)
	if err != nil {
		return err
	}
	if !wentOffline {
		return nil
	}

	t.bestEffort("uncache online user", t.cache.RemoveOnlineUser(ctx, userID.String()))
	t.pub.BroadcastToAll(events.UserOffline, presence.PresenceEventDTO{
		UserID:   userID.String(),
		Username: username,
	})
	return nil
}

// Snapshot lists the users currently online, straight from the durable
// store. The gateway pushes it to every new connection as its starting
// state; the live transition events take over from there.
func (t *Tracker) Snapshot(ctx context.Context) ([]string, error) {
	ids, err := t.repo.ListOnlineUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out, nil
}

func (t *Tracker) bestEffort(op string, err error) {
	if err != nil && !errors.Is(err, cache.ErrDisabled) {
		t.logger.Warn("cache operation failed", "op", op, "err", err)
	}
}
