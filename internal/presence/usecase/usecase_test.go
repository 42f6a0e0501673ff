package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/config"
	"parley/internal/events"
	"parley/internal/presence"
	"parley/internal/presence/mocks"
	"parley/pkg/logger"
)

type trackerFixture struct {
	repo  *mocks.MockPresenceRepository
	cache *mocks.MockOnlineCache
	pub   *mocks.MockBroadcaster
	tr    *Tracker
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	ctrl := gomock.NewController(t)
	f := &trackerFixture{
		repo:  mocks.NewMockPresenceRepository(ctrl),
		cache: mocks.NewMockOnlineCache(ctrl),
		pub:   mocks.NewMockBroadcaster(ctrl),
	}
	log, _ := logger.NewLogger(&config.Config{})
	f.tr = NewTracker(f.repo, f.cache, f.pub, *log)
	return f
}

func TestTracker_HandleConnect(t *testing.T) {
	userID := uuid.New()

	t.Run("first connection broadcasts online", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().RegisterSocket(gomock.Any(), userID, "sock-1").Return(true, nil)
		f.cache.EXPECT().AddOnlineUser(gomock.Any(), userID.String()).Return(nil)
		f.pub.EXPECT().BroadcastToAll(events.UserOnline, presence.PresenceEventDTO{
			UserID:   userID.String(),
			Username: "alice",
		})

		err := f.tr.HandleConnect(context.Background(), userID, "alice", "sock-1")
		require.NoError(t, err)
	})

	t.Run("second connection stays silent", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().RegisterSocket(gomock.Any(), userID, "sock-2").Return(false, nil)

		err := f.tr.HandleConnect(context.Background(), userID, "alice", "sock-2")
		require.NoError(t, err)
	})

	t.Run("cache failure does not block the transition", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().RegisterSocket(gomock.Any(), userID, "sock-1").Return(true, nil)
		f.cache.EXPECT().AddOnlineUser(gomock.Any(), userID.String()).Return(errors.New("redis down"))
		f.pub.EXPECT().BroadcastToAll(events.UserOnline, gomock.Any())

		err := f.tr.HandleConnect(context.Background(), userID, "alice", "sock-1")
		require.NoError(t, err)
	})

	t.Run("storage failure escalates", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().RegisterSocket(gomock.Any(), userID, "sock-1").Return(false, errors.New("db down"))

		err := f.tr.HandleConnect(context.Background(), userID, "alice", "sock-1")
		assert.Error(t, err)
	})
}

func TestTracker_HandleDisconnect(t *testing.T) {
	userID := uuid.New()

	t.Run("last connection broadcasts offline", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().DeregisterSocket(gomock.Any(), userID, "sock-1").Return(true, nil)
		f.cache.EXPECT().RemoveOnlineUser(gomock.Any(), userID.String()).Return(nil)
		f.pub.EXPECT().BroadcastToAll(events.UserOffline, presence.PresenceEventDTO{
			UserID:   userID.String(),
			Username: "alice",
		})

		err := f.tr.HandleDisconnect(context.Background(), userID, "alice", "sock-1")
		require.NoError(t, err)
	})

	t.Run("remaining connections keep the user online", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().DeregisterSocket(gomock.Any(), userID, "sock-1").Return(false, nil)

		err := f.tr.HandleDisconnect(context.Background(), userID, "alice", "sock-1")
		require.NoError(t, err)
	})
}

func TestTracker_Snapshot(t *testing.T) {
	t.Run("returns the online set as strings", func(t *testing.T) {
		f := newTrackerFixture(t)
		a, b := uuid.New(), uuid.New()
		f.repo.EXPECT().ListOnlineUserIDs(gomock.Any()).Return([]uuid.UUID{a, b}, nil)

		ids, err := f.tr.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{a.String(), b.String()}, ids)
	})

	t.Run("storage failure escalates", func(t *testing.T) {
		f := newTrackerFixture(t)
		f.repo.EXPECT().ListOnlineUserIDs(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.tr.Snapshot(context.Background())
		assert.Error(t, err)
	})
}
