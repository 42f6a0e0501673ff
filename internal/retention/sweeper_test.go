package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/config"
	"parley/internal/cache"
	channelMocks "parley/internal/channel/mocks"
	dmMocks "parley/internal/dm/mocks"
	messageMocks "parley/internal/message/mocks"
	messageModel "parley/internal/message/model"
	presenceMocks "parley/internal/presence/mocks"
	retentionMocks "parley/internal/retention/mocks"
	blobMocks "parley/pkg/blob/mocks"
	"parley/pkg/logger"
)

type sweeperFixture struct {
	messages *messageMocks.MockMessageRepository
	convs    *dmMocks.MockConversationRepository
	channels *channelMocks.MockChannelRepository
	presence *presenceMocks.MockPresenceRepository
	blobs    *blobMocks.MockStore
	cache    *retentionMocks.MockCacheReconciler
	sw       *Sweeper
}

func newSweeperFixture(t *testing.T) *sweeperFixture {
	ctrl := gomock.NewController(t)
	f := &sweeperFixture{
		messages: messageMocks.NewMockMessageRepository(ctrl),
		convs:    dmMocks.NewMockConversationRepository(ctrl),
		channels: channelMocks.NewMockChannelRepository(ctrl),
		presence: presenceMocks.NewMockPresenceRepository(ctrl),
		blobs:    blobMocks.NewMockStore(ctrl),
		cache:    retentionMocks.NewMockCacheReconciler(ctrl),
	}
	cfg := &config.Config{}
	cfg.Retention.WindowHours = 8
	cfg.Blob.PathPrefix = "/uploads/"
	log, _ := logger.NewLogger(cfg)
	f.sw = NewSweeper(f.messages, f.convs, f.channels, f.presence, f.blobs, f.cache, cfg, *log)
	return f
}

// Helpers wiring the phases a subtest is not exercising to empty results.

func (f *sweeperFixture) noExpired() {
	f.messages.EXPECT().SelectExpired(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.messages.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
}

func (f *sweeperFixture) noConversations() {
	f.convs.EXPECT().ListIDs(gomock.Any()).Return(nil, nil)
}

func (f *sweeperFixture) cacheDisabled() {
	f.cache.EXPECT().Enabled().Return(false)
}

func TestSweeper_PurgesExpiredMessagesAndBlobs(t *testing.T) {
	f := newSweeperFixture(t)

	expired := []*messageModel.Message{
		{ID: uuid.New(), CreatedAt: time.Now().Add(-10 * time.Hour)},
		{
			ID:        uuid.New(),
			CreatedAt: time.Now().Add(-9 * time.Hour),
			Attachments: []*messageModel.Attachment{
				{URL: "http://localhost:8080/uploads/ab/cd.png"},
				{URL: "not a url and no prefix"},
			},
		},
	}

	f.messages.EXPECT().SelectExpired(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cutoff time.Time) ([]*messageModel.Message, error) {
			// Cutoff must sit at now minus the configured window.
			assert.WithinDuration(t, time.Now().Add(-8*time.Hour), cutoff, time.Minute)
			return expired, nil
		})
	f.messages.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ids []uuid.UUID) (int64, error) {
			// The delete targets exactly the rows whose blob keys were
			// extracted.
			assert.Equal(t, []uuid.UUID{expired[0].ID, expired[1].ID}, ids)
			return 2, nil
		})
	f.blobs.EXPECT().Delete(gomock.Any(), "ab/cd.png").Return(nil)
	f.noConversations()
	f.cacheDisabled()

	report, err := f.sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.MessagesPurged)
	assert.Equal(t, 1, report.BlobsDeleted)
}

func TestSweeper_ExpiryFailureEscalates(t *testing.T) {
	f := newSweeperFixture(t)
	f.messages.EXPECT().SelectExpired(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := f.sw.Sweep(context.Background())
	assert.Error(t, err)
}

func TestSweeper_BlobFailureDoesNotAbort(t *testing.T) {
	f := newSweeperFixture(t)

	expired := []*messageModel.Message{{
		ID:        uuid.New(),
		CreatedAt: time.Now().Add(-10 * time.Hour),
		Attachments: []*messageModel.Attachment{
			{URL: "/uploads/gone.png"},
			{URL: "/uploads/kept.png"},
		},
	}}
	f.messages.EXPECT().SelectExpired(gomock.Any(), gomock.Any()).Return(expired, nil)
	f.messages.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	f.blobs.EXPECT().Delete(gomock.Any(), "gone.png").Return(errors.New("disk error"))
	f.blobs.EXPECT().Delete(gomock.Any(), "kept.png").Return(nil)
	f.noConversations()
	f.cacheDisabled()

	report, err := f.sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BlobsDeleted)
}

func TestSweeper_PrunesEmptyConversations(t *testing.T) {
	f := newSweeperFixture(t)
	emptyID := uuid.New()
	liveID := uuid.New()

	f.noExpired()
	f.convs.EXPECT().ListIDs(gomock.Any()).Return([]uuid.UUID{emptyID, liveID}, nil)
	f.messages.EXPECT().CountByConversation(gomock.Any(), emptyID).Return(0, nil)
	f.convs.EXPECT().Delete(gomock.Any(), emptyID).Return(nil)
	f.messages.EXPECT().CountByConversation(gomock.Any(), liveID).Return(3, nil)
	f.cacheDisabled()

	report, err := f.sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ConversationsPruned)
}

func TestSweeper_ReconcilesCache(t *testing.T) {
	f := newSweeperFixture(t)

	onlineID := uuid.New()
	staleID := uuid.New()
	channelID := uuid.New()
	memberID := uuid.New()
	evictedID := uuid.New()

	f.noExpired()
	f.noConversations()

	f.cache.EXPECT().Enabled().Return(true)
	f.cache.EXPECT().OnlineUserIDs(gomock.Any()).Return([]string{onlineID.String(), staleID.String()}, nil)
	f.presence.EXPECT().ListOnlineUserIDs(gomock.Any()).Return([]uuid.UUID{onlineID}, nil)
	f.cache.EXPECT().RemoveOnlineUsers(gomock.Any(), []string{staleID.String()}).Return(nil)

	f.cache.EXPECT().ChannelMemberSets(gomock.Any()).Return(map[string][]string{
		channelID.String(): {memberID.String(), evictedID.String()},
	}, nil)
	f.channels.EXPECT().ChannelExists(gomock.Any(), channelID).Return(true, nil)
	f.channels.EXPECT().ListMemberIDs(gomock.Any(), channelID).Return([]uuid.UUID{memberID}, nil)
	f.cache.EXPECT().RemoveFromSet(gomock.Any(), cache.ChannelMembersKey(channelID.String()), evictedID.String()).Return(nil)

	f.cache.EXPECT().TypingKeysWithoutTTL(gomock.Any()).Return([]string{"channel:x:typing"}, nil)
	f.cache.EXPECT().DeleteKey(gomock.Any(), "channel:x:typing").Return(nil)

	report, err := f.sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.CacheEntriesFixed)
}

func TestSweeper_DropsMemberSetOfDeadChannel(t *testing.T) {
	f := newSweeperFixture(t)
	channelID := uuid.New()

	f.noExpired()
	f.noConversations()

	f.cache.EXPECT().Enabled().Return(true)
	f.cache.EXPECT().OnlineUserIDs(gomock.Any()).Return(nil, nil)
	f.cache.EXPECT().ChannelMemberSets(gomock.Any()).Return(map[string][]string{
		channelID.String(): {uuid.New().String()},
	}, nil)
	f.channels.EXPECT().ChannelExists(gomock.Any(), channelID).Return(false, nil)
	f.cache.EXPECT().DeleteKey(gomock.Any(), cache.ChannelMembersKey(channelID.String())).Return(nil)
	f.cache.EXPECT().TypingKeysWithoutTTL(gomock.Any()).Return(nil, nil)

	report, err := f.sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.CacheEntriesFixed)
}
