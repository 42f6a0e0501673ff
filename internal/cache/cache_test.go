package cache

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"parley/config"
	"parley/pkg/logger"
)

var testCache *Cache

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		log.Printf("failed to get endpoint: %v", err)
		return
	}

	lg, err := logger.NewLogger(&config.Config{})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	testCache = New(ctx, &config.Config{
		Redis: config.RedisConfig{Addr: addr, DialTimeoutMs: 3000},
	}, *lg)
	if !testCache.Enabled() {
		log.Fatalf("cache came up disabled against a live container")
	}

	code := m.Run()
	testCache.Close()
	os.Exit(code)
}

func flushCache(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		require.NoError(t, testCache.rdb.FlushAll(context.Background()).Err())
	})
}

func Test_MarkTyping_SetsExpiry(t *testing.T) {
	flushCache(t)

	require.NoError(t, testCache.MarkTyping(t.Context(), "ch1", "u1"))

	key := channelTypingKey("ch1")
	member, err := testCache.rdb.SIsMember(t.Context(), key, "u1").Result()
	require.NoError(t, err)
	assert.True(t, member)

	ttl, err := testCache.rdb.TTL(t.Context(), key).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, TypingTTL)

	// A second keystroke burst refreshes the whole set's expiry.
	require.NoError(t, testCache.MarkTyping(t.Context(), "ch1", "u2"))
	ttl, err = testCache.rdb.TTL(t.Context(), key).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, testCache.ClearTyping(t.Context(), "ch1", "u1"))
	member, err = testCache.rdb.SIsMember(t.Context(), key, "u1").Result()
	require.NoError(t, err)
	assert.False(t, member)
}

func Test_TypingKeysWithoutTTL_FlagsOnlyUnexpiringKeys(t *testing.T) {
	flushCache(t)

	// Healthy entry: SADD plus EXPIRE.
	require.NoError(t, testCache.MarkTyping(t.Context(), "healthy", "u1"))

	// Orphan: a raw SADD with no expiry, as a crash between the two commands
	// would leave behind.
	orphanKey := channelTypingKey("orphan")
	require.NoError(t, testCache.rdb.SAdd(t.Context(), orphanKey, "u2").Err())

	stale, err := testCache.TypingKeysWithoutTTL(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{orphanKey}, stale)
}

func Test_ChannelMemberSets_RoundTrip(t *testing.T) {
	flushCache(t)

	require.NoError(t, testCache.AddChannelMember(t.Context(), "ch1", "u1"))
	require.NoError(t, testCache.AddChannelMember(t.Context(), "ch1", "u2"))
	require.NoError(t, testCache.AddChannelMember(t.Context(), "ch2", "u3"))

	sets, err := testCache.ChannelMemberSets(t.Context())
	require.NoError(t, err)
	require.Len(t, sets, 2, "the channel id survives the key round-trip")
	assert.ElementsMatch(t, []string{"u1", "u2"}, sets["ch1"])
	assert.Equal(t, []string{"u3"}, sets["ch2"])

	require.NoError(t, testCache.RemoveFromSet(t.Context(), ChannelMembersKey("ch1"), "u1", "u2"))
	require.NoError(t, testCache.DeleteKey(t.Context(), ChannelMembersKey("ch2")))

	sets, err = testCache.ChannelMemberSets(t.Context())
	require.NoError(t, err)
	assert.Empty(t, sets)

	require.NoError(t, testCache.RemoveFromSet(t.Context(), ChannelMembersKey("ch1")), "no members is a no-op")
}

func Test_OnlineUserSet(t *testing.T) {
	flushCache(t)

	require.NoError(t, testCache.AddOnlineUser(t.Context(), "u1"))
	require.NoError(t, testCache.AddOnlineUser(t.Context(), "u2"))
	require.NoError(t, testCache.AddOnlineUser(t.Context(), "u3"))

	online, err := testCache.OnlineUserIDs(t.Context())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, online)

	require.NoError(t, testCache.RemoveOnlineUser(t.Context(), "u1"))
	require.NoError(t, testCache.RemoveOnlineUsers(t.Context(), []string{"u2", "u3"}))
	require.NoError(t, testCache.RemoveOnlineUsers(t.Context(), nil))

	online, err = testCache.OnlineUserIDs(t.Context())
	require.NoError(t, err)
	assert.Empty(t, online)
}

func Test_EnvelopeRoundTrip(t *testing.T) {
	flushCache(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	envs, err := testCache.SubscribeEnvelopes(ctx, "room:*")
	require.NoError(t, err)

	sent := Envelope{
		Topic:         "room:42",
		ExcludeUserID: "u1",
		Payload:       json.RawMessage(`{"type":"user-typing","seq":7}`),
	}
	require.NoError(t, testCache.PublishEnvelope(t.Context(), sent))

	select {
	case got := <-envs:
		assert.Equal(t, sent.Topic, got.Topic)
		assert.Equal(t, sent.ExcludeUserID, got.ExcludeUserID)
		assert.JSONEq(t, string(sent.Payload), string(got.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("no envelope arrived")
	}

	// A topic outside the pattern never reaches this subscriber.
	require.NoError(t, testCache.PublishEnvelope(t.Context(), Envelope{Topic: "user:7", Payload: json.RawMessage(`{}`)}))
	select {
	case env := <-envs:
		t.Fatalf("unexpected envelope for topic %s", env.Topic)
	case <-time.After(150 * time.Millisecond):
	}

	// Cancelling the context ends the stream.
	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-envs:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel still open after cancel")
		}
	}
}

func Test_DisabledCacheReportsErrDisabled(t *testing.T) {
	lg, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)
	disabled := Disabled(*lg)

	assert.False(t, disabled.Enabled())
	assert.ErrorIs(t, disabled.AddOnlineUser(t.Context(), "u1"), ErrDisabled)
	assert.ErrorIs(t, disabled.MarkTyping(t.Context(), "ch1", "u1"), ErrDisabled)
	_, err = disabled.ChannelMemberSets(t.Context())
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = disabled.TypingKeysWithoutTTL(t.Context())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, disabled.PublishEnvelope(t.Context(), Envelope{Topic: "room:1"}), ErrDisabled)
	_, err = disabled.SubscribeEnvelopes(t.Context(), "room:*")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, disabled.Close())
}
