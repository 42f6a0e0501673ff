package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"parley/config"
	"parley/pkg/logger"
)

// Key schema. Every value here is re-derivable from the durable store; the
// whole cache can be wiped without data loss.
const (
	onlineUsersKey = "online_users"

	// TypingTTL bounds a typing entry's life so a crashed client cannot leave
	// a permanent "is typing" indicator.
	TypingTTL = 10 * time.Second
)

func channelMembersKey(channelID string) string { return "channel:" + channelID + ":members" }
func channelTypingKey(channelID string) string  { return "channel:" + channelID + ":typing" }

var ErrDisabled = errors.New("ephemeral cache disabled")

// Cache wraps the shared Redis instance. It is constructed once at startup
// and passed explicitly to every component that mirrors state into it; when
// Redis is unreachable within the dial timeout it comes up in an explicit
// disabled state and every operation reports ErrDisabled instead of
// blocking. Callers treat it as advisory only.
type Cache struct {
	rdb    *redis.Client
	logger *logger.Logger
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: time.Duration(cfg.Redis.DialTimeoutMs) * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Redis.DialTimeoutMs)*time.Millisecond)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("ephemeral cache unreachable, presence mirroring disabled", "addr", cfg.Redis.Addr, "err", err)
		_ = rdb.Close()
		return &Cache{logger: &log}
	}

	log.Info("connected to ephemeral cache", "addr", cfg.Redis.Addr)
	return &Cache{rdb: rdb, logger: &log}
}

// Disabled returns a cache in the explicit unavailable state, for tests and
// for running without Redis.
func Disabled(log logger.Logger) *Cache {
	return &Cache{logger: &log}
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Online-user set.

func (c *Cache) AddOnlineUser(ctx context.Context, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.SAdd(ctx, onlineUsersKey, userID).Err()
}

func (c *Cache) RemoveOnlineUser(ctx context.Context, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.SRem(ctx, onlineUsersKey, userID).Err()
}

func (c *Cache) OnlineUserIDs(ctx context.Context) ([]string, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	return c.rdb.SMembers(ctx, onlineUsersKey).Result()
}

func (c *Cache) RemoveOnlineUsers(ctx context.Context, userIDs []string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if len(userIDs) == 0 {
		return nil
	}
	members := make([]any, len(userIDs))
	for i, id := range userIDs {
		members[i] = id
	}
	return c.rdb.SRem(ctx, onlineUsersKey, members...).Err()
}

// Per-channel connected-member sets.

func (c *Cache) AddChannelMember(ctx context.Context, channelID, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.SAdd(ctx, channelMembersKey(channelID), userID).Err()
}

func (c *Cache) RemoveChannelMember(ctx context.Context, channelID, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.SRem(ctx, channelMembersKey(channelID), userID).Err()
}

// ChannelMemberSets walks every channel:*:members key and returns
// channelID → member ids, for sweep reconciliation.
func (c *Cache) ChannelMemberSets(ctx context.Context) (map[string][]string, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	sets := make(map[string][]string)
	iter := c.rdb.Scan(ctx, 0, "channel:*:members", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		channelID := key[len("channel:") : len(key)-len(":members")]

		members, err := c.rdb.SMembers(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "cache.ChannelMemberSets: %s", key)
		}
		sets[channelID] = members
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "cache.ChannelMemberSets.Scan: ")
	}
	return sets, nil
}

func (c *Cache) RemoveFromSet(ctx context.Context, key string, members ...string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.SRem(ctx, key, args...).Err()
}

func (c *Cache) DeleteKey(ctx context.Context, key string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.Del(ctx, key).Err()
}

func ChannelMembersKey(channelID string) string { return channelMembersKey(channelID) }

// Typing sets.

func (c *Cache) MarkTyping(ctx context.Context, channelID, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	key := channelTypingKey(channelID)
	if err := c.rdb.SAdd(ctx, key, userID).Err(); err != nil {
		return err
	}
	// Refresh on every keystroke burst; the whole set ages out together.
	return c.rdb.Expire(ctx, key, TypingTTL).Err()
}

func (c *Cache) ClearTyping(ctx context.Context, channelID, userID string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.rdb.SRem(ctx, channelTypingKey(channelID), userID).Err()
}

// TypingKeysWithoutTTL reports typing keys missing an expiry: entries an
// older writer (or a partial failure between SADD and EXPIRE) left behind.
func (c *Cache) TypingKeysWithoutTTL(ctx context.Context) ([]string, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	var stale []string
	iter := c.rdb.Scan(ctx, 0, "channel:*:typing", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := c.rdb.TTL(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "cache.TypingKeysWithoutTTL: %s", key)
		}
		// go-redis reports "key exists, no expiry" as -1.
		if ttl == -1 {
			stale = append(stale, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "cache.TypingKeysWithoutTTL.Scan: ")
	}
	return stale, nil
}
