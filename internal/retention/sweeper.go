package retention

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parley/config"
	"parley/internal/cache"
	"parley/internal/channel"
	"parley/internal/dm"
	"parley/internal/message"
	"parley/internal/presence"
	"parley/pkg/blob"
	"parley/pkg/logger"
)

// CacheReconciler is the slice of the ephemeral cache the sweeper repairs.
type CacheReconciler interface {
	Enabled() bool
	OnlineUserIDs(ctx context.Context) ([]string, error)
	RemoveOnlineUsers(ctx context.Context, userIDs []string) error
	ChannelMemberSets(ctx context.Context) (map[string][]string, error)
	RemoveFromSet(ctx context.Context, key string, members ...string) error
	DeleteKey(ctx context.Context, key string) error
	TypingKeysWithoutTTL(ctx context.Context) ([]string, error)
}

// Report counts what one sweep actually removed or repaired.
type Report struct {
	MessagesPurged      int64
	BlobsDeleted        int
	ConversationsPruned int
	CacheEntriesFixed   int
}

// Sweeper enforces the retention window: messages older than the window are
// hard-deleted along with their attachments and blobs, conversations left
// empty are pruned, and cache state that storage no longer backs is repaired.
type Sweeper struct {
	messages message.MessageRepository
	convs    dm.ConversationRepository
	channels channel.ChannelRepository
	presence presence.PresenceRepository
	blobs    blob.Store
	cache    CacheReconciler
	cfg      *config.Config
	logger   logger.Logger
}

func NewSweeper(
	messages message.MessageRepository,
	convs dm.ConversationRepository,
	channels channel.ChannelRepository,
	presenceRepo presence.PresenceRepository,
	blobs blob.Store,
	cacheRec CacheReconciler,
	cfg *config.Config,
	logger logger.Logger,
) *Sweeper {
	return &Sweeper{
		messages: messages,
		convs:    convs,
		channels: channels,
		presence: presenceRepo,
		blobs:    blobs,
		cache:    cacheRec,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *Sweeper) Window() time.Duration {
	return time.Duration(s.cfg.Retention.WindowHours) * time.Hour
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Retention.SweepIntervalMs) * time.Millisecond

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("retention sweep failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("retention sweep failed", "err", err)
			}
		}
	}
}

// Sweep runs the four phases in order. Only the expiry phase escalates its
// error; blob, prune, and cache repair failures are logged and retried on
// the next run.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	var report Report
	cutoff := time.Now().Add(-s.Window())

	blobKeys, purged, err := s.purgeExpired(ctx, cutoff)
	if err != nil {
		return report, err
	}
	report.MessagesPurged = purged

	report.BlobsDeleted = s.deleteBlobs(ctx, blobKeys)
	report.ConversationsPruned = s.pruneEmptyConversations(ctx)
	report.CacheEntriesFixed = s.reconcileCache(ctx)

	s.logger.Info("retention sweep complete",
		"cutoff", cutoff,
		"messages_purged", report.MessagesPurged,
		"blobs_deleted", report.BlobsDeleted,
		"conversations_pruned", report.ConversationsPruned,
		"cache_entries_fixed", report.CacheEntriesFixed,
	)
	return report, nil
}

// purgeExpired collects the blob keys of every expired attachment before the
// rows disappear, then hard-deletes messages past the cutoff, soft-deleted
// ones included.
func (s *Sweeper) purgeExpired(ctx context.Context, cutoff time.Time) ([]string, int64, error) {
	expired, err := s.messages.SelectExpired(ctx, cutoff)
	if err != nil {
		return nil, 0, err
	}

	var keys []string
	ids := make([]uuid.UUID, 0, len(expired))
	for _, msg := range expired {
		ids = append(ids, msg.ID)
		for _, att := range msg.Attachments {
			key, err := blob.KeyFromURL(att.URL, s.cfg.Blob.PathPrefix)
			if err != nil {
				s.logger.Warn("attachment url yields no blob key", "url", att.URL, "err", err)
				continue
			}
			keys = append(keys, key)
		}
	}

	// Delete exactly the rows whose blob keys were extracted; anything
	// committed since the select waits for the next sweep.
	purged, err := s.messages.DeleteExpired(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return keys, purged, nil
}

func (s *Sweeper) deleteBlobs(ctx context.Context, keys []string) int {
	deleted := 0
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("blob delete failed", "key", key, "err", err)
			continue
		}
		deleted++
	}
	return deleted
}

// pruneEmptyConversations drops conversations whose messages have all aged
// out, so the pair gets a fresh conversation next time they talk.
func (s *Sweeper) pruneEmptyConversations(ctx context.Context) int {
	ids, err := s.convs.ListIDs(ctx)
	if err != nil {
		s.logger.Warn("listing conversations failed", "err", err)
		return 0
	}

	pruned := 0
	for _, id := range ids {
		count, err := s.messages.CountByConversation(ctx, id)
		if err != nil {
			s.logger.Warn("counting conversation messages failed", "conversation_id", id, "err", err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := s.convs.Delete(ctx, id); err != nil {
			s.logger.Warn("pruning conversation failed", "conversation_id", id, "err", err)
			continue
		}
		pruned++
	}
	return pruned
}

// reconcileCache removes cache entries storage no longer backs: online users
// with no registered sockets, member sets for dead channels or evicted
// members, and typing keys that lost their TTL.
func (s *Sweeper) reconcileCache(ctx context.Context) int {
	if !s.cache.Enabled() {
		return 0
	}
	fixed := 0
	fixed += s.reconcileOnlineSet(ctx)
	fixed += s.reconcileMemberSets(ctx)
	fixed += s.reconcileTypingKeys(ctx)
	return fixed
}

func (s *Sweeper) reconcileOnlineSet(ctx context.Context) int {
	cached, err := s.cache.OnlineUserIDs(ctx)
	if err != nil {
		s.logger.Warn("reading cached online set failed", "err", err)
		return 0
	}
	if len(cached) == 0 {
		return 0
	}

	online, err := s.presence.ListOnlineUserIDs(ctx)
	if err != nil {
		s.logger.Warn("listing online users failed", "err", err)
		return 0
	}
	backed := make(map[string]struct{}, len(online))
	for _, id := range online {
		backed[id.String()] = struct{}{}
	}

	var stale []string
	for _, id := range cached {
		if _, ok := backed[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0
	}
	if err := s.cache.RemoveOnlineUsers(ctx, stale); err != nil {
		s.logger.Warn("removing stale online users failed", "err", err)
		return 0
	}
	return len(stale)
}

func (s *Sweeper) reconcileMemberSets(ctx context.Context) int {
	sets, err := s.cache.ChannelMemberSets(ctx)
	if err != nil {
		s.logger.Warn("reading cached member sets failed", "err", err)
		return 0
	}

	fixed := 0
	for rawChannelID, cachedMembers := range sets {
		key := cache.ChannelMembersKey(rawChannelID)

		channelID, err := uuid.Parse(rawChannelID)
		if err != nil {
			if err := s.cache.DeleteKey(ctx, key); err == nil {
				fixed++
			}
			continue
		}

		exists, err := s.channels.ChannelExists(ctx, channelID)
		if err != nil {
			s.logger.Warn("channel existence check failed", "channel_id", channelID, "err", err)
			continue
		}
		if !exists {
			if err := s.cache.DeleteKey(ctx, key); err != nil {
				s.logger.Warn("deleting dead member set failed", "key", key, "err", err)
				continue
			}
			fixed++
			continue
		}

		memberIDs, err := s.channels.ListMemberIDs(ctx, channelID)
		if err != nil {
			s.logger.Warn("listing channel members failed", "channel_id", channelID, "err", err)
			continue
		}
		backed := make(map[string]struct{}, len(memberIDs))
		for _, id := range memberIDs {
			backed[id.String()] = struct{}{}
		}

		var stale []string
		for _, member := range cachedMembers {
			if _, ok := backed[member]; !ok {
				stale = append(stale, member)
			}
		}
		if len(stale) == 0 {
			continue
		}
		if err := s.cache.RemoveFromSet(ctx, key, stale...); err != nil {
			s.logger.Warn("removing stale members failed", "key", key, "err", err)
			continue
		}
		fixed += len(stale)
	}
	return fixed
}

// Typing keys normally expire on their own; a key with no TTL survived a
// partial write and has to be removed by hand.
func (s *Sweeper) reconcileTypingKeys(ctx context.Context) int {
	keys, err := s.cache.TypingKeysWithoutTTL(ctx)
	if err != nil {
		s.logger.Warn("scanning typing keys failed", "err", err)
		return 0
	}

	fixed := 0
	for _, key := range keys {
		if err := s.cache.DeleteKey(ctx, key); err != nil {
			s.logger.Warn("deleting orphaned typing key failed", "key", key, "err", err)
			continue
		}
		fixed++
	}
	return fixed
}
