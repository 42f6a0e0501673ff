package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	Channel "parley/internal/channel/model"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

type ChannelRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewChannelRepository(db *bun.DB, logger logger.Logger) *ChannelRepository {
	return &ChannelRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *ChannelRepository) CreateChannel(ctx context.Context, ch *Channel.Channel) error {
	_, err := r.db.NewInsert().Model(ch).Returning("*").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.CreateChannel.Insert: ")
	}
	return nil
}

func (r *ChannelRepository) GetChannelByID(ctx context.Context, id uuid.UUID) (*Channel.Channel, error) {
	ch := new(Channel.Channel)
	err := r.db.NewSelect().Model(ch).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "channelRepo.GetChannelByID.Scan: ")
	}
	return ch, nil
}

func (r *ChannelRepository) ChannelExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Channel.Channel)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "channelRepo.ChannelExists: ")
	}
	return exists, nil
}

func (r *ChannelRepository) ListChannelIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*Channel.Channel)(nil)).
		Column("id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListChannelIDs.Scan: ")
	}
	return ids, nil
}

func (r *ChannelRepository) IsMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Channel.ChannelMember)(nil)).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "channelRepo.IsMember: ")
	}
	return exists, nil
}

// AddMemberIfAbsent relies on the composite primary key: a duplicate insert
// turns into a no-op instead of a constraint error, so concurrent sends from
// the same user cannot produce duplicate rows or lose the update.
func (r *ChannelRepository) AddMemberIfAbsent(ctx context.Context, channelID, userID uuid.UUID) error {
	member := &Channel.ChannelMember{
		ChannelID: channelID,
		UserID:    userID,
	}
	_, err := r.db.NewInsert().
		Model(member).
		On("CONFLICT (channel_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.AddMemberIfAbsent.Insert: ")
	}
	return nil
}

func (r *ChannelRepository) ListMemberIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*Channel.ChannelMember)(nil)).
		Column("user_id").
		Where("channel_id = ?", channelID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListMemberIDs.Scan: ")
	}
	return ids, nil
}

func (r *ChannelRepository) BumpActivity(ctx context.Context, channelID uuid.UUID, at time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*Channel.Channel)(nil)).
		Set("last_message_at = ?", at).
		Set("message_count = message_count + 1").
		Where("id = ?", channelID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.BumpActivity.Update: ")
	}
	return nil
}
