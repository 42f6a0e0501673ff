package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	Message "parley/internal/message/model"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

type MessageRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewMessageRepository(db *bun.DB, logger logger.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *Message.Message) (*Message.Message, bool, error) {
	// Structural invariant: exactly one destination.
	if (msg.ChannelID == nil) == (msg.ConversationID == nil) {
		return nil, false, appErrors.ErrInvalidDestination
	}

	var existed bool
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ins := tx.NewInsert().Model(msg)
		if msg.IdempotencyKey != nil {
			// Matches the partial unique index; a retry becomes a no-op
			// instead of a constraint error.
			ins = ins.On("CONFLICT (sender_id, idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING")
		}

		res, err := ins.Returning("*").Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "messageRepo.Create.Insert: ")
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "messageRepo.Create.RowsAffected: ")
		}
		if rows == 0 {
			existed = true
			return nil
		}

		if len(msg.Attachments) > 0 {
			for i := range msg.Attachments {
				msg.Attachments[i].MessageID = msg.ID
			}
			_, err = tx.NewInsert().Model(&msg.Attachments).Returning("*").Exec(ctx)
			if err != nil {
				return errors.Wrap(err, "messageRepo.Create.InsertAttachments: ")
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if existed {
		original, err := r.getBySenderKey(ctx, msg.SenderID, *msg.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		return original, true, nil
	}
	return msg, false, nil
}

func (r *MessageRepository) getBySenderKey(ctx context.Context, senderID uuid.UUID, key string) (*Message.Message, error) {
	msg := new(Message.Message)
	err := r.db.NewSelect().
		Model(msg).
		Relation("Attachments").
		Where("sender_id = ? AND idempotency_key = ?", senderID, key).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.getBySenderKey.Scan: ")
	}
	return msg, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Message.Message, error) {
	msg := new(Message.Message)
	err := r.db.NewSelect().
		Model(msg).
		Relation("Attachments").
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrMessageNotFound
		}
		return nil, errors.Wrap(err, "messageRepo.GetByID.Scan: ")
	}
	return msg, nil
}

// ListByChannel returns the channel's most recent messages in ascending
// creation order, sender summaries included, for replay on join.
func (r *MessageRepository) ListByChannel(ctx context.Context, channelID uuid.UUID, limit int) ([]*Message.Message, error) {
	var msgs []*Message.Message
	err := r.db.NewSelect().
		Model(&msgs).
		Relation("Attachments").
		Relation("Sender").
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListByChannel.Scan: ")
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *MessageRepository) SetEdited(ctx context.Context, id uuid.UUID, content string, at time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*Message.Message)(nil)).
		Set("content = ?", content).
		Set("edited_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "messageRepo.SetEdited.Update: ")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return appErrors.ErrMessageNotFound
	}
	return nil
}

// SoftDelete flags the row; content stays in storage until the retention
// sweeper hard-deletes it.
func (r *MessageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Message.Message)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "messageRepo.SoftDelete: ")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return appErrors.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) SelectExpired(ctx context.Context, cutoff time.Time) ([]*Message.Message, error) {
	var msgs []*Message.Message
	err := r.db.NewSelect().
		Model(&msgs).
		Relation("Attachments").
		Where("created_at < ?", cutoff).
		WhereAllWithDeleted().
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.SelectExpired.Scan: ")
	}
	return msgs, nil
}

func (r *MessageRepository) DeleteExpired(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*Message.Attachment)(nil)).
			Where("message_id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "messageRepo.DeleteExpired.Attachments: ")
		}

		res, err := tx.NewDelete().
			Model((*Message.Message)(nil)).
			Where("id IN (?)", bun.In(ids)).
			WhereAllWithDeleted().
			ForceDelete().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "messageRepo.DeleteExpired.Messages: ")
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *MessageRepository) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Message.Message)(nil)).
		Where("conversation_id = ?", conversationID).
		WhereAllWithDeleted().
		Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.CountByConversation: ")
	}
	return count, nil
}
