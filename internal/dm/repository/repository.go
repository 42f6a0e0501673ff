package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	Conversation "parley/internal/dm/model"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

type ConversationRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewConversationRepository(db *bun.DB, logger logger.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, a, b uuid.UUID) (*Conversation.Conversation, error) {
	if a == b {
		return nil, appErrors.ErrSelfConversation
	}
	u1, u2 := Conversation.NormalizePair(a, b)

	conv := &Conversation.Conversation{User1ID: u1, User2ID: u2}
	_, err := r.db.NewInsert().
		Model(conv).
		On("CONFLICT (least(user1_id, user2_id), greatest(user1_id, user2_id)) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.GetOrCreate.Insert: ")
	}

	// Either we created it or a concurrent writer did; read back in both
	// cases so the returned row carries the generated id and timestamps.
	existing := new(Conversation.Conversation)
	err = r.db.NewSelect().
		Model(existing).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.GetOrCreate.Scan: ")
	}
	return existing, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Conversation.Conversation, error) {
	conv := new(Conversation.Conversation)
	err := r.db.NewSelect().Model(conv).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "conversationRepo.GetByID.Scan: ")
	}
	return conv, nil
}

func (r *ConversationRepository) SetLastMessage(ctx context.Context, id, messageID uuid.UUID, at time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*Conversation.Conversation)(nil)).
		Set("last_message_id = ?", messageID).
		Set("last_message_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "conversationRepo.SetLastMessage.Update: ")
	}
	return nil
}

func (r *ConversationRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*Conversation.Conversation)(nil)).
		Column("id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.ListIDs.Scan: ")
	}
	return ids, nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Conversation.Conversation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "conversationRepo.Delete: ")
	}
	return nil
}
