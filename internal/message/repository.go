package message

import (
	"context"
	"time"

	"github.com/google/uuid"

	Message "parley/internal/message/model"
)

type MessageRepository interface {
	// Create persists the message and its attachments in one transaction.
	// When the message carries an idempotency key and a row for
	// (sender, key) already exists, the insert is a deterministic no-op and
	// the pre-existing message is returned with existed = true.
	Create(ctx context.Context, msg *Message.Message) (created *Message.Message, existed bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*Message.Message, error)
	ListByChannel(ctx context.Context, channelID uuid.UUID, limit int) ([]*Message.Message, error)

	SetEdited(ctx context.Context, id uuid.UUID, content string, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Retention surface. SelectExpired includes soft-deleted rows and loads
	// attachments; DeleteExpired hard-deletes the given messages and their
	// attachment rows. Deleting by id keeps the delete in lockstep with the
	// select that extracted the blob keys, so a row committed in between is
	// left for the next sweep instead of losing its blobs.
	SelectExpired(ctx context.Context, cutoff time.Time) ([]*Message.Message, error)
	DeleteExpired(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error)
}
