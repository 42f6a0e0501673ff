package dm

import (
	"context"
	"time"

	"github.com/google/uuid"

	Conversation "parley/internal/dm/model"
)

type ConversationRepository interface {
	// GetOrCreate normalizes the pair and upserts, so concurrent first
	// messages between the same two users resolve to a single conversation.
	GetOrCreate(ctx context.Context, a, b uuid.UUID) (*Conversation.Conversation, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Conversation.Conversation, error)
	SetLastMessage(ctx context.Context, id, messageID uuid.UUID, at time.Time) error

	// Retention surface.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
