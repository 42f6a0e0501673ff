package model

import (
	"time"

	"github.com/google/uuid"

	user "parley/internal/user/model"
)

// Message targets exactly one of ChannelID / ConversationID, never both,
// never neither. The repository enforces the invariant at write time and a
// CHECK constraint backs it in the schema.
type Message struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	ChannelID      *uuid.UUID `bun:",type:uuid,nullzero"`
	ConversationID *uuid.UUID `bun:",type:uuid,nullzero"`

	SenderID uuid.UUID  `bun:",notnull,type:uuid"`
	Sender   *user.User `bun:"rel:belongs-to,join:sender_id=id"`

	Content     string `bun:",null"`
	MessageType string `bun:",notnull,default:'text'"`
	LinkPreview string `bun:",null"`
	VideoEmbed  string `bun:",null"`

	// Client-supplied; (sender_id, idempotency_key) is unique where present,
	// so a retried send collapses into the original row.
	IdempotencyKey *string `bun:",nullzero"`

	Attachments []*Attachment `bun:"rel:has-many,join:id=message_id"`

	CreatedAt time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
	EditedAt  *time.Time `bun:",nullzero"`
	DeletedAt *time.Time `bun:",soft_delete"`
}

// Deleted reports the soft-delete flag; the timestamp doubles as the flag.
func (m *Message) Deleted() bool { return m.DeletedAt != nil }

type Attachment struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	MessageID uuid.UUID `bun:",notnull,type:uuid"`
	Message   *Message  `bun:"rel:belongs-to,join:message_id=id"`

	URL         string `bun:",notnull"`
	FileName    string `bun:",null"`
	ContentType string `bun:",null"`
	Size        int64  `bun:",default:0"`
}
