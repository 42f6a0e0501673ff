package model

import (
	"time"

	"github.com/google/uuid"
)

// UserPresence is the durable presence record. IsOnline is derived from
// SocketIDs being non-empty; the repository sets both in a single statement
// so they can never diverge.
type UserPresence struct {
	UserID uuid.UUID `bun:",pk,type:uuid"`

	SocketIDs []string `bun:",array"`
	IsOnline  bool     `bun:",notnull,default:false"`

	LastSeenAt time.Time `bun:",nullzero"`
	UpdatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
