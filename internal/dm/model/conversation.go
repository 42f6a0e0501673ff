package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation holds exactly two distinct participants. The pair is
// order-normalized (User1ID < User2ID lexically) before any write, and the
// schema carries a unique index on (least(user1_id,user2_id),
// greatest(user1_id,user2_id)) so concurrent first messages between the same
// pair resolve to one row.
type Conversation struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	User1ID uuid.UUID `bun:",notnull,type:uuid"`
	User2ID uuid.UUID `bun:",notnull,type:uuid"`

	LastMessageID *uuid.UUID `bun:",type:uuid,nullzero"`
	LastMessageAt time.Time  `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// NormalizePair orders two participant ids for stable lookup.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
