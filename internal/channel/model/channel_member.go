package model

import (
	"time"

	"github.com/google/uuid"

	user "parley/internal/user/model"
)

// ChannelMember rows are append-only for public channels: any user whose
// message lands in the channel becomes a member, via a duplicate-safe
// insert. For private channels they are the authority every room action is
// checked against.
type ChannelMember struct {
	ChannelID uuid.UUID `bun:",pk,type:uuid"`
	Channel   *Channel  `bun:"rel:belongs-to,join:channel_id=id"`

	UserID uuid.UUID  `bun:",pk,type:uuid"`
	User   *user.User `bun:"rel:belongs-to,join:user_id=id"`

	Role string `bun:",notnull,default:'member'"` // owner, admin, member

	JoinedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	LastReadAt time.Time `bun:",nullzero"`
}
