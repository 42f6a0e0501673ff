package channel

import (
	"context"
	"time"

	"github.com/google/uuid"

	Channel "parley/internal/channel/model"
)

type ChannelRepository interface {
	CreateChannel(ctx context.Context, ch *Channel.Channel) error
	GetChannelByID(ctx context.Context, id uuid.UUID) (*Channel.Channel, error)
	ChannelExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListChannelIDs(ctx context.Context) ([]uuid.UUID, error)

	IsMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error)
	// AddMemberIfAbsent uses set semantics at the storage layer: adding an
	// existing member is a no-op and concurrent adds never race.
	AddMemberIfAbsent(ctx context.Context, channelID, userID uuid.UUID) error
	ListMemberIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)

	BumpActivity(ctx context.Context, channelID uuid.UUID, at time.Time) error
}
