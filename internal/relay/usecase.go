package relay

import (
	"context"

	"github.com/google/uuid"
)

// Usecase carries every client-originated chat operation from the gateway to
// storage and back out to the rooms.
type Usecase interface {
	JoinChannel(ctx context.Context, userID, channelID uuid.UUID) error
	LeaveChannel(ctx context.Context, userID, channelID uuid.UUID) error

	// ChannelHistory returns the channel's recent messages, oldest first. The
	// gateway replays it to a connection only after the connection is already
	// registered in the room, so nothing lands between replay and live feed.
	ChannelHistory(ctx context.Context, channelID uuid.UUID) ([]*MessageDTO, error)

	// SendChannelMessage and SendDirectMessage return existed = true when the
	// idempotency key matched an earlier message; in that case nothing was
	// broadcast and the returned DTO is the original.
	SendChannelMessage(ctx context.Context, cmd SendMessageCommand) (*MessageDTO, bool, error)
	SendDirectMessage(ctx context.Context, cmd SendDirectCommand) (*MessageDTO, bool, error)

	EditMessage(ctx context.Context, senderID, messageID uuid.UUID, content string) error
	DeleteMessage(ctx context.Context, senderID, messageID uuid.UUID) error

	TypingStart(ctx context.Context, userID uuid.UUID, username string, channelID uuid.UUID) error
	TypingStop(ctx context.Context, userID uuid.UUID, username string, channelID uuid.UUID) error

	DisconnectCleanup(ctx context.Context, userID uuid.UUID, channelIDs []uuid.UUID)
}

// EventPublisher is the outbound half of the hub.
type EventPublisher interface {
	BroadcastToRoom(roomID, eventType string, data any)
	BroadcastToRoomExcept(roomID, excludeUserID, eventType string, data any)
	BroadcastToUser(userID, eventType string, data any)
}

// MemberCache is the slice of the ephemeral cache the relay touches. All
// calls are best effort; a cold or disabled cache never fails an operation.
type MemberCache interface {
	AddChannelMember(ctx context.Context, channelID, userID string) error
	RemoveChannelMember(ctx context.Context, channelID, userID string) error
	MarkTyping(ctx context.Context, channelID, userID string) error
	ClearTyping(ctx context.Context, channelID, userID string) error
}
