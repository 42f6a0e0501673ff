package usecase

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"parley/internal/cache"
	"parley/internal/channel"
	"parley/internal/dm"
	"parley/internal/events"
	"parley/internal/message"
	Message "parley/internal/message/model"
	"parley/internal/relay"
	"parley/internal/user"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

const (
	maxContentRunes = 5000

	// historyLimit caps the replay sent to a joining connection; the
	// retention window bounds it further.
	historyLimit = 50
)

type RelayUsecase struct {
	channels channel.ChannelRepository
	messages message.MessageRepository
	convs    dm.ConversationRepository
	users    user.UserRepository
	cache    relay.MemberCache
	pub      relay.EventPublisher
	logger   logger.Logger
}

func NewRelayUsecase(
	channels channel.ChannelRepository,
	messages message.MessageRepository,
	convs dm.ConversationRepository,
	users user.UserRepository,
	memberCache relay.MemberCache,
	pub relay.EventPublisher,
	logger logger.Logger,
) *RelayUsecase {
	return &RelayUsecase{
		channels: channels,
		messages: messages,
		convs:    convs,
		users:    users,
		cache:    memberCache,
		pub:      pub,
		logger:   logger,
	}
}

// JoinChannel authorizes the user for the channel's room. Public channels
// admit anyone and record membership on first join; private channels admit
// existing members only.
func (uc *RelayUsecase) JoinChannel(ctx context.Context, userID, channelID uuid.UUID) error {
	ch, err := uc.channels.GetChannelByID(ctx, channelID)
	if err != nil {
		return err
	}

	if ch.IsPrivate {
		member, err := uc.channels.IsMember(ctx, channelID, userID)
		if err != nil {
			uc.logger.Error("membership lookup failed", "channel_id", channelID, "err", err)
			return appErrors.Internal("internal server error")
		}
		if !member {
			return appErrors.ErrNotAMember
		}
	} else if err := uc.channels.AddMemberIfAbsent(ctx, channelID, userID); err != nil {
		uc.logger.Error("recording membership failed", "channel_id", channelID, "err", err)
		return appErrors.Internal("internal server error")
	}

	uc.bestEffort("cache channel member", uc.cache.AddChannelMember(ctx, channelID.String(), userID.String()))
	return nil
}

// ChannelHistory loads the replay window for a joining connection, oldest
// first. The caller registers the connection in the room before asking for
// history, so anything committed after this read arrives as a live event.
func (uc *RelayUsecase) ChannelHistory(ctx context.Context, channelID uuid.UUID) ([]*relay.MessageDTO, error) {
	msgs, err := uc.messages.ListByChannel(ctx, channelID, historyLimit)
	if err != nil {
		return nil, err
	}
	history := make([]*relay.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		name := ""
		if m.Sender != nil {
			name = m.Sender.Username
		}
		history = append(history, relay.NewMessageDTO(m, name))
	}
	return history, nil
}

// LeaveChannel drops the user from the room's ephemeral state. Persistent
// membership survives so a rejoin restores history access.
func (uc *RelayUsecase) LeaveChannel(ctx context.Context, userID, channelID uuid.UUID) error {
	uc.bestEffort("uncache channel member", uc.cache.RemoveChannelMember(ctx, channelID.String(), userID.String()))
	uc.bestEffort("clear typing", uc.cache.ClearTyping(ctx, channelID.String(), userID.String()))
	return nil
}

func (uc *RelayUsecase) SendChannelMessage(ctx context.Context, cmd relay.SendMessageCommand) (*relay.MessageDTO, bool, error) {
	if err := validateContent(cmd.Content, len(cmd.Attachments)); err != nil {
		return nil, false, err
	}

	ch, err := uc.channels.GetChannelByID(ctx, cmd.ChannelID)
	if err != nil {
		return nil, false, err
	}
	if ch.IsPrivate {
		member, err := uc.channels.IsMember(ctx, cmd.ChannelID, cmd.SenderID)
		if err != nil {
			uc.logger.Error("membership lookup failed", "channel_id", cmd.ChannelID, "err", err)
			return nil, false, appErrors.Internal("internal server error")
		}
		if !member {
			return nil, false, appErrors.ErrNotAMember
		}
	} else if err := uc.channels.AddMemberIfAbsent(ctx, cmd.ChannelID, cmd.SenderID); err != nil {
		// Sending to a public channel counts as joining it.
		uc.logger.Error("recording membership failed", "channel_id", cmd.ChannelID, "err", err)
		return nil, false, appErrors.Internal("internal server error")
	}

	channelID := cmd.ChannelID
	msg := &Message.Message{
		ChannelID:      &channelID,
		SenderID:       cmd.SenderID,
		Content:        cmd.Content,
		MessageType:    normalizeType(cmd.MessageType),
		LinkPreview:    cmd.LinkPreview,
		VideoEmbed:     cmd.VideoEmbed,
		IdempotencyKey: optional(cmd.IdempotencyKey),
		Attachments:    toAttachmentModels(cmd.Attachments),
	}

	created, existed, err := uc.messages.Create(ctx, msg)
	if err != nil {
		uc.logger.Error("persisting message failed", "channel_id", cmd.ChannelID, "sender_id", cmd.SenderID, "err", err)
		return nil, false, appErrors.ErrSendFailed(err)
	}

	dto := relay.NewMessageDTO(created, cmd.SenderUsername)
	if existed {
		// Retried send: the original already reached the room.
		return dto, true, nil
	}

	if err := uc.channels.BumpActivity(ctx, cmd.ChannelID, created.CreatedAt); err != nil {
		uc.logger.Warn("bumping channel activity failed", "channel_id", cmd.ChannelID, "err", err)
	}
	uc.pub.BroadcastToRoom(cmd.ChannelID.String(), events.NewMessage, dto)
	return dto, false, nil
}

func (uc *RelayUsecase) SendDirectMessage(ctx context.Context, cmd relay.SendDirectCommand) (*relay.MessageDTO, bool, error) {
	if err := validateContent(cmd.Content, len(cmd.Attachments)); err != nil {
		return nil, false, err
	}

	recipient, err := uc.users.GetUserByID(ctx, cmd.RecipientID)
	if err != nil {
		return nil, false, err
	}

	conv, err := uc.convs.GetOrCreate(ctx, cmd.SenderID, recipient.ID)
	if err != nil {
		return nil, false, err
	}

	conversationID := conv.ID
	msg := &Message.Message{
		ConversationID: &conversationID,
		SenderID:       cmd.SenderID,
		Content:        cmd.Content,
		MessageType:    normalizeType(cmd.MessageType),
		LinkPreview:    cmd.LinkPreview,
		VideoEmbed:     cmd.VideoEmbed,
		IdempotencyKey: optional(cmd.IdempotencyKey),
		Attachments:    toAttachmentModels(cmd.Attachments),
	}

	created, existed, err := uc.messages.Create(ctx, msg)
	if err != nil {
		uc.logger.Error("persisting direct message failed", "conversation_id", conv.ID, "sender_id", cmd.SenderID, "err", err)
		return nil, false, appErrors.ErrSendFailed(err)
	}

	dto := relay.NewMessageDTO(created, cmd.SenderUsername)
	if existed {
		return dto, true, nil
	}

	if err := uc.convs.SetLastMessage(ctx, conv.ID, created.ID, created.CreatedAt); err != nil {
		uc.logger.Warn("updating conversation activity failed", "conversation_id", conv.ID, "err", err)
	}
	uc.pub.BroadcastToUser(recipient.ID.String(), events.NewDirectMessage, dto)
	uc.pub.BroadcastToUser(cmd.SenderID.String(), events.DirectMessageSent, dto)
	return dto, false, nil
}

func (uc *RelayUsecase) EditMessage(ctx context.Context, senderID, messageID uuid.UUID, content string) error {
	if err := validateContent(content, 0); err != nil {
		return err
	}

	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != senderID {
		return appErrors.ErrNotMessageSender
	}

	now := time.Now()
	if err := uc.messages.SetEdited(ctx, messageID, content, now); err != nil {
		return err
	}

	uc.broadcastToDestination(ctx, msg, events.MessageEdited, relay.MessageEditedDTO{
		MessageID:      messageID.String(),
		ChannelID:      uuidString(msg.ChannelID),
		ConversationID: uuidString(msg.ConversationID),
		Content:        content,
		EditedAt:       &now,
	})
	return nil
}

// DeleteMessage soft-deletes, which hides the message from clients while the
// row waits for the retention sweep.
func (uc *RelayUsecase) DeleteMessage(ctx context.Context, senderID, messageID uuid.UUID) error {
	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != senderID {
		return appErrors.ErrNotMessageSender
	}

	if err := uc.messages.SoftDelete(ctx, messageID); err != nil {
		return err
	}

	uc.broadcastToDestination(ctx, msg, events.MessageDeleted, relay.MessageDeletedDTO{
		MessageID:      messageID.String(),
		ChannelID:      uuidString(msg.ChannelID),
		ConversationID: uuidString(msg.ConversationID),
	})
	return nil
}

func (uc *RelayUsecase) TypingStart(ctx context.Context, userID uuid.UUID, username string, channelID uuid.UUID) error {
	uc.bestEffort("mark typing", uc.cache.MarkTyping(ctx, channelID.String(), userID.String()))
	uc.pub.BroadcastToRoomExcept(channelID.String(), userID.String(), events.UserTyping, relay.TypingDTO{
		ChannelID: channelID.String(),
		UserID:    userID.String(),
		Username:  username,
	})
	return nil
}

func (uc *RelayUsecase) TypingStop(ctx context.Context, userID uuid.UUID, username string, channelID uuid.UUID) error {
	uc.bestEffort("clear typing", uc.cache.ClearTyping(ctx, channelID.String(), userID.String()))
	uc.pub.BroadcastToRoomExcept(channelID.String(), userID.String(), events.UserStoppedTyping, relay.TypingDTO{
		ChannelID: channelID.String(),
		UserID:    userID.String(),
		Username:  username,
	})
	return nil
}

// DisconnectCleanup clears the user's typing state in every room the dropped
// connection was in, so the indicator does not linger for the TTL.
func (uc *RelayUsecase) DisconnectCleanup(ctx context.Context, userID uuid.UUID, channelIDs []uuid.UUID) {
	for _, channelID := range channelIDs {
		uc.bestEffort("clear typing", uc.cache.ClearTyping(ctx, channelID.String(), userID.String()))
		uc.pub.BroadcastToRoomExcept(channelID.String(), userID.String(), events.UserStoppedTyping, relay.TypingDTO{
			ChannelID: channelID.String(),
			UserID:    userID.String(),
		})
	}
}

// broadcastToDestination routes an event to the message's channel room, or
// for a direct message to both participants' personal rooms.
func (uc *RelayUsecase) broadcastToDestination(ctx context.Context, msg *Message.Message, eventType string, data any) {
	if msg.ChannelID != nil {
		uc.pub.BroadcastToRoom(msg.ChannelID.String(), eventType, data)
		return
	}
	conv, err := uc.convs.GetByID(ctx, *msg.ConversationID)
	if err != nil {
		uc.logger.Error("conversation lookup for broadcast failed", "conversation_id", msg.ConversationID, "err", err)
		return
	}
	uc.pub.BroadcastToUser(conv.User1ID.String(), eventType, data)
	uc.pub.BroadcastToUser(conv.User2ID.String(), eventType, data)
}

func (uc *RelayUsecase) bestEffort(op string, err error) {
	if err != nil && !errors.Is(err, cache.ErrDisabled) {
		uc.logger.Warn("cache operation failed", "op", op, "err", err)
	}
}

func validateContent(content string, attachments int) error {
	if content == "" && attachments == 0 {
		return appErrors.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxContentRunes {
		return appErrors.ErrContentTooLong
	}
	return nil
}

func normalizeType(t string) string {
	if t == "" {
		return "text"
	}
	return t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func toAttachmentModels(in []relay.AttachmentInput) []*Message.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]*Message.Attachment, len(in))
	for i, a := range in {
		out[i] = &Message.Attachment{
			URL:         a.URL,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
		}
	}
	return out
}
