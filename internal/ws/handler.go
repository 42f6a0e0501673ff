package ws

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"parley/config"
	"parley/internal/events"
	"parley/internal/relay"
	userModel "parley/internal/user/model"
	"parley/pkg/auth"
	appErrors "parley/pkg/errors"
	"parley/pkg/logger"
)

// PresenceTracker reports connection lifecycle; it broadcasts the online and
// offline transitions itself.
type PresenceTracker interface {
	HandleConnect(ctx context.Context, userID uuid.UUID, username, socketID string) error
	HandleDisconnect(ctx context.Context, userID uuid.UUID, username, socketID string) error
	Snapshot(ctx context.Context) ([]string, error)
}

// UserReader is the slice of the user repository the gateway needs before
// letting a connection upgrade.
type UserReader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*userModel.User, error)
}

// Gateway authenticates upgrade requests and owns the connection lifecycle.
type Gateway struct {
	hub      *Hub
	relay    relay.Usecase
	presence PresenceTracker
	users    UserReader
	cfg      *config.Config
	logger   logger.Logger
	upgrader websocket.Upgrader
}

func NewGateway(hub *Hub, mr relay.Usecase, pt PresenceTracker, users UserReader, cfg *config.Config, log logger.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		relay:    mr,
		presence: pt,
		users:    users,
		cfg:      cfg,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeWS rejects unauthenticated requests before the upgrade, then starts
// the connection's pumps and reports it to the presence tracker.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.VerifyToken(auth.ExtractToken(r), g.cfg.JWT)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	user, err := g.users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeAuthError(w, appErrors.ErrInvalidToken)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "user_id", userID, "err", err)
		return
	}

	client := &Client{
		hub:      g.hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		socketID: uuid.NewString(),
		userID:   user.ID,
		username: user.Username,
		gw:       g,
	}
	g.hub.Register(client)

	go client.writePump()
	go client.readPump()

	if err := g.presence.HandleConnect(context.Background(), client.userID, client.username, client.socketID); err != nil {
		g.logger.Error("presence connect failed", "user_id", client.userID, "err", err)
	}
	if online, err := g.presence.Snapshot(context.Background()); err == nil {
		g.hub.SendToClient(client, events.OnlineUsers, onlineUsersData{UserIDs: online})
	} else {
		g.logger.Warn("presence snapshot failed", "user_id", client.userID, "err", err)
	}
	g.logger.Info("connection established", "user_id", client.userID, "socket_id", client.socketID)
}

// disconnect is the single teardown path, entered from readPump.
func (g *Gateway) disconnect(c *Client) {
	c.conn.Close()
	roomIDs := g.hub.Unregister(c)

	ctx := context.Background()
	channelIDs := make([]uuid.UUID, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		if id, err := uuid.Parse(roomID); err == nil {
			channelIDs = append(channelIDs, id)
		}
	}
	g.relay.DisconnectCleanup(ctx, c.userID, channelIDs)

	if err := g.presence.HandleDisconnect(ctx, c.userID, c.username, c.socketID); err != nil {
		g.logger.Error("presence disconnect failed", "user_id", c.userID, "err", err)
	}
	g.logger.Info("connection closed", "user_id", c.userID, "socket_id", c.socketID)
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errorData{
		Code:    string(appErrors.CodeOf(err)),
		Message: err.Error(),
	})
}

// Per-event handlers. Each returns an error to surface as an error frame on
// the originating connection only.

func (c *Client) handleJoinChannel(ctx context.Context, raw json.RawMessage) error {
	var data joinChannelData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed join-channel payload", err)
	}
	channelID, err := parseChannelID(data.ChannelID)
	if err != nil {
		return err
	}

	if err := c.gw.relay.JoinChannel(ctx, c.userID, channelID); err != nil {
		return err
	}

	// Register in the room before reading history, so a message committed
	// while the history query runs reaches this connection as a live event.
	c.hub.JoinRoom(c, channelID.String())

	history, err := c.gw.relay.ChannelHistory(ctx, channelID)
	if err != nil {
		// The join already succeeded; the client just starts from a blank room.
		c.gw.logger.Warn("history load failed", "channel_id", channelID, "err", err)
		history = nil
	}
	c.hub.SendToClient(c, events.ChannelHistory, channelHistoryData{
		ChannelID: channelID.String(),
		Messages:  history,
	})
	c.hub.BroadcastToRoom(channelID.String(), events.ChannelJoined, relay.MemberEventDTO{
		ChannelID: channelID.String(),
		UserID:    c.userID.String(),
		Username:  c.username,
	})
	return nil
}

func (c *Client) handleLeaveChannel(ctx context.Context, raw json.RawMessage) error {
	var data joinChannelData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed leave-channel payload", err)
	}
	channelID, err := parseChannelID(data.ChannelID)
	if err != nil {
		return err
	}

	c.hub.LeaveRoom(c, channelID.String())
	if err := c.gw.relay.LeaveChannel(ctx, c.userID, channelID); err != nil {
		return err
	}
	c.hub.SendToClient(c, events.ChannelLeft, channelScopedData{ChannelID: channelID.String()})
	c.hub.BroadcastToRoom(channelID.String(), events.ChannelLeft, relay.MemberEventDTO{
		ChannelID: channelID.String(),
		UserID:    c.userID.String(),
		Username:  c.username,
	})
	return nil
}

func (c *Client) handleSendMessage(ctx context.Context, raw json.RawMessage) error {
	var data sendMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed send-message payload", err)
	}
	channelID, err := parseChannelID(data.ChannelID)
	if err != nil {
		return err
	}

	cmd := relay.SendMessageCommand{
		SenderID:       c.userID,
		SenderUsername: c.username,
		ChannelID:      channelID,
		Content:        data.Content,
		MessageType:    data.MessageType,
		LinkPreview:    data.LinkPreview,
		VideoEmbed:     data.VideoEmbed,
		IdempotencyKey: data.IdempotencyKey,
		Attachments:    toAttachmentInputs(data.Attachments),
	}
	dto, existed, err := c.gw.relay.SendChannelMessage(ctx, cmd)
	if err != nil {
		return err
	}
	if existed {
		// Duplicate delivery attempt: hand the original back to the sender
		// without waking the room again.
		c.hub.SendToClient(c, events.NewMessage, dto)
	}
	return nil
}

func (c *Client) handleSendDirectMessage(ctx context.Context, raw json.RawMessage) error {
	var data sendDirectMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed send-direct-message payload", err)
	}
	recipientID, err := uuid.Parse(data.RecipientID)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "invalid recipient id", err)
	}

	cmd := relay.SendDirectCommand{
		SenderID:       c.userID,
		SenderUsername: c.username,
		RecipientID:    recipientID,
		Content:        data.Content,
		MessageType:    data.MessageType,
		LinkPreview:    data.LinkPreview,
		VideoEmbed:     data.VideoEmbed,
		IdempotencyKey: data.IdempotencyKey,
		Attachments:    toAttachmentInputs(data.Attachments),
	}
	dto, existed, err := c.gw.relay.SendDirectMessage(ctx, cmd)
	if err != nil {
		return err
	}
	if existed {
		c.hub.SendToClient(c, events.DirectMessageSent, dto)
	}
	return nil
}

func (c *Client) handleEditMessage(ctx context.Context, raw json.RawMessage) error {
	var data editMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed edit-message payload", err)
	}
	messageID, err := uuid.Parse(data.MessageID)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "invalid message id", err)
	}
	return c.gw.relay.EditMessage(ctx, c.userID, messageID, data.Content)
}

func (c *Client) handleDeleteMessage(ctx context.Context, raw json.RawMessage) error {
	var data deleteMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed delete-message payload", err)
	}
	messageID, err := uuid.Parse(data.MessageID)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "invalid message id", err)
	}
	return c.gw.relay.DeleteMessage(ctx, c.userID, messageID)
}

func (c *Client) handleTyping(ctx context.Context, raw json.RawMessage, start bool) error {
	var data typingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed typing payload", err)
	}
	channelID, err := parseChannelID(data.ChannelID)
	if err != nil {
		return err
	}
	if start {
		return c.gw.relay.TypingStart(ctx, c.userID, c.username, channelID)
	}
	return c.gw.relay.TypingStop(ctx, c.userID, c.username, channelID)
}

func toAttachmentInputs(in []attachmentData) []relay.AttachmentInput {
	if len(in) == 0 {
		return nil
	}
	out := make([]relay.AttachmentInput, len(in))
	for i, a := range in {
		out[i] = relay.AttachmentInput{
			URL:         a.URL,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
		}
	}
	return out
}
