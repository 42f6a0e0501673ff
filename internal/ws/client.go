package ws

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"parley/internal/events"
	appErrors "parley/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Client is one authenticated WebSocket connection. A user may hold several
// concurrently (one per device); each gets its own socketID.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	socketID string
	userID   uuid.UUID
	username string
	gw       *Gateway
}

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// readPump pulls frames off the socket and dispatches them one at a time, so
// a single connection's events are handled in the order it sent them.
func (c *Client) readPump() {
	defer c.gw.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gw.logger.Warn("websocket read failed", "user_id", c.userID, "err", err)
			}
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.sendError(appErrors.Wrap(appErrors.CodeInvalidArgument, "malformed event frame", err))
			continue
		}
		c.dispatch(ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(ev inboundEvent) {
	ctx := context.Background()

	var err error
	switch ev.Type {
	case events.JoinChannel:
		err = c.handleJoinChannel(ctx, ev.Data)
	case events.LeaveChannel:
		err = c.handleLeaveChannel(ctx, ev.Data)
	case events.SendMessage:
		err = c.handleSendMessage(ctx, ev.Data)
	case events.SendDirectMessage:
		err = c.handleSendDirectMessage(ctx, ev.Data)
	case events.EditMessage:
		err = c.handleEditMessage(ctx, ev.Data)
	case events.DeleteMessage:
		err = c.handleDeleteMessage(ctx, ev.Data)
	case events.TypingStart:
		err = c.handleTyping(ctx, ev.Data, true)
	case events.TypingStop:
		err = c.handleTyping(ctx, ev.Data, false)
	default:
		err = appErrors.InvalidArg("unknown event type: " + ev.Type)
	}
	if err != nil {
		c.sendError(err)
	}
}

// sendError maps an error to its taxonomy code and queues an error frame on
// this connection only.
func (c *Client) sendError(err error) {
	c.hub.SendToClient(c, events.Error, errorData{
		Code:    string(appErrors.CodeOf(err)),
		Message: err.Error(),
	})
}

func parseChannelID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.Wrap(appErrors.CodeInvalidArgument, "invalid channel id", err)
	}
	return id, nil
}
