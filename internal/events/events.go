package events

// Event is the JSON frame exchanged with clients. Seq is assigned by the hub
// on outbound events and increases monotonically per process, so a client
// can detect reordering inside one room.
type Event struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Inbound event types.
const (
	JoinChannel       = "join-channel"
	LeaveChannel      = "leave-channel"
	SendMessage       = "send-message"
	SendDirectMessage = "send-direct-message"
	EditMessage       = "edit-message"
	DeleteMessage     = "delete-message"
	TypingStart       = "typing-start"
	TypingStop        = "typing-stop"
)

// Outbound event types.
const (
	UserOnline        = "user:online"
	UserOffline       = "user:offline"
	ChannelJoined     = "channel:joined"
	ChannelLeft       = "channel:left"
	ChannelHistory    = "channel-history"
	OnlineUsers       = "online-users"
	NewMessage        = "new-message"
	MessageEdited     = "message-edited"
	MessageDeleted    = "message-deleted"
	UserTyping        = "user-typing"
	UserStoppedTyping = "user-stopped-typing"
	NewDirectMessage  = "new-direct-message"
	DirectMessageSent = "direct-message-sent"
	Error             = "error"
)
