package relay

import (
	"time"

	"github.com/google/uuid"

	Message "parley/internal/message/model"
)

type SendMessageCommand struct {
	SenderID       uuid.UUID
	SenderUsername string
	ChannelID      uuid.UUID
	Content        string
	MessageType    string
	LinkPreview    string
	VideoEmbed     string
	IdempotencyKey string
	Attachments    []AttachmentInput
}

type SendDirectCommand struct {
	SenderID       uuid.UUID
	SenderUsername string
	RecipientID    uuid.UUID
	Content        string
	MessageType    string
	LinkPreview    string
	VideoEmbed     string
	IdempotencyKey string
	Attachments    []AttachmentInput
}

type AttachmentInput struct {
	URL         string
	FileName    string
	ContentType string
	Size        int64
}

type MessageDTO struct {
	ID             string          `json:"id"`
	ChannelID      string          `json:"channelId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	SenderID       string          `json:"senderId"`
	SenderUsername string          `json:"senderUsername"`
	Content        string          `json:"content"`
	MessageType    string          `json:"messageType"`
	LinkPreview    string          `json:"linkPreview,omitempty"`
	VideoEmbed     string          `json:"videoEmbed,omitempty"`
	Attachments    []AttachmentDTO `json:"attachments,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	EditedAt       *time.Time      `json:"editedAt,omitempty"`
}

type AttachmentDTO struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type MemberEventDTO struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
}

type TypingDTO struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
}

type MessageEditedDTO struct {
	MessageID      string     `json:"messageId"`
	ChannelID      string     `json:"channelId,omitempty"`
	ConversationID string     `json:"conversationId,omitempty"`
	Content        string     `json:"content"`
	EditedAt       *time.Time `json:"editedAt,omitempty"`
}

type MessageDeletedDTO struct {
	MessageID      string `json:"messageId"`
	ChannelID      string `json:"channelId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// NewMessageDTO maps the stored message into its wire shape.
func NewMessageDTO(m *Message.Message, senderUsername string) *MessageDTO {
	dto := &MessageDTO{
		ID:             m.ID.String(),
		SenderID:       m.SenderID.String(),
		SenderUsername: senderUsername,
		Content:        m.Content,
		MessageType:    m.MessageType,
		LinkPreview:    m.LinkPreview,
		VideoEmbed:     m.VideoEmbed,
		CreatedAt:      m.CreatedAt,
		EditedAt:       m.EditedAt,
	}
	if m.ChannelID != nil {
		dto.ChannelID = m.ChannelID.String()
	}
	if m.ConversationID != nil {
		dto.ConversationID = m.ConversationID.String()
	}
	for _, a := range m.Attachments {
		dto.Attachments = append(dto.Attachments, AttachmentDTO{
			ID:          a.ID.String(),
			URL:         a.URL,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return dto
}
