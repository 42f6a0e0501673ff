package ws

import "parley/internal/relay"

// Inbound payloads.

type joinChannelData struct {
	ChannelID string `json:"channelId"`
}

type sendMessageData struct {
	ChannelID      string           `json:"channelId"`
	Content        string           `json:"content"`
	MessageType    string           `json:"messageType,omitempty"`
	Attachments    []attachmentData `json:"attachments,omitempty"`
	LinkPreview    string           `json:"linkPreview,omitempty"`
	VideoEmbed     string           `json:"videoEmbed,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
}

type sendDirectMessageData struct {
	RecipientID    string           `json:"recipientId"`
	Content        string           `json:"content"`
	MessageType    string           `json:"messageType,omitempty"`
	Attachments    []attachmentData `json:"attachments,omitempty"`
	LinkPreview    string           `json:"linkPreview,omitempty"`
	VideoEmbed     string           `json:"videoEmbed,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
}

type attachmentData struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type editMessageData struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type deleteMessageData struct {
	MessageID string `json:"messageId"`
}

type typingData struct {
	ChannelID string `json:"channelId"`
}

// Outbound payloads built in this package; relay and presence build their
// own DTOs.

type channelScopedData struct {
	ChannelID string `json:"channelId"`
}

type channelHistoryData struct {
	ChannelID string              `json:"channelId"`
	Messages  []*relay.MessageDTO `json:"messages"`
}

type onlineUsersData struct {
	UserIDs []string `json:"userIds"`
}

type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
