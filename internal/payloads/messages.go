package payloads

import (
	"context"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

// SendMessage sends a text message.
type SendMessage struct {
	api.JSON[types.Message] `json:"-"`

	ChatID                   types.ChatID     `json:"chat_id"`
	Text                     string           `json:"text"`
	MessageThreadID          *int             `json:"message_thread_id,omitempty"`
	ParseModeValue           *types.ParseMode `json:"parse_mode,omitempty"`
	DisableWebPagePreview    *bool            `json:"disable_web_page_preview,omitempty"`
	DisableNotification      *bool            `json:"disable_notification,omitempty"`
	ProtectContent           *bool            `json:"protect_content,omitempty"`
	ReplyToMessageID         *int             `json:"reply_to_message_id,omitempty"`
	AllowSendingWithoutReply *bool            `json:"allow_sending_without_reply,omitempty"`
}

func NewSendMessage(chatID types.ChatID, text string) SendMessage {
	return SendMessage{ChatID: chatID, Text: text}
}

func (SendMessage) MethodName() string { return "sendMessage" }

func (p SendMessage) MessageThread(id int) SendMessage {
	p.MessageThreadID = ptr(id)
	return p
}

func (p SendMessage) ParseMode(mode types.ParseMode) SendMessage {
	p.ParseModeValue = ptr(mode)
	return p
}

func (p SendMessage) DisablePreview(v bool) SendMessage {
	p.DisableWebPagePreview = ptr(v)
	return p
}

// Silent sends the message without a notification sound.
func (p SendMessage) Silent(v bool) SendMessage {
	p.DisableNotification = ptr(v)
	return p
}

func (p SendMessage) Protect(v bool) SendMessage {
	p.ProtectContent = ptr(v)
	return p
}

func (p SendMessage) ReplyTo(messageID int) SendMessage {
	p.ReplyToMessageID = ptr(messageID)
	return p
}

func (p SendMessage) AllowWithoutReply(v bool) SendMessage {
	p.AllowSendingWithoutReply = ptr(v)
	return p
}

func (p SendMessage) Send(ctx context.Context, b api.Bot) (types.Message, error) {
	return api.ExecuteJSON[types.Message](ctx, b, p)
}

// ForwardMessage forwards a message of any kind.
type ForwardMessage struct {
	api.JSON[types.Message] `json:"-"`

	ChatID              types.ChatID `json:"chat_id"`
	FromChatID          types.ChatID `json:"from_chat_id"`
	MessageID           int          `json:"message_id"`
	DisableNotification *bool        `json:"disable_notification,omitempty"`
	ProtectContent      *bool        `json:"protect_content,omitempty"`
}

func NewForwardMessage(chatID, fromChatID types.ChatID, messageID int) ForwardMessage {
	return ForwardMessage{ChatID: chatID, FromChatID: fromChatID, MessageID: messageID}
}

func (ForwardMessage) MethodName() string { return "forwardMessage" }

func (p ForwardMessage) Silent(v bool) ForwardMessage {
	p.DisableNotification = ptr(v)
	return p
}

func (p ForwardMessage) Protect(v bool) ForwardMessage {
	p.ProtectContent = ptr(v)
	return p
}

func (p ForwardMessage) Send(ctx context.Context, b api.Bot) (types.Message, error) {
	return api.ExecuteJSON[types.Message](ctx, b, p)
}

// DeleteMessage deletes a message. Messages older than 48 hours can only be
// deleted in some chats.
type DeleteMessage struct {
	api.JSON[bool] `json:"-"`

	ChatID    types.ChatID `json:"chat_id"`
	MessageID int          `json:"message_id"`
}

func NewDeleteMessage(chatID types.ChatID, messageID int) DeleteMessage {
	return DeleteMessage{ChatID: chatID, MessageID: messageID}
}

func (DeleteMessage) MethodName() string { return "deleteMessage" }

func (p DeleteMessage) Send(ctx context.Context, b api.Bot) (bool, error) {
	return api.ExecuteJSON[bool](ctx, b, p)
}
