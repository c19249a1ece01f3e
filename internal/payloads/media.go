package payloads

import (
	"context"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

// SendPhoto sends a photo.
type SendPhoto struct {
	api.Multipart[types.Message] `json:"-"`

	ChatID              types.ChatID     `json:"chat_id"`
	Photo               types.InputFile  `json:"photo"`
	MessageThreadID     *int             `json:"message_thread_id,omitempty"`
	CaptionValue        *string          `json:"caption,omitempty"`
	ParseModeValue      *types.ParseMode `json:"parse_mode,omitempty"`
	HasSpoiler          *bool            `json:"has_spoiler,omitempty"`
	DisableNotification *bool            `json:"disable_notification,omitempty"`
	ProtectContent      *bool            `json:"protect_content,omitempty"`
	ReplyToMessageID    *int             `json:"reply_to_message_id,omitempty"`
}

func NewSendPhoto(chatID types.ChatID, photo types.InputFile) SendPhoto {
	return SendPhoto{ChatID: chatID, Photo: photo}
}

func (SendPhoto) MethodName() string { return "sendPhoto" }

func (p SendPhoto) MessageThread(id int) SendPhoto {
	p.MessageThreadID = ptr(id)
	return p
}

func (p SendPhoto) Caption(caption string) SendPhoto {
	p.CaptionValue = ptr(caption)
	return p
}

func (p SendPhoto) ParseMode(mode types.ParseMode) SendPhoto {
	p.ParseModeValue = ptr(mode)
	return p
}

func (p SendPhoto) Spoiler(v bool) SendPhoto {
	p.HasSpoiler = ptr(v)
	return p
}

func (p SendPhoto) Silent(v bool) SendPhoto {
	p.DisableNotification = ptr(v)
	return p
}

func (p SendPhoto) Protect(v bool) SendPhoto {
	p.ProtectContent = ptr(v)
	return p
}

func (p SendPhoto) ReplyTo(messageID int) SendPhoto {
	p.ReplyToMessageID = ptr(messageID)
	return p
}

func (p SendPhoto) Send(ctx context.Context, b api.Bot) (types.Message, error) {
	return api.ExecuteMultipart[types.Message](ctx, b, p)
}

// SendDocument sends a general file.
type SendDocument struct {
	api.Multipart[types.Message] `json:"-"`

	ChatID                      types.ChatID     `json:"chat_id"`
	Document                    types.InputFile  `json:"document"`
	MessageThreadID             *int             `json:"message_thread_id,omitempty"`
	Thumbnail                   *types.InputFile `json:"thumbnail,omitempty"`
	CaptionValue                *string          `json:"caption,omitempty"`
	ParseModeValue              *types.ParseMode `json:"parse_mode,omitempty"`
	DisableContentTypeDetection *bool            `json:"disable_content_type_detection,omitempty"`
	DisableNotification         *bool            `json:"disable_notification,omitempty"`
	ProtectContent              *bool            `json:"protect_content,omitempty"`
	ReplyToMessageID            *int             `json:"reply_to_message_id,omitempty"`
}

func NewSendDocument(chatID types.ChatID, document types.InputFile) SendDocument {
	return SendDocument{ChatID: chatID, Document: document}
}

func (SendDocument) MethodName() string { return "sendDocument" }

func (p SendDocument) MessageThread(id int) SendDocument {
	p.MessageThreadID = ptr(id)
	return p
}

// Thumb attaches a thumbnail. It must be an upload: the platform ignores
// thumbnails given by file_id or URL.
func (p SendDocument) Thumb(f types.InputFile) SendDocument {
	p.Thumbnail = ptr(f)
	return p
}

func (p SendDocument) Caption(caption string) SendDocument {
	p.CaptionValue = ptr(caption)
	return p
}

func (p SendDocument) ParseMode(mode types.ParseMode) SendDocument {
	p.ParseModeValue = ptr(mode)
	return p
}

func (p SendDocument) DisableDetection(v bool) SendDocument {
	p.DisableContentTypeDetection = ptr(v)
	return p
}

func (p SendDocument) Silent(v bool) SendDocument {
	p.DisableNotification = ptr(v)
	return p
}

func (p SendDocument) Protect(v bool) SendDocument {
	p.ProtectContent = ptr(v)
	return p
}

func (p SendDocument) ReplyTo(messageID int) SendDocument {
	p.ReplyToMessageID = ptr(messageID)
	return p
}

func (p SendDocument) Send(ctx context.Context, b api.Bot) (types.Message, error) {
	return api.ExecuteMultipart[types.Message](ctx, b, p)
}

// SendMediaGroup sends 2-10 photos, videos, documents or audios as an album.
// Uploaded media are sent as separate parts referenced from the media field.
type SendMediaGroup struct {
	api.Multipart[[]types.Message] `json:"-"`

	ChatID              types.ChatID       `json:"chat_id"`
	Media               []types.InputMedia `json:"media"`
	MessageThreadID     *int               `json:"message_thread_id,omitempty"`
	DisableNotification *bool              `json:"disable_notification,omitempty"`
	ProtectContent      *bool              `json:"protect_content,omitempty"`
	ReplyToMessageID    *int               `json:"reply_to_message_id,omitempty"`
}

func NewSendMediaGroup(chatID types.ChatID, media []types.InputMedia) SendMediaGroup {
	return SendMediaGroup{ChatID: chatID, Media: media}
}

func (SendMediaGroup) MethodName() string { return "sendMediaGroup" }

func (p SendMediaGroup) MessageThread(id int) SendMediaGroup {
	p.MessageThreadID = ptr(id)
	return p
}

func (p SendMediaGroup) Silent(v bool) SendMediaGroup {
	p.DisableNotification = ptr(v)
	return p
}

func (p SendMediaGroup) Protect(v bool) SendMediaGroup {
	p.ProtectContent = ptr(v)
	return p
}

func (p SendMediaGroup) ReplyTo(messageID int) SendMediaGroup {
	p.ReplyToMessageID = ptr(messageID)
	return p
}

func (p SendMediaGroup) Send(ctx context.Context, b api.Bot) ([]types.Message, error) {
	return api.ExecuteMultipart[[]types.Message](ctx, b, p)
}
