package payloads

import (
	"context"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

// SetWebhook registers the URL updates are delivered to.
type SetWebhook struct {
	api.JSON[bool] `json:"-"`

	URL                 string   `json:"url"`
	IPAddress           *string  `json:"ip_address,omitempty"`
	MaxConnectionsValue *int     `json:"max_connections,omitempty"`
	AllowedUpdatesValue []string `json:"allowed_updates,omitempty"`
	DropPendingUpdates  *bool    `json:"drop_pending_updates,omitempty"`
	SecretTokenValue    *string  `json:"secret_token,omitempty"`
}

func NewSetWebhook(url string) SetWebhook {
	return SetWebhook{URL: url}
}

func (SetWebhook) MethodName() string { return "setWebhook" }

func (p SetWebhook) IP(addr string) SetWebhook {
	p.IPAddress = ptr(addr)
	return p
}

// MaxConnections limits simultaneous HTTPS connections for update delivery (1-100).
func (p SetWebhook) MaxConnections(n int) SetWebhook {
	p.MaxConnectionsValue = ptr(n)
	return p
}

func (p SetWebhook) AllowedUpdates(kinds ...string) SetWebhook {
	p.AllowedUpdatesValue = kinds
	return p
}

func (p SetWebhook) DropPending(v bool) SetWebhook {
	p.DropPendingUpdates = ptr(v)
	return p
}

// SecretToken is echoed in the X-Telegram-Bot-Api-Secret-Token header of
// every delivery.
func (p SetWebhook) SecretToken(token string) SetWebhook {
	p.SecretTokenValue = ptr(token)
	return p
}

func (p SetWebhook) Send(ctx context.Context, b api.Bot) (bool, error) {
	return api.ExecuteJSON[bool](ctx, b, p)
}

// DeleteWebhook switches the bot back to getUpdates.
type DeleteWebhook struct {
	api.JSON[bool] `json:"-"`

	DropPendingUpdates *bool `json:"drop_pending_updates,omitempty"`
}

func NewDeleteWebhook() DeleteWebhook { return DeleteWebhook{} }

func (DeleteWebhook) MethodName() string { return "deleteWebhook" }

func (p DeleteWebhook) DropPending(v bool) DeleteWebhook {
	p.DropPendingUpdates = ptr(v)
	return p
}

func (p DeleteWebhook) Send(ctx context.Context, b api.Bot) (bool, error) {
	return api.ExecuteJSON[bool](ctx, b, p)
}

// GetWebhookInfo reports the current webhook status.
type GetWebhookInfo struct {
	api.JSON[types.WebhookInfo] `json:"-"`
}

func NewGetWebhookInfo() GetWebhookInfo { return GetWebhookInfo{} }

func (GetWebhookInfo) MethodName() string { return "getWebhookInfo" }

func (p GetWebhookInfo) Send(ctx context.Context, b api.Bot) (types.WebhookInfo, error) {
	return api.ExecuteJSON[types.WebhookInfo](ctx, b, p)
}
