package payloads

import (
	"context"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

// GetMe returns basic information about the bot.
type GetMe struct {
	api.JSON[types.User] `json:"-"`
}

func NewGetMe() GetMe { return GetMe{} }

func (GetMe) MethodName() string { return "getMe" }

func (p GetMe) Send(ctx context.Context, b api.Bot) (types.User, error) {
	return api.ExecuteJSON[types.User](ctx, b, p)
}
