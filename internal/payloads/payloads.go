// Package payloads defines Bot API operations as typed values.
//
// Every payload is created with New<Method>(required...) and refined with
// value-receiver setters for optional parameters; unset optionals are not
// sent. Send executes the payload through a Bot:
//
//	msg, err := payloads.NewSendMessage(types.ID(42), "hi").
//		ParseMode(types.ParseModeHTML).
//		Send(ctx, bot)
package payloads

import (
	"slices"
	"strings"
)

func ptr[T any](v T) *T {
	return &v
}

// methods lists the operations defined in this package.
var methods = []string{
	"deleteMessage",
	"deleteWebhook",
	"forwardMessage",
	"getFile",
	"getMe",
	"getUserProfilePhotos",
	"getWebhookInfo",
	"sendDocument",
	"sendMediaGroup",
	"sendMessage",
	"sendPhoto",
	"setWebhook",
}

// Methods returns the wire names of the operations defined in this package,
// sorted.
func Methods() []string {
	return slices.Clone(methods)
}

// IsKnownMethod reports whether name is one of Methods, ignoring case.
func IsKnownMethod(name string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}
