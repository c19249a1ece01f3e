package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/config"
)

// HandleError renders err for a terminal, with suggestions where the failure
// has a known remedy.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *api.APIError
	var netErr *api.NetworkError
	var invalid *api.InvalidJSONError
	var decodeErr *api.DecodeError
	var formErr *api.FormError

	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "Bot API error %d in %s: %s\n", apiErr.Code, apiErr.Method, apiErr.Description)
		var unknown *unknownMethodError
		if errors.As(err, &unknown) {
			writeSuggestions(&msg, "Did you mean: "+strings.Join(unknown.suggestions, ", "))
			break
		}
		writeSuggestions(&msg, apiSuggestions(apiErr)...)

	case errors.As(err, &netErr):
		if netErr.Timeout() {
			fmt.Fprintf(&msg, "Request %s timed out.\n", netErr.Method)
		} else {
			fmt.Fprintf(&msg, "Request %s failed: %v\n", netErr.Method, netErr.Err)
		}
		suggestions := []string{"Check your network connection and --proxy setting"}
		if netErr.RemoteEffectUnknown() {
			suggestions = append(suggestions, "The request may have reached the server; check before repeating it")
		}
		writeSuggestions(&msg, suggestions...)

	case errors.As(err, &invalid):
		fmt.Fprintf(&msg, "Unexpected response from %s (HTTP %d).\n", invalid.Method, invalid.StatusCode)
		if invalid.Snippet != "" {
			fmt.Fprintf(&msg, "  %s\n", invalid.Snippet)
		}
		writeSuggestions(&msg, "Check that --api-url points at a Bot API server")

	case errors.As(err, &decodeErr):
		fmt.Fprintf(&msg, "Error: %s\n", decodeErr.Error())
		writeSuggestions(&msg, api.ErrDecode.Suggestion())

	case errors.As(err, &formErr):
		fmt.Fprintf(&msg, "Error: %s\n", formErr.Error())
		writeSuggestions(&msg, api.ErrForm.Suggestion())

	case errors.Is(err, config.ErrNotConfigured), errors.Is(err, config.ErrMissingToken):
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
		writeSuggestions(&msg, "Run: botctl auth login --token <token>", "Or export BOT_TOKEN")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func apiSuggestions(e *api.APIError) []string {
	switch e.Kind {
	case api.KindBotBlocked, api.KindBotKicked, api.KindUserDeactivated:
		return []string{"The recipient cannot be messaged by this bot"}
	case api.KindChatNotFound:
		return []string{"Check the chat ID; the bot must be a member of the chat"}
	case api.KindMigrateToChat:
		return []string{fmt.Sprintf("The group is now supergroup %d; use that ID", e.MigrateToChatID)}
	case api.KindTooManyRequests:
		return []string{fmt.Sprintf("Wait %s before retrying", e.RetryAfter)}
	}
	if s := api.ErrorCodeFromAPICode(e.Code).Suggestion(); s != "" {
		return []string{s}
	}
	return nil
}

func writeSuggestions(b *strings.Builder, suggestions ...string) {
	if len(suggestions) == 0 {
		return
	}
	b.WriteString("\nSuggestions:\n")
	for _, s := range suggestions {
		fmt.Fprintf(b, "  - %s\n", s)
	}
}
