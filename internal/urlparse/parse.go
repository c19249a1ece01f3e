// Package urlparse extracts chat and message references from t.me links.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/botwire/botwire/internal/types"
)

// MessageLink is a parsed link to a single message.
type MessageLink struct {
	Chat      types.ChatID
	MessageID int
	ThreadID  int // forum topic, 0 if absent
}

var linkHosts = map[string]bool{
	"t.me":            true,
	"telegram.me":     true,
	"www.t.me":        true,
	"www.telegram.me": true,
}

// Public chats: /{username}/{message_id} or /{username}/{thread_id}/{message_id}.
// Private supergroups and channels: /c/{internal_id}/... with the same tail.
var (
	publicPattern  = regexp.MustCompile(`^/([A-Za-z][A-Za-z0-9_]{3,31})/(\d+)(?:/(\d+))?/?$`)
	privatePattern = regexp.MustCompile(`^/c/(\d+)/(\d+)(?:/(\d+))?/?$`)
)

// IsMessageLink reports whether s looks like a t.me link rather than a chat
// ID or username.
func IsMessageLink(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "https://"), "http://")
	host, _, _ := strings.Cut(s, "/")
	return linkHosts[strings.ToLower(host)]
}

// Parse extracts the chat and message ID from a message link such as
// https://t.me/durov/123 or https://t.me/c/1234567890/55. The scheme may be
// omitted.
func Parse(rawURL string) (*MessageLink, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if !linkHosts[strings.ToLower(parsed.Hostname())] {
		return nil, fmt.Errorf("unsupported host %q: expected t.me", parsed.Host)
	}

	if m := privatePattern.FindStringSubmatch(parsed.Path); m != nil {
		// Bot API ids of supergroups and channels are -100 followed by the internal id.
		chatID, err := strconv.ParseInt("-100"+m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat ID: %w", err)
		}
		return newLink(types.ID(chatID), m[2], m[3])
	}

	if m := publicPattern.FindStringSubmatch(parsed.Path); m != nil {
		return newLink(types.Username(m[1]), m[2], m[3])
	}

	return nil, fmt.Errorf("invalid message link format: expected t.me/{username}/{message_id} or t.me/c/{chat_id}/{message_id}")
}

func newLink(chat types.ChatID, first, second string) (*MessageLink, error) {
	link := &MessageLink{Chat: chat}
	msg := first
	if second != "" {
		thread, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("invalid thread ID: %w", err)
		}
		link.ThreadID = thread
		msg = second
	}
	id, err := strconv.Atoi(msg)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid message ID %q", msg)
	}
	link.MessageID = id
	return link, nil
}

// HasThread returns true if the link points into a forum topic.
func (l *MessageLink) HasThread() bool {
	return l.ThreadID > 0
}
