package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChatID identifies a chat either by its numeric ID or by the public
// username of a channel or supergroup (in the format @channelusername).
type ChatID struct {
	id       int64
	username string
}

// ID returns a ChatID for a numeric chat identifier.
func ID(id int64) ChatID {
	return ChatID{id: id}
}

// Username returns a ChatID for a public username. A missing @ prefix is added.
func Username(name string) ChatID {
	name = strings.TrimSpace(name)
	if name != "" && !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	return ChatID{username: name}
}

// ParseChatID accepts either a (possibly negative) integer or a username.
func ParseChatID(s string) (ChatID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChatID{}, fmt.Errorf("chat id is required")
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(id), nil
	}
	if strings.ContainsAny(s, " \t/") {
		return ChatID{}, fmt.Errorf("invalid chat id %q: must be an integer or @username", s)
	}
	return Username(s), nil
}

// IsUsername reports whether the chat is addressed by username.
func (c ChatID) IsUsername() bool {
	return c.username != ""
}

// Int64 returns the numeric identifier, or 0 for username-based IDs.
func (c ChatID) Int64() int64 {
	return c.id
}

func (c ChatID) String() string {
	if c.username != "" {
		return c.username
	}
	return strconv.FormatInt(c.id, 10)
}

// FormValue renders the ID as a multipart text value.
func (c ChatID) FormValue() string {
	return c.String()
}

func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.username != "" {
		return json.Marshal(c.username)
	}
	return []byte(strconv.FormatInt(c.id, 10)), nil
}

func (c *ChatID) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*c = ID(id)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("chat id must be a number or a string: %w", err)
	}
	parsed, err := ParseChatID(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
