package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Bot API limits checked before a request is sent.
const (
	MaxMessageLength = 4096    // characters in a text message
	MaxCaptionLength = 1024    // characters in a media caption
	MinMediaGroup    = 2       // items in sendMediaGroup
	MaxMediaGroup    = 10      // items in sendMediaGroup
	MaxJSONPayload   = 1048576 // 1MB for raw JSON parameters
	MaxURLLength     = 2048    // Standard browser URL limit
)

// ValidateMessageText validates the text of sendMessage
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	length := utf8.RuneCountInString(text)
	if length > MaxMessageLength {
		return fmt.Errorf("message text exceeds maximum length of %d characters (got %d)", MaxMessageLength, length)
	}

	return nil
}

// ValidateCaption validates a media caption length
func ValidateCaption(caption string) error {
	if caption == "" {
		return nil // Captions are optional
	}

	length := utf8.RuneCountInString(caption)
	if length > MaxCaptionLength {
		return fmt.Errorf("caption exceeds maximum length of %d characters (got %d)", MaxCaptionLength, length)
	}

	return nil
}

// ValidateMediaGroupSize validates the number of items in an album
func ValidateMediaGroupSize(n int) error {
	if n < MinMediaGroup || n > MaxMediaGroup {
		return fmt.Errorf("an album needs %d to %d items (got %d)", MinMediaGroup, MaxMediaGroup, n)
	}
	return nil
}

// ValidateJSONPayload validates JSON payload size
func ValidateJSONPayload(payload string) error {
	if payload == "" {
		return fmt.Errorf("JSON payload cannot be empty")
	}

	// Use byte length for JSON payloads as they're transmitted as UTF-8
	length := len(payload)
	if length > MaxJSONPayload {
		return fmt.Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, length)
	}

	return nil
}

// ValidateMethodName checks that name looks like a Bot API method
// (letters and digits, starting with a letter).
func ValidateMethodName(name string) error {
	if name == "" {
		return fmt.Errorf("method name cannot be empty")
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("invalid method name %q", name)
		}
	}
	return nil
}

// ParsePositiveInt parses a string as a positive integer ID.
// Returns error if the value is not a positive integer or exceeds int32 range.
func ParsePositiveInt(s string, fieldName string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	id64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	if id64 <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", fieldName)
	}
	return int(id64), nil
}
