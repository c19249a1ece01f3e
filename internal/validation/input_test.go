package validation

import (
	"strings"
	"testing"
)

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{"empty is rejected", "", true},
		{"whitespace is rejected", "  \n", true},
		{"short text", "hello", false},
		{"at max length", strings.Repeat("a", MaxMessageLength), false},
		{"over max length", strings.Repeat("a", MaxMessageLength+1), true},
		{"multibyte at max length", strings.Repeat("ж", MaxMessageLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageText(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateMessageText() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateCaption(t *testing.T) {
	if err := ValidateCaption(""); err != nil {
		t.Errorf("empty caption should be allowed: %v", err)
	}
	if err := ValidateCaption(strings.Repeat("a", MaxCaptionLength)); err != nil {
		t.Errorf("caption at max length should be allowed: %v", err)
	}
	err := ValidateCaption(strings.Repeat("a", MaxCaptionLength+1))
	if err == nil || !strings.Contains(err.Error(), "1024") {
		t.Errorf("expected length error, got %v", err)
	}
}

func TestValidateMediaGroupSize(t *testing.T) {
	for n, wantError := range map[int]bool{0: true, 1: true, 2: false, 10: false, 11: true} {
		if err := ValidateMediaGroupSize(n); (err != nil) != wantError {
			t.Errorf("ValidateMediaGroupSize(%d) error = %v, wantError %v", n, err, wantError)
		}
	}
}

func TestValidateJSONPayload(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{"empty payload is rejected", "", true},
		{"small payload", `{"chat_id":1}`, false},
		{"at max size", strings.Repeat("a", MaxJSONPayload), false},
		{"over max size", strings.Repeat("a", MaxJSONPayload+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONPayload(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateJSONPayload() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateMethodName(t *testing.T) {
	tests := []struct {
		input     string
		wantError bool
	}{
		{"getMe", false},
		{"sendMessage", false},
		{"setMyCommands2", false},
		{"", true},
		{"2fa", true},
		{"send-message", true},
		{"../getMe", true},
		{"getMe?x=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateMethodName(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateMethodName(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		fieldName string
		want      int
		wantError bool
		errMsg    string
	}{
		{name: "valid positive integer", input: "123", fieldName: "message ID", want: 123},
		{name: "max int32 value", input: "2147483647", fieldName: "ID", want: 2147483647},
		{name: "zero is not allowed", input: "0", fieldName: "message ID", wantError: true, errMsg: "must be a positive integer"},
		{name: "negative integer is not allowed", input: "-1", fieldName: "message ID", wantError: true, errMsg: "must be a positive integer"},
		{name: "exceeds int32 max", input: "2147483648", fieldName: "ID", wantError: true, errMsg: "invalid ID"},
		{name: "not a number", input: "abc", fieldName: "message ID", wantError: true, errMsg: "invalid message ID"},
		{name: "empty string", input: "", fieldName: "ID", wantError: true, errMsg: "invalid ID"},
		{name: "number with spaces", input: " 123 ", fieldName: "ID", want: 123},
		{name: "number with leading hash", input: "#123", fieldName: "ID", want: 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositiveInt(tt.input, tt.fieldName)
			if (err != nil) != tt.wantError {
				t.Errorf("ParsePositiveInt() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if !tt.wantError && got != tt.want {
				t.Errorf("ParsePositiveInt() = %v, want %v", got, tt.want)
			}
			if tt.wantError && tt.errMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParsePositiveInt() error = %v, want error containing %q", err, tt.errMsg)
				}
			}
		})
	}
}

func BenchmarkValidateMessageText(b *testing.B) {
	text := strings.Repeat("a", MaxMessageLength)
	for i := 0; i < b.N; i++ {
		_ = ValidateMessageText(text)
	}
}
