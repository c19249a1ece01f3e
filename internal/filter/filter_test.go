package filter

import (
	"bytes"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"username": "echo_bot"}
	result, err := Apply(data, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["username"] != "echo_bot" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]any{"username": "echo_bot", "id": 42}
	result, err := Apply(data, ".username")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "echo_bot" {
		t.Errorf("expected 'echo_bot', got %v", result)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := []any{
		map[string]any{"message_id": 1.0},
		map[string]any{"message_id": 2.0},
	}
	result, err := Apply(data, ".[].message_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := result.([]any)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected two results, got %#v", result)
	}
	if ids[1] != 2.0 {
		t.Errorf("expected second id 2, got %v", ids[1])
	}
}

func TestApply_SelectFromArray(t *testing.T) {
	data := []any{
		map[string]any{"type": "private", "id": 1.0},
		map[string]any{"type": "supergroup", "id": -100.0},
	}
	result, err := Apply(data, `.[] | select(.type == "supergroup")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]any)
	if m["id"] != -100.0 {
		t.Errorf("expected id -100, got %v", m["id"])
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_RuntimeError(t *testing.T) {
	if _, err := Apply("text", ".field"); err == nil {
		t.Error("expected error indexing a string")
	}
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	data := []any{
		map[string]any{"caption": nil},
		map[string]any{"caption": "sunset"},
	}
	result, err := Apply(data, `.[] | select(.caption \!= null)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["caption"] != "sunset" {
		t.Errorf("expected caption 'sunset', got %v", result)
	}
}

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`.a \!= null`, `.a != null`},
		{`  .a  `, `.a`},
		{`.a != null`, `.a != null`},
		{`.ok`, `.ok`},
	}
	for _, tt := range tests {
		if got := NormalizeExpression(tt.in); got != tt.want {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyFromJSON(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`{"ok":true,"result":{"id":7}}`), ".result.id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 7.0 {
		t.Errorf("expected 7, got %v", result)
	}
}

func TestApplyFromJSON_InvalidJSON(t *testing.T) {
	if _, err := ApplyFromJSON([]byte(`{invalid}`), "."); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplyToJSON_ValidJSON(t *testing.T) {
	result, err := ApplyToJSON([]byte(`{"username":"echo_bot","id":42}`), ".username")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(result, []byte(`"echo_bot"`)) {
		t.Errorf("unexpected output %s", result)
	}
}

func TestApplyToJSON_EmptyExpression(t *testing.T) {
	in := []byte(`{"username":"echo_bot"}`)
	result, err := ApplyToJSON(in, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(in, result) {
		t.Error("empty expression should return original JSON unchanged")
	}
}
