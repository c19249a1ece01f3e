package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

const testToken = "123456:ABC-secret"

type testUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

type testGetMe struct {
	JSON[testUser] `json:"-"`
}

func (testGetMe) MethodName() string { return "getMe" }

type testSendMessage struct {
	JSON[map[string]any] `json:"-"`

	ChatID    int64   `json:"chat_id"`
	Text      string  `json:"text"`
	ParseMode *string `json:"parse_mode,omitempty"`
	Silent    *bool   `json:"disable_notification,omitempty"`
}

func (testSendMessage) MethodName() string { return "sendMessage" }

// newTestBot starts a server answering every request with handler and returns
// a Bot pointed at it.
func newTestBot(t *testing.T, handler http.HandlerFunc) Bot {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	return WithClient(testToken, server.Client()).SetAPIURL(u)
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
