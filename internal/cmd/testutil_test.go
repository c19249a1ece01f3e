package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/botwire/botwire/internal/config"
	"github.com/botwire/botwire/internal/iocontext"
)

const testToken = "123456:TEST-token"

// cliResult is the outcome of one in-process botctl run.
type cliResult struct {
	out    string
	errOut string
	err    error
}

// runCLI executes botctl with args and the given stdin, capturing both
// output streams.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	ctx := iocontext.WithIO(context.Background(), &iocontext.IO{
		In:     strings.NewReader(stdin),
		Out:    &out,
		ErrOut: &errOut,
	})
	err := Execute(ctx, args)
	return cliResult{out: out.String(), errOut: errOut.String(), err: err}
}

// withEmptyKeyring gives every keyring open a fresh empty store.
func withEmptyKeyring(t *testing.T) {
	t.Helper()
	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	t.Cleanup(cleanup)
}

// withPersistentKeyring shares one in-memory store across opens.
func withPersistentKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(cleanup)
}

// clearBotEnv isolates a test from the developer's bot environment.
func clearBotEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BOT_TOKEN", "BOT_API_URL", "BOT_PROXY", "BOTCTL_PROFILE", "BOTCTL_ALLOW_PRIVATE"} {
		t.Setenv(key, "")
	}
	t.Setenv("BOTCTL_OUTPUT", "text")
}

// recordedRequest is a Bot API call seen by the fake server.
type recordedRequest struct {
	Method      string
	ContentType string
	Params      map[string]any
	Form        map[string][]string
	Files       map[string]string
}

// fakeBotAPI serves /bot<token>/<method> from a table of raw JSON results.
type fakeBotAPI struct {
	t       *testing.T
	server  *httptest.Server
	mu      sync.Mutex
	results map[string]http.HandlerFunc
	calls   []recordedRequest
}

// setupBotAPI starts a fake Bot API server and points BOT_TOKEN and
// BOT_API_URL at it.
func setupBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	clearBotEnv(t)
	withEmptyKeyring(t)

	f := &fakeBotAPI{t: t, results: make(map[string]http.HandlerFunc)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	t.Setenv("BOT_TOKEN", testToken)
	t.Setenv("BOT_API_URL", f.server.URL)
	return f
}

// OK registers a successful result for method.
func (f *fakeBotAPI) OK(method, result string) *fakeBotAPI {
	return f.On(method, botResponse(http.StatusOK, `{"ok":true,"result":`+result+`}`))
}

// Fail registers an error envelope for method.
func (f *fakeBotAPI) Fail(method string, code int, description string) *fakeBotAPI {
	body, _ := json.Marshal(map[string]any{"ok": false, "error_code": code, "description": description})
	return f.On(method, botResponse(code, string(body)))
}

func (f *fakeBotAPI) On(method string, h http.HandlerFunc) *fakeBotAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = h
	return f
}

func (f *fakeBotAPI) Calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.calls...)
}

// Last returns the most recent call, failing the test when there was none.
func (f *fakeBotAPI) Last() recordedRequest {
	f.t.Helper()
	calls := f.Calls()
	require.NotEmpty(f.t, calls, "no Bot API calls recorded")
	return calls[len(calls)-1]
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	prefix := "/bot" + testToken + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, prefix)

	rec := recordedRequest{Method: method, ContentType: r.Header.Get("Content-Type")}
	switch {
	case strings.HasPrefix(rec.ContentType, "application/json"):
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &rec.Params)
		r.Body = io.NopCloser(bytes.NewReader(body))
	case strings.HasPrefix(rec.ContentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			rec.Form = r.MultipartForm.Value
			rec.Files = make(map[string]string)
			for name, headers := range r.MultipartForm.File {
				rec.Files[name] = headers[0].Filename
			}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, rec)
	h, ok := f.results[method]
	f.mu.Unlock()

	if !ok {
		botResponse(http.StatusNotFound, `{"ok":false,"error_code":404,"description":"Not Found"}`)(w, r)
		return
	}
	h(w, r)
}

func botResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const testMessage = `{"message_id":42,"date":1700000000,"chat":{"id":777,"type":"private","username":"alice"},"text":"hi"}`
