package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b := New(testToken)

	assert.Equal(t, testToken, b.Token())
	assert.Equal(t, DefaultAPIURL, b.APIURL().String())
	assert.False(t, b.Endpoint().IsCustom())
	require.NotNil(t, b.Client())
	assert.Equal(t, DefaultTimeout, b.Client().Timeout)
}

func TestWithClient_KeepsClientAsIs(t *testing.T) {
	client := &http.Client{}
	b := WithClient(testToken, client)

	assert.Same(t, client, b.Client())
	assert.Zero(t, b.Client().Timeout)
}

func TestZeroBotUsesFallbackClient(t *testing.T) {
	var b Bot
	assert.NotNil(t, b.Client())
}

func TestSetAPIURL_ValueSemantics(t *testing.T) {
	original := New(testToken)
	custom, err := url.Parse("http://localhost:8081")
	require.NoError(t, err)

	copied := original.SetAPIURL(custom)

	assert.Equal(t, DefaultAPIURL, original.APIURL().String())
	assert.Equal(t, "http://localhost:8081", copied.APIURL().String())
	assert.Same(t, original.Client(), copied.Client(), "copies share one client")
	assert.Equal(t, "https://api.telegram.org/bot"+testToken+"/getMe", original.MethodURL("getMe").String())
	assert.Equal(t, "http://localhost:8081/bot"+testToken+"/getMe", copied.MethodURL("getMe").String())
}

func TestAPIURLReturnsCopy(t *testing.T) {
	custom, _ := url.Parse("http://localhost:8081")
	b := New(testToken).SetAPIURL(custom)

	b.APIURL().Host = "changed"

	assert.Equal(t, "localhost:8081", b.APIURL().Host)
}

func TestWithAPIURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"http", "http://localhost:8081", ""},
		{"https with path", "https://example.com/tg/", ""},
		{"empty", "  ", "empty"},
		{"no scheme", "localhost:8081", "scheme"},
		{"ftp", "ftp://example.com", "scheme"},
		{"no host", "http://", "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(testToken).WithAPIURL(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, b.Endpoint().IsCustom())
		})
	}
}

func TestNewWithProxy(t *testing.T) {
	b, err := NewWithProxy(testToken, "socks5://127.0.0.1:1080")
	require.NoError(t, err)

	transport, ok := b.Client().Transport.(*http.Transport)
	require.True(t, ok)
	req, _ := http.NewRequest(http.MethodPost, b.MethodURL("getMe").String(), nil)
	proxy, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "socks5://127.0.0.1:1080", proxy.String())

	_, err = NewWithProxy(testToken, "gopher://127.0.0.1")
	assert.Error(t, err)
}

func TestBotString_HidesToken(t *testing.T) {
	s := New(testToken).String()

	assert.NotContains(t, s, "ABC-secret")
	assert.Contains(t, s, "123456:")
	assert.Contains(t, s, DefaultAPIURL)
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"123456:ABCDEFGHIJKLMNOP", "123456:********"},
		{"123456:abc", "123456:***"},
		{"short", "*****"},
		{"longtokenwithoutcolon", "long" + strings.Repeat("*", 17)},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.token); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
