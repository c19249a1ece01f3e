// Package api executes typed Bot API payloads.
//
// A Bot holds the token, the API endpoint and the shared *http.Client. It is a
// small value: copy it freely across goroutines. Copies share one connection
// pool, and SetAPIURL returns a new value instead of changing existing copies.
//
//	bot := api.New(token)
//	me, err := payloads.NewGetMe().Send(ctx, bot)
package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Bot is the identity every request executes through.
type Bot struct {
	token     string
	endpoint  Endpoint
	client    *http.Client
	userAgent string
}

// DefaultUserAgent is sent unless WithUserAgent overrides it.
const DefaultUserAgent = "botwire"

var fallbackClient = NewSoundClient()

// New creates a Bot with the sound default client and the default endpoint.
func New(token string) Bot {
	return WithClient(token, NewSoundClient())
}

// NewWithProxy creates a Bot whose sound client goes through proxyURL.
func NewWithProxy(token, proxyURL string) (Bot, error) {
	client, err := NewSoundClientWithProxy(proxyURL)
	if err != nil {
		return Bot{}, err
	}
	return WithClient(token, client), nil
}

// WithClient creates a Bot using client as is. No defaults are applied, so a
// custom client must carry its own timeouts.
func WithClient(token string, client *http.Client) Bot {
	return Bot{
		token:  token,
		client: client,
	}
}

// SetAPIURL returns a copy of b that sends requests to base, e.g. a self-hosted
// Bot API server. b and its other copies keep their endpoint.
func (b Bot) SetAPIURL(base *url.URL) Bot {
	b.endpoint = CustomEndpoint(base)
	return b
}

// WithUserAgent returns a copy of b sending ua as User-Agent.
func (b Bot) WithUserAgent(ua string) Bot {
	b.userAgent = ua
	return b
}

// WithAPIURL parses raw and returns SetAPIURL of the result. Only absolute
// http(s) URLs are accepted; the URL is otherwise trusted as given.
func (b Bot) WithAPIURL(raw string) (Bot, error) {
	u, err := ParseAPIURL(raw)
	if err != nil {
		return Bot{}, err
	}
	return b.SetAPIURL(u), nil
}

// ParseAPIURL parses an API base URL.
func ParseAPIURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("API URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: missing host", raw)
	}
	return u, nil
}

// Token returns the bot token.
func (b Bot) Token() string {
	return b.token
}

// Client returns the HTTP client shared by all copies of b.
func (b Bot) Client() *http.Client {
	return b.httpClient()
}

// Endpoint returns the configured endpoint.
func (b Bot) Endpoint() Endpoint {
	return b.endpoint
}

// APIURL returns a copy of the API base URL in use.
func (b Bot) APIURL() *url.URL {
	return b.endpoint.Base()
}

// MethodURL returns the full URL of method. It contains the token.
func (b Bot) MethodURL(method string) *url.URL {
	return b.endpoint.Resolve(b.token, method)
}

func (b Bot) String() string {
	return fmt.Sprintf("Bot{token: %s, api_url: %s}", MaskToken(b.token), b.endpoint)
}

func (b Bot) httpClient() *http.Client {
	if b.client != nil {
		return b.client
	}
	return fallbackClient
}

// MaskToken shows only the bot id part of a token ("123456:****").
func MaskToken(token string) string {
	if id, secret, ok := strings.Cut(token, ":"); ok {
		return id + ":" + strings.Repeat("*", min(len(secret), 8))
	}
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
