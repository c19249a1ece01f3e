package api

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sound transport defaults. Timeouts are fixed per client because the
// library cannot know which calls are long-polling.
const (
	ConnectTimeout = 5 * time.Second
	MethodTimeout  = 10 * time.Second
	TimeoutMargin  = 2 * time.Second
	KeepAlive      = 30 * time.Second

	// DefaultTimeout is the total per-request timeout of the sound client.
	DefaultTimeout = ConnectTimeout + MethodTimeout + TimeoutMargin
)

// NewSoundClient returns an *http.Client configured to stay healthy over long
// lived connections: bounded connect and total timeouts, keep-alive and TLS 1.2+.
func NewSoundClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: soundTransport(nil),
	}
}

// NewSoundClientWithProxy is NewSoundClient routed through proxyURL
// (http, https or socks5).
func NewSoundClientWithProxy(proxyURL string) (*http.Client, error) {
	proxy, err := parseProxyURL(proxyURL)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: soundTransport(proxy),
	}, nil
}

func soundTransport(proxy *url.URL) *http.Transport {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	dialer := &net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: KeepAlive,
	}
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = ConnectTimeout
	transport.DisableKeepAlives = false
	transport.MaxIdleConnsPerHost = 100

	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	return transport
}

func parseProxyURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("proxy URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		// *url.Error quotes the input, credentials included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("invalid proxy URL %q: unsupported scheme %q", u.Redacted(), u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy URL %q: missing host", u.Redacted())
	}
	return u, nil
}
