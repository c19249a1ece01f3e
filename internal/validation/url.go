// Package validation checks user-supplied URLs and message limits before
// they reach the Bot API.
//
// API base URLs may point at a self-hosted Bot API server, often on
// localhost; plain http is accepted only for such local hosts. Webhook URLs
// must be reachable by the platform: https, a supported port, and a public
// address. Cloud metadata endpoints are always rejected.
//
// Private ranges can be allowed for webhooks via BOTCTL_ALLOW_PRIVATE
// (any strconv.ParseBool value) or SetAllowPrivate(true).
package validation

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("BOTCTL_ALLOW_PRIVATE")))
	allowPrivate.Store(v)
}

// SetAllowPrivate enables or disables private and localhost webhook URLs.
// Cloud metadata endpoints remain blocked.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// reservedPrefixes are ranges the platform cannot deliver to, beyond what
// netip classifies as loopback, private or link-local.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),    // IETF protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // documentation
	netip.MustParsePrefix("198.18.0.0/15"),   // benchmarking
	netip.MustParsePrefix("198.51.100.0/24"), // documentation
	netip.MustParsePrefix("203.0.113.0/24"),  // documentation
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("100::/64"),      // discard
	netip.MustParsePrefix("2001::/32"),     // teredo
	netip.MustParsePrefix("2001:10::/28"),  // orchid
	netip.MustParsePrefix("2001:db8::/32"), // documentation
}

var (
	localHostnames    = map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true, "0.0.0.0": true, "::": true}
	metadataHostnames = map[string]bool{
		"169.254.169.254":          true, // AWS, Azure, GCP, DigitalOcean
		"fd00:ec2::254":            true, // AWS IPv6
		"metadata.google.internal": true,
		"metadata":                 true,
		"instance-data":            true,
	}
	metadataAddr = netip.MustParseAddr("169.254.169.254")
)

func isLocalhost(hostname string) bool {
	h := strings.ToLower(hostname)
	return localHostnames[h] || strings.HasSuffix(h, ".localhost")
}

func isCloudMetadata(hostname string) bool {
	h := strings.ToLower(hostname)
	return metadataHostnames[h] || strings.HasSuffix(h, ".metadata.google.internal")
}

// isPrivateIP reports whether addr is outside the public unicast space.
func isPrivateIP(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsMulticast() || addr.IsUnspecified() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// checkAddr rejects addresses a webhook must not point at. With private
// addresses allowed, link-local and metadata stay blocked.
func checkAddr(addr netip.Addr) error {
	addr = addr.Unmap()
	switch {
	case addr == metadataAddr:
		return fmt.Errorf("cloud metadata IP address is not allowed")
	case addr.IsUnspecified():
		return fmt.Errorf("unspecified IP addresses are not allowed")
	case addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP addresses are not allowed")
	case allowPrivate.Load():
		return nil
	case addr.IsLoopback():
		return fmt.Errorf("loopback IP addresses are not allowed")
	case isPrivateIP(addr):
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

// lookupHost resolves webhook hostnames. Tests replace it.
var lookupHost = func(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

const lookupTimeout = 5 * time.Second

// checkResolved rejects a hostname when any of its addresses is forbidden.
// A name that does not resolve is accepted: the webhook may be registered
// before DNS is live, and the platform reports delivery errors itself.
func checkResolved(hostname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	addrs, err := lookupHost(ctx, hostname)
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if err := checkAddr(addr); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", hostname, addr, err)
		}
	}
	return nil
}

func parseHTTPURL(rawURL string) (*url.URL, string, error) {
	switch {
	case rawURL == "":
		return nil, "", fmt.Errorf("URL cannot be empty")
	case len(rawURL) > MaxURLLength:
		return nil, "", fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, "", fmt.Errorf("URL must contain a hostname")
	}
	return u, host, nil
}

// ValidateAPIURL validates a Bot API server base URL. Hosts on loopback or
// private addresses may use http; public hosts must use https since the bot
// token travels in the request path.
func ValidateAPIURL(rawURL string) error {
	u, host, err := parseHTTPURL(rawURL)
	if err != nil {
		return err
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if u.Scheme == "http" && !isLocalServer(host) {
		return fmt.Errorf("API URL %q must use https unless the server is local", u.Redacted())
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("API URL must not contain a query or fragment")
	}
	return nil
}

func isLocalServer(host string) bool {
	if isLocalhost(host) {
		return true
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && (addr.IsLoopback() || addr.IsPrivate())
}

// webhookPorts are the ports the platform delivers webhooks to.
var webhookPorts = map[string]bool{"443": true, "80": true, "88": true, "8443": true}

// ValidateWebhookURL validates a URL passed to setWebhook. It must use https
// on port 443, 80, 88 or 8443 and resolve to a public address; private
// addresses pass only when allowed, and metadata endpoints never do.
//
// An empty URL is rejected; use deleteWebhook to remove a webhook.
func ValidateWebhookURL(rawURL string) error {
	u, host, err := parseHTTPURL(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https")
	}
	if port := u.Port(); port != "" && !webhookPorts[port] {
		return fmt.Errorf("webhook port %s is not supported: use 443, 80, 88 or 8443", port)
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if !allowPrivate.Load() && isLocalhost(host) {
		return fmt.Errorf("localhost URLs cannot receive webhooks")
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr)
	}
	return checkResolved(host)
}
