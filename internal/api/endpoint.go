package api

import (
	"net/url"
	"strings"
)

// DefaultAPIURL is the public Bot API server.
const DefaultAPIURL = "https://api.telegram.org"

var defaultBase = mustParse(DefaultAPIURL)

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Endpoint selects the API server requests are sent to. The zero value is the
// default server; a custom endpoint shares one immutable *url.URL across
// every copy.
type Endpoint struct {
	custom *url.URL
}

// CustomEndpoint returns an endpoint for base. base is cloned so later changes
// by the caller are not observed.
func CustomEndpoint(base *url.URL) Endpoint {
	if base == nil {
		return Endpoint{}
	}
	clone := *base
	return Endpoint{custom: &clone}
}

// IsCustom reports whether the endpoint overrides the default server.
func (e Endpoint) IsCustom() bool {
	return e.custom != nil
}

// Base returns the API base URL. The returned value is a copy.
func (e Endpoint) Base() *url.URL {
	b := e.base()
	clone := *b
	return &clone
}

func (e Endpoint) base() *url.URL {
	if e.custom != nil {
		return e.custom
	}
	return defaultBase
}

// Resolve builds {base}/bot{token}/{method}.
func (e Endpoint) Resolve(token, method string) *url.URL {
	b := e.base()
	u := *b
	u.Path = strings.TrimSuffix(b.Path, "/") + "/bot" + token + "/" + method
	u.RawPath = ""
	return &u
}

func (e Endpoint) String() string {
	return e.base().String()
}
