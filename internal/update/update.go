// Package update looks up the latest botctl release.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	DefaultReleasesURL = "https://api.github.com/repos/botwire/botwire/releases/latest"
	CheckTimeout       = 5 * time.Second
)

// ErrDevBuild is returned when the running binary carries no release version.
var ErrDevBuild = errors.New("development build has no release version")

type Release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

type Result struct {
	Current   string `json:"current"`
	Latest    string `json:"latest"`
	URL       string `json:"url"`
	Available bool   `json:"update_available"`
}

// Checker queries a GitHub "latest release" endpoint.
type Checker struct {
	URL       string
	Client    *http.Client
	UserAgent string
}

func NewChecker(userAgent string) *Checker {
	return &Checker{URL: DefaultReleasesURL, Client: http.DefaultClient, UserAgent: userAgent}
}

// Latest fetches the newest published release.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("release check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("release check failed: HTTP %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, fmt.Errorf("release check failed: %w", err)
	}
	if release.TagName == "" {
		return Release{}, errors.New("release check failed: empty tag name")
	}
	return release, nil
}

// Check compares current against the latest release.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	if current == "" || current == "dev" {
		return nil, ErrDevBuild
	}
	release, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Current:   current,
		Latest:    strings.TrimPrefix(release.TagName, "v"),
		URL:       release.HTMLURL,
		Available: Newer(release, current),
	}, nil
}

// Newer reports whether release supersedes current. Pre-releases are only
// offered to builds that are themselves pre-releases.
func Newer(release Release, current string) bool {
	cur := normalizeVersion(current)
	latest := normalizeVersion(release.TagName)
	if !semver.IsValid(cur) || !semver.IsValid(latest) {
		return false
	}
	if (release.Prerelease || semver.Prerelease(latest) != "") && semver.Prerelease(cur) == "" {
		return false
	}
	return semver.Compare(latest, cur) > 0
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
