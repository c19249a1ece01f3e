// Package resolve maps loosely typed Bot API method names onto known ones.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a fuzzy match result with score.
type Match struct {
	Name  string
	Score int
}

var (
	ErrEmptyQuery      = errors.New("empty method name")
	ErrEmptyCandidates = errors.New("no methods to match against")
)

// NotFoundError reports a name with no fuzzy match at all.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no method matches %q", e.Query)
}

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous method %q, candidates:", e.Query)
	for _, m := range e.Matches {
		_, _ = fmt.Fprintf(&b, "\n  %s", m.Name)
	}
	return b.String()
}

type lowerSource []string

func (s lowerSource) String(i int) string { return strings.ToLower(s[i]) }
func (s lowerSource) Len() int            { return len(s) }

// Method resolves query to one of candidates.
//
// An exact case-insensitive match wins. Otherwise the best fuzzy match is
// returned, or *AmbiguousError when the top two tie, or *NotFoundError when
// nothing matches.
func Method(query string, candidates []string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}

	for _, c := range candidates {
		if strings.EqualFold(c, query) {
			return c, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowerSource(candidates))
	if len(results) == 0 {
		return "", &NotFoundError{Query: query}
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return "", &AmbiguousError{Query: query, Matches: buildMatches(candidates, results, 5)}
	}
	return candidates[results[0].Index], nil
}

// Canonical returns the candidate equal to query ignoring case.
func Canonical(query string, candidates []string) (string, bool) {
	query = strings.TrimSpace(query)
	for _, c := range candidates {
		if strings.EqualFold(c, query) {
			return c, true
		}
	}
	return "", false
}

// Suggest returns up to limit candidate names ranked best first.
func Suggest(query string, candidates []string, limit int) []string {
	matches := MatchAll(query, candidates, limit)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}

// MatchAll returns up to limit matches ranked by score (best first).
func MatchAll(query string, candidates []string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	results := fuzzy.FindFrom(strings.ToLower(query), lowerSource(candidates))
	return buildMatches(candidates, results, limit)
}

func buildMatches(candidates []string, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{Name: candidates[r.Index], Score: r.Score}
	}
	return matches
}
