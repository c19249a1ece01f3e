package cmd

import (
	"strings"

	"github.com/botwire/botwire/internal/resolve"
)

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// levenshtein computes the Levenshtein edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= la; i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[lb]
}

// closest returns the candidate nearest to unknown, ignoring case, or "" when
// none is within maxSuggestDistance.
func closest(unknown string, candidates []string, normalize func(string) string) string {
	unknown = strings.ToLower(normalize(unknown))
	if unknown == "" {
		return ""
	}
	bestDist := maxSuggestDistance + 1
	bestMatch := ""
	for _, c := range candidates {
		if d := levenshtein(unknown, strings.ToLower(normalize(c))); d < bestDist {
			bestDist = d
			bestMatch = c
		}
	}
	return bestMatch
}

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, func(s string) string { return s })
}

// suggestFlag finds the closest flag name, comparing without leading dashes.
func suggestFlag(unknown string, flagNames []string) string {
	return closest(unknown, flagNames, func(s string) string { return strings.TrimLeft(s, "-") })
}

// suggestMethods proposes known Bot API methods for a mistyped name. Fuzzy
// subsequence matches come first; a near edit-distance match fills in for
// transpositions the fuzzy matcher cannot see.
func suggestMethods(unknown string, methods []string) []string {
	suggestions := resolve.Suggest(unknown, methods, 3)
	if near := suggestCommand(unknown, methods); near != "" {
		for _, s := range suggestions {
			if s == near {
				return suggestions
			}
		}
		suggestions = append([]string{near}, suggestions...)
	}
	return suggestions
}
