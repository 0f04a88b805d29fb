// Package classify decides how a query should be handled: whether it reads
// as a question, whether it asks for a comparison, and what a cleaned-up
// version of it looks like. All checks run on literal pattern tables so the
// decisions stay cheap and predictable.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/browzerlabs/topic-agent/internal/model"
)

// DirectQuestionMarker is prepended by callers that already know the input
// is a question and want detection short-circuited.
const DirectQuestionMarker = "DIRECT QUESTION:"

const maxCleanQueryChars = 150

var questionWords = map[string]bool{
	"who": true, "what": true, "when": true, "where": true, "why": true,
	"how": true, "did": true, "do": true, "does": true, "is": true,
	"are": true, "was": true, "were": true,
}

var comparisonWords = map[string]bool{
	"compare": true, "difference": true, "different": true,
	"similarities": true, "similar": true, "versus": true, "vs": true,
	"vs.": true, "better": true, "worse": true, "stronger": true,
	"weaker": true,
}

var comparisonPhrases = []string{
	"what is the difference",
	"how do they compare",
	"which one is",
	"pros and cons",
	"advantages and disadvantages",
}

var (
	orPattern      = regexp.MustCompile(`\b\w+\s+or\s+\w+\b`)
	entityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:between|among)\s+(.+?)\s+and\s+(.+?)\b`),
		regexp.MustCompile(`(\w+)\s*(?:,|\band\b)\s*(\w+)\s+(?:are|is)`),
	}
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// IsQuestion reports whether the query reads as a question. URL literals are
// never questions regardless of their contents.
func IsQuestion(query string) bool {
	if IsURL(query) {
		return false
	}
	if strings.Contains(query, DirectQuestionMarker) || strings.HasSuffix(strings.TrimSpace(query), "?") {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if questionWords[word] {
			return true
		}
	}
	return false
}

// IsComparison reports whether the query asks to compare two or more things.
func IsComparison(query string) bool {
	lower := strings.ToLower(query)

	for _, word := range strings.Fields(lower) {
		if comparisonWords[word] {
			return true
		}
	}
	for _, phrase := range comparisonPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if orPattern.MatchString(lower) {
		return true
	}
	for _, p := range entityPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// Intent bundles both predicates for a query.
func Intent(query string) model.QueryIntent {
	return model.QueryIntent{
		IsQuestion:   IsQuestion(query),
		IsComparison: IsComparison(query),
	}
}

// IsURL reports whether the query is a bare URL.
func IsURL(query string) bool {
	return strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://")
}

// Clean normalizes a query for searching. A search-engine URL yields its `q`
// parameter; anything else has punctuation stripped, whitespace collapsed,
// and length capped at 150 characters. Clean never fails.
func Clean(query string) string {
	if strings.Contains(query, "?") && (strings.Contains(query, "http://") || strings.Contains(query, "https://")) {
		if u, err := url.Parse(query); err == nil {
			if q := u.Query().Get("q"); q != "" {
				return q
			}
		}
	}

	cleaned := nonWordPattern.ReplaceAllString(query, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) > maxCleanQueryChars {
		cleaned = cleaned[:maxCleanQueryChars]
	}
	return cleaned
}
