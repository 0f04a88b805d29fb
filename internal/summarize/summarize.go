// Package summarize condenses page text by extracting its highest-signal
// sentences. Scoring is plain word-frequency over stopword-filtered tokens,
// which is cheap and good enough for evidence that an LLM will re-read.
package summarize

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultSentences is the summary length used when the caller has no opinion.
const DefaultSentences = 5

const shortTextChars = 100

// Extract returns an extractive summary of text made of at most n sentences,
// re-joined in their original order. Texts under 100 characters or with no
// more than n sentences come back unchanged. Extract never fails; when the
// text does not split into sentences at all it falls back to the first 500
// characters.
func Extract(text string, n int) string {
	if n <= 0 {
		n = DefaultSentences
	}
	if len(text) < shortTextChars {
		return text
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		if len(text) > 500 {
			return text[:500] + "..."
		}
		return text
	}
	if len(sentences) <= n {
		return text
	}

	freq := map[string]int{}
	for _, w := range tokenize(text) {
		freq[w]++
	}

	type scored struct {
		index int
		score int
	}
	var scores []scored
	for i, s := range sentences {
		total := 0
		for _, w := range tokenize(s) {
			total += freq[w]
		}
		if total > 0 {
			scores = append(scores, scored{index: i, score: total})
		}
	}

	if len(scores) == 0 {
		return strings.Join(sentences[:n], " ")
	}

	// Highest score first; equal scores keep document order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].index < scores[j].index
	})

	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		parts = append(parts, sentences[s.index])
	}
	return strings.Join(parts, " ")
}

// splitSentences breaks text on terminal punctuation followed by whitespace,
// keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(b.String()); s != "" {
					sentences = append(sentences, s)
				}
				b.Reset()
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// tokenize lowercases text and returns its alphanumeric words, stopwords
// excluded.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if stopwords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}
