// Package token provides the approximate token accounting used by the prompt
// assembler. Counts are estimates (4 chars per token); budget logic built on
// top must tolerate roughly ±10% estimator error. Exact tokenization belongs
// to the LLM provider.
package token

// charsPerToken is the fixed estimation ratio.
const charsPerToken = 4

// TruncationMarker is appended whenever Truncate shortens its input.
const TruncationMarker = "... [truncated due to length]"

// safetyMargin keeps the proportional cut below the naive target so the
// estimate of the truncated text stays under budget despite estimator error.
const safetyMargin = 0.9

// minFragmentChars is the smallest viable truncation: below this, Truncate
// returns a fixed-size fragment plus marker rather than an empty string.
const minFragmentChars = 100

// Estimate returns the approximate token count of text.
func Estimate(text string) int {
	return len(text) / charsPerToken
}

// Truncate shortens text so that Estimate(result) stays within maxTokens.
// Text that already fits is returned unchanged, so Truncate is idempotent.
// Shortened text always ends with TruncationMarker.
func Truncate(text string, maxTokens int) string {
	if text == "" {
		return text
	}

	estimated := Estimate(text)
	if estimated <= maxTokens {
		return text
	}

	ratio := float64(maxTokens) * safetyMargin / float64(estimated)
	target := int(float64(len(text)) * ratio)

	if target < minFragmentChars {
		return text[:minFragmentChars] + TruncationMarker
	}

	return text[:target] + TruncationMarker
}
