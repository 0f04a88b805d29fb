package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuestion(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"trailing question mark", "will it rain tomorrow?", true},
		{"trailing question mark with spaces", "will it rain tomorrow?  ", true},
		{"direct question marker", "DIRECT QUESTION: summarize the page", true},
		{"leading question word", "what happened at the summit", true},
		{"embedded question word", "tell me how engines work", true},
		{"question word uppercase", "How does photosynthesis work", true},
		{"plain topic", "golang concurrency patterns", false},
		{"url never a question", "https://example.com/what-is-this?", false},
		{"http url", "http://example.com/why", false},
		{"question word as substring only", "whoever attended the meeting", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuestion(tt.query))
		})
	}
}

func TestIsComparison(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"compare word", "compare rust and go", true},
		{"versus", "python versus ruby performance", true},
		{"vs token", "react vs angular", true},
		{"phrase", "what is the difference in pricing", true},
		{"pros and cons", "pros and cons of remote work", true},
		{"or pattern", "should I use tabs or spaces", true},
		{"between pattern", "distance between london and paris", true},
		{"entities are pattern", "apples and oranges are fruit", true},
		{"no comparison", "history of the roman empire", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComparison(tt.query))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain text unchanged", "golang concurrency", "golang concurrency"},
		{"punctuation stripped", "what's new, in go 1.25?!", "what s new in go 1 25"},
		{"whitespace collapsed", "  too   many    spaces ", "too many spaces"},
		{"search url extracts q param", "https://www.google.com/search?q=go+generics&num=10", "go generics"},
		{"url without q param falls through", "https://example.com/page?id=7", "https example com page id 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.query))
		})
	}
}

func TestClean_CapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "query "
	}
	got := Clean(long)
	assert.LessOrEqual(t, len(got), 150)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com"))
	assert.True(t, IsURL("http://example.com"))
	assert.False(t, IsURL("example.com"))
	assert.False(t, IsURL("what is https"))
}
