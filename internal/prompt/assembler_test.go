package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/internal/token"
)

func TestQuestion_Basic(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "Doc", URL: "https://example.com", Body: "Solar output rose sharply."},
	}

	p := NewAssembler().Question("how much did solar output rise?", evidence, nil)

	assert.Equal(t, questionSystemPrompt, p.System)
	assert.Contains(t, p.User, "QUESTION: how much did solar output rise?")
	assert.Contains(t, p.User, "CURRENT QUESTION AND SOURCES:")
	assert.Contains(t, p.User, "Source 1:")
	assert.Contains(t, p.User, "Title: Doc")
	assert.Contains(t, p.User, "URL: https://example.com")
	assert.Contains(t, p.User, "Now answer the question directly and specifically.")
}

func TestQuestion_StripsDirectQuestionMarker(t *testing.T) {
	p := NewAssembler().Question("DIRECT QUESTION: what is this page about?", nil, nil)
	assert.Contains(t, p.User, "QUESTION: what is this page about?")
	assert.NotContains(t, p.User, "DIRECT QUESTION:")
}

func TestQuestion_NoSources(t *testing.T) {
	p := NewAssembler().Question("what is the capital of france?", nil, nil)
	assert.Contains(t, p.User, "No recent sources are available.")
}

func TestQuestion_FullContentSources(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "Page", URL: "https://example.com", Body: "Full body of the page.", IsFullContent: true},
		{Title: "Summary Only", URL: "https://other.example.com", Body: "short summary"},
	}

	p := NewAssembler().Question("what does the page say?", evidence, nil)

	assert.Contains(t, p.User, "FULL WEBPAGE CONTENT (complete, not summarized):")
	assert.Contains(t, p.User, "Full body of the page.")
	assert.Contains(t, p.User, "IMPORTANT: This is content from the webpage.")
	// Summarized items are not emitted alongside full content.
	assert.NotContains(t, p.User, "Summary Only")
}

func TestQuestion_MarkupLinksNote(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "Page", Body: "text [LINK: https://example.com/a]", IsFullContent: true, HasMarkupLinks: true},
	}

	p := NewAssembler().Question("what links are there?", evidence, nil)
	assert.Contains(t, p.User, "NOTE: This content includes HTML with actual links")
}

func TestQuestion_SummarizedSourceCap(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "Long", Body: strings.Repeat("word ", 1000)},
	}

	p := NewAssembler().Question("what is in the long source?", evidence, nil)
	assert.Contains(t, p.User, token.TruncationMarker)
}

func TestQuestion_ComparisonInstruction(t *testing.T) {
	p := NewAssembler().Question("compare solar and wind power", nil, nil)
	assert.Contains(t, p.User, "Since this question involves comparing information")
}

func TestQuestion_MemoryAndConversation(t *testing.T) {
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Content: "earlier question", IsMemory: true},
		{Role: model.RoleAssistant, Content: "earlier answer", IsMemory: true},
		{Role: model.RoleUser, Content: "live question"},
		{Role: model.RoleAssistant, Content: "live answer"},
		{Role: model.RoleUser, Content: "   "},
	}

	p := NewAssembler().Question("what did we discuss?", nil, history)

	assert.Contains(t, p.User, "MEMORY CONTEXT (Information from previous conversations):")
	assert.Contains(t, p.User, "Previous Question: earlier question")
	assert.Contains(t, p.User, "Previous Answer: earlier answer")
	assert.Contains(t, p.User, "RECENT CONVERSATION:")
	assert.Contains(t, p.User, "User: live question")
	assert.Contains(t, p.User, "Assistant: live answer")
}

func TestQuestion_ComparisonMemoryGrouping(t *testing.T) {
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	history := []model.ConversationTurn{
		{Role: model.RoleAssistant, Content: "answer from site a", IsMemory: true,
			Source: &model.TurnSource{Domain: "a.example.com", Timestamp: ts}},
		{Role: model.RoleAssistant, Content: "answer from site b", IsMemory: true,
			Source: &model.TurnSource{Domain: "b.example.com", Timestamp: ts}},
	}

	p := NewAssembler().Question("compare a and b", nil, history)

	assert.Contains(t, p.User, "COMPARISON CONTEXT:")
	assert.Contains(t, p.User, "a.example.com, b.example.com")
	assert.Contains(t, p.User, "--- MEMORY GROUPED BY SOURCE ---")
	assert.Contains(t, p.User, "From a.example.com:")
	assert.Contains(t, p.User, "Answer (from 2025-03-10): answer from site a")
	assert.Contains(t, p.User, "--- END OF GROUPED MEMORY ---")
	assert.Contains(t, p.User, "IMPORTANT: The question is asking to compare information")
}

func TestQuestion_TemporalSpreadNote(t *testing.T) {
	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	late := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli()
	history := []model.ConversationTurn{
		{Role: model.RoleAssistant, Content: "old info", IsMemory: true,
			Source: &model.TurnSource{Domain: "a.example.com", Timestamp: early}},
		{Role: model.RoleAssistant, Content: "new info", IsMemory: true,
			Source: &model.TurnSource{Domain: "b.example.com", Timestamp: late}},
	}

	p := NewAssembler().Question("compare a and b", nil, history)
	assert.Contains(t, p.User, "These sources were accessed at different times")
}

func TestQuestion_NoGroupingWithoutComparison(t *testing.T) {
	history := []model.ConversationTurn{
		{Role: model.RoleAssistant, Content: "answer from site a", IsMemory: true,
			Source: &model.TurnSource{Domain: "a.example.com"}},
		{Role: model.RoleAssistant, Content: "answer from site b", IsMemory: true,
			Source: &model.TurnSource{Domain: "b.example.com"}},
	}

	p := NewAssembler().Question("tell me more about the topic", nil, history)

	assert.NotContains(t, p.User, "MEMORY GROUPED BY SOURCE")
	assert.Contains(t, p.User, "Previous Answer: answer from site a")
	assert.Contains(t, p.User, "Previous Answer: answer from site b")
}

func TestQuestion_StaysWithinTotalBudget(t *testing.T) {
	huge := strings.Repeat("evidence text goes here and keeps going on. ", 50000)
	evidence := []model.EvidenceItem{
		{Title: "Huge", Body: huge, IsFullContent: true},
	}
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Content: strings.Repeat("remembered question ", 20000), IsMemory: true},
	}

	p := NewAssembler().Question("what does it say?", evidence, history)

	total := token.Estimate(p.System) + token.Estimate(p.User)
	assert.LessOrEqual(t, total, maxTotalTokens)
}

func TestSummary_Basic(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "One", URL: "https://a.example.com", Body: "first source"},
		{Title: "Two", URL: "https://b.example.com", Body: "second source"},
	}

	p := NewAssembler().Summary("solar power", evidence)

	assert.Equal(t, summarySystemPrompt, p.System)
	assert.Contains(t, p.User, "Please create a summary for: solar power")
	assert.Contains(t, p.User, "Source 1:")
	assert.Contains(t, p.User, "Source 2:")
	assert.Contains(t, p.User, "less than 150 words")
}

func TestSummary_NoSources(t *testing.T) {
	p := NewAssembler().Summary("anything", nil)
	assert.Contains(t, p.User, "No sources are available for summarization.")
}

func TestSummary_LongSourceClipped(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "Long", Body: strings.Repeat("a", 600)},
	}

	p := NewAssembler().Summary("topic", evidence)
	assert.Contains(t, p.User, "...")
	assert.NotContains(t, p.User, strings.Repeat("a", 501))
}

func TestSummary_DefaultTitleAndURL(t *testing.T) {
	p := NewAssembler().Summary("topic", []model.EvidenceItem{{Body: "body text"}})
	assert.Contains(t, p.User, "Title: Untitled")
	assert.Contains(t, p.User, "URL: No URL")
}

func TestHTMLAnalysis(t *testing.T) {
	page := &model.PageContent{
		Title:       "News Site",
		URL:         "https://news.example.com",
		HTMLContent: "<h1>Top stories</h1> read more [LINK: https://news.example.com/a]",
	}

	p := NewAssembler().HTMLAnalysis("what are the top stories?", page)

	assert.Equal(t, htmlAnalysisSystemPrompt, p.System)
	assert.Contains(t, p.User, "WEBPAGE ANALYSIS QUESTION: what are the top stories?")
	assert.Contains(t, p.User, "Page title: News Site")
	assert.Contains(t, p.User, "URL: https://news.example.com")
	assert.Contains(t, p.User, "HTML CONTENT:")
	assert.Contains(t, p.User, "[LINK: https://news.example.com/a]")
	assert.Contains(t, p.User, "Please analyze this HTML to answer the question.")
}

func TestHTMLAnalysis_CapsMarkup(t *testing.T) {
	page := &model.PageContent{
		Title:       "Big",
		HTMLContent: strings.Repeat("x", htmlCharCap+1000),
	}

	p := NewAssembler().HTMLAnalysis("question?", page)

	require.Contains(t, p.User, htmlTruncationMarker)
	assert.NotContains(t, p.User, strings.Repeat("x", htmlCharCap+1))
}

func TestHTMLAnalysis_DefaultTitle(t *testing.T) {
	p := NewAssembler().HTMLAnalysis("q?", &model.PageContent{HTMLContent: "<p>x</p>"})
	assert.Contains(t, p.User, "Page title: Untitled")
}
