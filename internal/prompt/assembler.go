// Package prompt assembles token-budgeted LLM prompts from collected
// evidence and conversation history. Sections are added in a fixed order and
// each is truncated against its own ceiling before a final whole-prompt
// safety check.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/classify"
	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/internal/token"
)

// Token ceilings for assembled prompts. Totals leave room for the system
// prompt and the model's response.
const (
	maxTotalTokens   = 180000
	maxContentTokens = 150000
	maxMemoryTokens  = 20000
	maxSourceTokens  = 100000
	responseReserve  = 5000
	emergencyBuffer  = 1000

	// summaryItemCharCap bounds individual summarized sources.
	summaryItemCharCap = 500
	// htmlCharCap bounds raw markup handed to link analysis.
	htmlCharCap = 50000

	htmlTruncationMarker = "... [HTML truncated]"
)

// temporalSpread is the memory age gap beyond which the prompt points out
// that sources were visited at different times.
const temporalSpread = 24 * time.Hour

// Prompt is an assembled system/user prompt pair.
type Prompt struct {
	System string
	User   string
}

// Assembler builds prompts for the three generation modes.
type Assembler struct {
	logger *zap.Logger
}

// Option configures the Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// NewAssembler creates a prompt assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Question builds the question-answering prompt: an optional comparison
// note, remembered context grouped by source domain where that helps, the
// live conversation, the evidence sources, and a closing instruction.
func (a *Assembler) Question(query string, evidence []model.EvidenceItem, history []model.ConversationTurn) Prompt {
	query = strings.TrimSpace(strings.ReplaceAll(query, classify.DirectQuestionMarker, ""))
	isComparison := classify.IsComparison(query)

	memory, conversation := model.PartitionHistory(history)
	meta := collectMemoryMeta(memory)

	used := token.Estimate(questionSystemPrompt)
	user := fmt.Sprintf("QUESTION: %s\n\n", query)
	used += token.Estimate(user)

	memorySection := a.memorySection(memory, meta, isComparison)
	used += token.Estimate(memorySection)

	conversationSection := a.conversationSection(conversation, memorySection)
	used += token.Estimate(conversationSection)

	sourcesSection := a.questionSources(evidence, used)
	used += token.Estimate(sourcesSection)

	final := questionFinalInstruction
	if isComparison {
		final += comparisonFinalInstruction
	}

	user += memorySection + conversationSection + sourcesSection + final
	user = a.safetyTruncate(user, questionSystemPrompt)

	return Prompt{System: questionSystemPrompt, User: user}
}

// Summary builds the summarization prompt from the evidence sources alone.
func (a *Assembler) Summary(query string, evidence []model.EvidenceItem) Prompt {
	user := fmt.Sprintf("Please create a summary for: %s\n\n", query)
	user += "Here are the sources to summarize:\n\n"

	if len(evidence) == 0 {
		user += noSourcesForSummary
	} else {
		perSource := maxContentTokens / len(evidence)
		for i, item := range evidence {
			body := item.Body
			if token.Estimate(body) > perSource {
				body = token.Truncate(body, perSource)
			} else if len(body) > summaryItemCharCap {
				body = body[:summaryItemCharCap-3] + "..."
			}
			user += formatSource(i+1, item, body)
		}
	}

	user += summaryFinalInstruction
	user = a.safetyTruncate(user, summarySystemPrompt)

	return Prompt{System: summarySystemPrompt, User: user}
}

// HTMLAnalysis builds the link-analysis prompt carrying the page's raw
// markup, capped so one oversized page cannot consume the whole budget.
func (a *Assembler) HTMLAnalysis(query string, page *model.PageContent) Prompt {
	query = strings.TrimSpace(strings.ReplaceAll(query, classify.DirectQuestionMarker, ""))

	title := page.Title
	if title == "" {
		title = "Untitled"
	}

	markup := page.HTMLContent
	if len(markup) > htmlCharCap {
		markup = markup[:htmlCharCap] + htmlTruncationMarker
	}

	user := fmt.Sprintf("WEBPAGE ANALYSIS QUESTION: %s\n\n", query)
	user += "Below is the HTML content of a webpage with specially marked links in the format 'text [LINK: url]'.\n\n"
	user += fmt.Sprintf("Page title: %s\n", title)
	user += fmt.Sprintf("URL: %s\n\n", page.URL)
	user += "HTML CONTENT:\n"
	user += markup
	user += "\n\n"
	user += htmlAnalysisFinalInstruction

	return Prompt{System: htmlAnalysisSystemPrompt, User: user}
}

// memoryMeta is what the assembler learned from scanning memory turns.
type memoryMeta struct {
	domains         []string // first-seen order
	multipleSources bool
	temporalSpread  bool
}

func collectMemoryMeta(memory []model.ConversationTurn) memoryMeta {
	var meta memoryMeta
	seen := map[string]bool{}
	var minTS, maxTS int64

	for _, t := range memory {
		if d := t.Domain(); d != "" && !seen[d] {
			seen[d] = true
			meta.domains = append(meta.domains, d)
		}
		if t.Source != nil && t.Source.Timestamp != 0 {
			ts := t.Source.Timestamp
			if minTS == 0 || ts < minTS {
				minTS = ts
			}
			if ts > maxTS {
				maxTS = ts
			}
		}
	}

	meta.multipleSources = len(meta.domains) > 1
	meta.temporalSpread = minTS != 0 && maxTS-minTS > temporalSpread.Milliseconds()
	return meta
}

// memorySection renders remembered turns, grouped by source domain when the
// question compares sources from more than one domain.
func (a *Assembler) memorySection(memory []model.ConversationTurn, meta memoryMeta, isComparison bool) string {
	var b strings.Builder

	if isComparison && meta.multipleSources {
		b.WriteString("COMPARISON CONTEXT: This question appears to be comparing information across multiple sources ")
		fmt.Fprintf(&b, "from domains: %s. ", strings.Join(meta.domains, ", "))
		if meta.temporalSpread {
			b.WriteString("These sources were accessed at different times, so temporal context may be relevant. ")
		}
		b.WriteString("When answering, explicitly compare and contrast information from different sources.\n\n")
	}

	if len(memory) == 0 {
		return b.String()
	}

	var mem strings.Builder
	mem.WriteString("MEMORY CONTEXT (Information from previous conversations):\n")

	grouped, ungrouped := groupByDomain(memory)
	if len(grouped) > 1 && isComparison {
		mem.WriteString("--- MEMORY GROUPED BY SOURCE ---\n")
		for _, d := range meta.domains {
			turns, ok := grouped[d]
			if !ok {
				continue
			}
			fmt.Fprintf(&mem, "\nFrom %s:\n", d)
			for _, t := range turns {
				dateSuffix := ""
				if when := t.When(); !when.IsZero() {
					dateSuffix = fmt.Sprintf(" (from %s)", when.Format("2006-01-02"))
				}
				switch t.Role {
				case model.RoleUser:
					fmt.Fprintf(&mem, "Question%s: %s\n\n", dateSuffix, t.Content)
				case model.RoleAssistant:
					fmt.Fprintf(&mem, "Answer%s: %s\n\n", dateSuffix, t.Content)
				}
			}
		}
		mem.WriteString("--- END OF GROUPED MEMORY ---\n\n")
	} else {
		ungrouped = memory
	}

	for _, t := range ungrouped {
		switch t.Role {
		case model.RoleUser:
			fmt.Fprintf(&mem, "Previous Question: %s\n\n", t.Content)
		case model.RoleAssistant:
			fmt.Fprintf(&mem, "Previous Answer: %s\n\n", t.Content)
		}
	}
	mem.WriteString("---\n\n")

	if isComparison && meta.multipleSources {
		mem.WriteString("IMPORTANT: The question is asking to compare information across different sources or time periods. ")
		mem.WriteString("Please clearly identify differences and similarities between sources ")
		mem.WriteString("and explain any discrepancies you find.\n\n")
	}

	content := mem.String()
	if t := token.Estimate(content); t > maxMemoryTokens {
		a.logger.Debug("truncating memory section", zap.Int("tokens", t))
		content = token.Truncate(content, maxMemoryTokens)
	}
	b.WriteString(content)
	return b.String()
}

// groupByDomain groups remembered answers by their source domain. Turns
// without a domain, and remembered questions, stay ungrouped.
func groupByDomain(memory []model.ConversationTurn) (map[string][]model.ConversationTurn, []model.ConversationTurn) {
	grouped := map[string][]model.ConversationTurn{}
	var ungrouped []model.ConversationTurn
	for _, t := range memory {
		if d := t.Domain(); d != "" && t.Role == model.RoleAssistant {
			grouped[d] = append(grouped[d], t)
		} else {
			ungrouped = append(ungrouped, t)
		}
	}
	return grouped, ungrouped
}

// conversationSection renders the live conversation against whatever memory
// budget the memory section left over.
func (a *Assembler) conversationSection(conversation []model.ConversationTurn, memorySection string) string {
	if len(conversation) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("RECENT CONVERSATION:\n")
	for _, t := range conversation {
		switch t.Role {
		case model.RoleUser:
			fmt.Fprintf(&b, "User: %s\n\n", t.Content)
		case model.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n\n", t.Content)
		}
	}
	b.WriteString("---\n\n")

	content := b.String()
	remaining := maxMemoryTokens - token.Estimate(memorySection)
	if remaining < 0 {
		remaining = 0
	}
	if t := token.Estimate(content); t > remaining {
		a.logger.Debug("truncating conversation section",
			zap.Int("tokens", t),
			zap.Int("budget", remaining),
		)
		content = token.Truncate(content, remaining)
	}
	return content
}

// questionSources renders the evidence for the question prompt. Full-content
// items take priority: when any are present, only they are emitted and the
// remaining token budget is split evenly across them.
func (a *Assembler) questionSources(evidence []model.EvidenceItem, usedTokens int) string {
	section := "CURRENT QUESTION AND SOURCES:\n"

	if len(evidence) == 0 {
		return section + noSourcesForQuestion
	}

	fullItems := 0
	for _, item := range evidence {
		if item.IsFullContent {
			fullItems++
		}
	}

	available := maxSourceTokens
	if budget := maxTotalTokens - usedTokens - token.Estimate(section) - responseReserve; budget < available {
		available = budget
	}
	if available < 0 {
		available = 0
	}

	var b strings.Builder
	if fullItems > 0 {
		b.WriteString("FULL WEBPAGE CONTENT (complete, not summarized):\n\n")
		perSource := available / fullItems
		for _, item := range evidence {
			if !item.IsFullContent {
				continue
			}
			body := item.Body
			if token.Estimate(body) > perSource {
				body = token.Truncate(body, perSource)
			}
			fmt.Fprintf(&b, "Title: %s\n", orDefault(item.Title, "Untitled"))
			fmt.Fprintf(&b, "URL: %s\n", orDefault(item.URL, "No URL"))
			fmt.Fprintf(&b, "Content: %s\n\n", body)
			b.WriteString(fullContentInstruction)
			if item.HasMarkupLinks {
				b.WriteString(markupLinksNote)
			}
		}
	} else {
		perSource := available / len(evidence)
		capTokens := token.Estimate(strings.Repeat(".", summaryItemCharCap))
		if capTokens < perSource {
			perSource = capTokens
		}
		for i, item := range evidence {
			body := item.Body
			if token.Estimate(body) > perSource || len(body) > summaryItemCharCap {
				body = token.Truncate(body, perSource)
			}
			b.WriteString(formatSource(i+1, item, body))
		}
	}

	return section + b.String()
}

func formatSource(idx int, item model.EvidenceItem, body string) string {
	return fmt.Sprintf("Source %d:\nTitle: %s\nURL: %s\nContent: %s\n\n",
		idx, orDefault(item.Title, "Untitled"), orDefault(item.URL, "No URL"), body)
}

// safetyTruncate applies the final whole-prompt check against the total
// ceiling, leaving a small buffer for formatting drift.
func (a *Assembler) safetyTruncate(user, system string) string {
	systemTokens := token.Estimate(system)
	if systemTokens+token.Estimate(user) <= maxTotalTokens {
		return user
	}
	a.logger.Warn("prompt over total budget, applying emergency truncation",
		zap.Int("user_tokens", token.Estimate(user)),
	)
	return token.Truncate(user, maxTotalTokens-systemTokens-emergencyBuffer)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
