package model

// EvidenceItem is one unit of textual evidence eligible for inclusion in a
// prompt: either a full original page or an extractive summary of one.
// Body is never mutated after creation; items live for a single pipeline
// invocation.
type EvidenceItem struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Body           string `json:"summary"`
	IsFullContent  bool   `json:"is_full_content,omitempty"`
	HasMarkupLinks bool   `json:"has_html,omitempty"`
}

// PageContent is caller-supplied content for the page the query refers to.
// HTMLContent, when present, carries markup with links annotated inline as
// "text [LINK: url]" and is preferred over the plain Content.
type PageContent struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	HTMLContent string `json:"htmlContent,omitempty"`

	// AdditionalContexts are @-mentioned pages the host attached alongside
	// the primary page.
	AdditionalContexts []AdditionalContext `json:"additionalContexts,omitempty"`
}

// HasHTML reports whether markup content is available for this page.
func (p *PageContent) HasHTML() bool {
	return p != nil && p.HTMLContent != ""
}

// Body returns the preferred content: markup when available, plain text
// otherwise.
func (p *PageContent) Body() string {
	if p == nil {
		return ""
	}
	if p.HTMLContent != "" {
		return p.HTMLContent
	}
	return p.Content
}

// AdditionalContext is an inline evidence source the caller attached to the
// query explicitly (an @-mention of another open page).
type AdditionalContext struct {
	Title   string      `json:"title"`
	URL     string      `json:"url"`
	Content ContextBody `json:"content"`
}

// ContextBody holds the text and optional markup of an additional context.
type ContextBody struct {
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

// Body returns the preferred content of the context, markup first.
func (c AdditionalContext) Body() (text string, hasHTML bool) {
	if c.Content.HTML != "" {
		return c.Content.HTML, true
	}
	return c.Content.Content, false
}
