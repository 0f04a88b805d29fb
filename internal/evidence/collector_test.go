package evidence

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browzerlabs/topic-agent/internal/model"
)

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Get(_ context.Context, rawURL string) (string, error) {
	f.calls = append(f.calls, rawURL)
	if err := f.errs[rawURL]; err != nil {
		return "", err
	}
	return f.pages[rawURL], nil
}

type fakeSearcher struct {
	urls   []string
	err    error
	called bool
}

func (s *fakeSearcher) Search(_ context.Context, _ string) ([]string, error) {
	s.called = true
	return s.urls, s.err
}

func longPage(title, topic string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body>")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "<p>Paragraph %d discusses %s in reasonable depth and detail.</p>", i, topic)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func longText(topic string) string {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Sentence %d discusses %s in reasonable depth and detail. ", i, topic)
	}
	return b.String()
}

func newTestCollector(f Fetcher, s Searcher) *Collector {
	return NewCollector(f, s, WithFetchDelay(0))
}

func TestCollect_PageContentSummarized(t *testing.T) {
	page := &model.PageContent{Title: "Solar", URL: "https://example.com", Content: longText("solar energy")}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "solar energy", nil, page, nil, false)

	require.Len(t, items, 1)
	assert.Equal(t, "Solar", items[0].Title)
	assert.False(t, items[0].IsFullContent)
	assert.False(t, items[0].HasMarkupLinks)
	assert.Less(t, len(items[0].Body), len(page.Content))
}

func TestCollect_PageContentFullForQuestions(t *testing.T) {
	page := &model.PageContent{Title: "Solar", URL: "https://example.com", Content: longText("solar energy")}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "what about solar?", nil, page, nil, true)

	require.Len(t, items, 1)
	assert.True(t, items[0].IsFullContent)
	assert.Equal(t, page.Content, items[0].Body)
}

func TestCollect_PageHTMLPreferred(t *testing.T) {
	page := &model.PageContent{
		Title:       "Solar",
		Content:     longText("solar"),
		HTMLContent: longPage("Solar", "solar with markup"),
	}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "q?", nil, page, nil, true)

	require.Len(t, items, 1)
	assert.True(t, items[0].HasMarkupLinks)
	assert.Equal(t, page.HTMLContent, items[0].Body)
}

func TestCollect_MinimalPageSkipped(t *testing.T) {
	page := &model.PageContent{Title: "Google", Content: "Google"}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "q?", nil, page, nil, true)

	assert.Empty(t, items)
}

func TestCollect_Contexts(t *testing.T) {
	contexts := []model.AdditionalContext{
		{Title: "Notes", URL: "https://example.com/n", Content: model.ContextBody{Content: longText("meeting notes")}},
		{Title: "Tiny", Content: model.ContextBody{Content: "too small"}},
	}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "query", nil, nil, contexts, false)

	require.Len(t, items, 1)
	assert.Equal(t, "Notes", items[0].Title)
	assert.False(t, items[0].IsFullContent)
}

func TestCollect_ContextsFullWithHTML(t *testing.T) {
	contexts := []model.AdditionalContext{
		{Title: "Doc", Content: model.ContextBody{HTML: longPage("Doc", "docs"), Content: "short"}},
	}

	items := newTestCollector(&fakeFetcher{}, &fakeSearcher{}).
		Collect(context.Background(), "q?", nil, nil, contexts, true)

	require.Len(t, items, 1)
	assert.True(t, items[0].IsFullContent)
	assert.True(t, items[0].HasMarkupLinks)
}

func TestCollect_ProvidedURLs(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.example.com": longPage("A", "topic a"),
		"https://b.example.com": longPage("B", "topic b"),
	}}
	s := &fakeSearcher{}

	items := newTestCollector(f, s).Collect(context.Background(), "query",
		[]string{"https://a.example.com", "https://b.example.com"}, nil, nil, false)

	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "https://a.example.com", items[0].URL)
	assert.False(t, s.called)
}

func TestCollect_URLFailuresSkipped(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"https://ok.example.com": longPage("OK", "working topic"),
		},
		errs: map[string]error{
			"https://bad.example.com": eris.New("connection refused"),
		},
	}

	items := newTestCollector(f, &fakeSearcher{}).Collect(context.Background(), "query",
		[]string{"https://bad.example.com", "https://ok.example.com"}, nil, nil, false)

	require.Len(t, items, 1)
	assert.Equal(t, "OK", items[0].Title)
}

func TestCollect_URLItemCap(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{}}
	var urls []string
	for i := 0; i < 5; i++ {
		u := fmt.Sprintf("https://site%d.example.com", i)
		urls = append(urls, u)
		f.pages[u] = longPage(fmt.Sprintf("Site %d", i), "shared topic")
	}

	items := newTestCollector(f, &fakeSearcher{}).Collect(context.Background(), "query", urls, nil, nil, false)

	assert.Len(t, items, maxURLItems)
	assert.Len(t, f.calls, maxURLItems)
}

func TestCollect_SearchFallback(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://found.example.com": longPage("Found", "searched topic"),
	}}
	s := &fakeSearcher{urls: []string{"https://found.example.com"}}

	items := newTestCollector(f, s).Collect(context.Background(), "query", nil, nil, nil, false)

	assert.True(t, s.called)
	require.Len(t, items, 1)
	assert.Equal(t, "Found", items[0].Title)
}

func TestCollect_SearchSkippedWhenContextsProduced(t *testing.T) {
	s := &fakeSearcher{urls: []string{"https://x.example.com"}}
	contexts := []model.AdditionalContext{
		{Title: "Notes", Content: model.ContextBody{Content: longText("notes")}},
	}

	items := newTestCollector(&fakeFetcher{}, s).
		Collect(context.Background(), "query", nil, nil, contexts, false)

	require.Len(t, items, 1)
	assert.False(t, s.called)
}

func TestCollect_SearchErrorYieldsEmpty(t *testing.T) {
	s := &fakeSearcher{err: eris.New("search down")}

	items := newTestCollector(&fakeFetcher{}, s).
		Collect(context.Background(), "query", nil, nil, nil, false)

	assert.Empty(t, items)
}

func TestCollect_FullModeNeverSearches(t *testing.T) {
	s := &fakeSearcher{urls: []string{"https://x.example.com"}}

	items := newTestCollector(&fakeFetcher{}, s).
		Collect(context.Background(), "q?", nil, nil, nil, true)

	assert.Empty(t, items)
	assert.False(t, s.called)
}
