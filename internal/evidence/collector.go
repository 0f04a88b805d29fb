// Package evidence gathers source material for a query from whichever input
// is available: supplied page content, inline contexts, supplied URLs, or a
// web search. Evidence sources are tried in that order and individual
// failures are skipped, so an empty result is a valid outcome.
package evidence

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/extract"
	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/internal/summarize"
)

const (
	// minPageChars filters out near-empty pages.
	minPageChars = 200
	// minContextChars filters out trivial inline contexts.
	minContextChars = 50
	// maxURLItems caps how many URL-derived items one request produces.
	maxURLItems = 3

	defaultFetchDelay = 500 * time.Millisecond
)

// Fetcher retrieves a page body. Satisfied by pkg/fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// Searcher finds candidate URLs for a query. Satisfied by pkg/search.Client.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Collector assembles evidence items for the prompt assembler.
type Collector struct {
	fetcher    Fetcher
	searcher   Searcher
	fetchDelay time.Duration
	logger     *zap.Logger
}

// Option configures the Collector.
type Option func(*Collector)

// WithFetchDelay sets the base courtesy delay between URL fetches. Zero
// disables the delay.
func WithFetchDelay(d time.Duration) Option {
	return func(c *Collector) {
		c.fetchDelay = d
	}
}

// WithLogger sets the collector's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) {
		c.logger = l
	}
}

// NewCollector creates a Collector using the given page fetcher and search
// provider.
func NewCollector(fetcher Fetcher, searcher Searcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher:    fetcher,
		searcher:   searcher,
		fetchDelay: defaultFetchDelay,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect gathers evidence for the query. When wantFull is set, page and
// context bodies are kept whole for the model to read; otherwise they are
// condensed to extractive summaries. Supplied URLs take precedence over
// search, and search only runs when nothing else produced evidence.
func (c *Collector) Collect(ctx context.Context, query string, urls []string, page *model.PageContent, contexts []model.AdditionalContext, wantFull bool) []model.EvidenceItem {
	items := c.fromContexts(contexts, wantFull)

	switch {
	case page != nil && (wantFull || len(items) == 0):
		if item, ok := c.fromPage(page, query, wantFull); ok {
			items = append(items, item)
		}
	case wantFull:
		// Full-content collection only reads supplied material.
	case len(urls) > 0:
		items = append(items, c.fromURLs(ctx, urls)...)
	case len(items) == 0:
		items = append(items, c.fromSearch(ctx, query)...)
	}

	c.logger.Info("evidence collected",
		zap.String("query", query),
		zap.Int("items", len(items)),
		zap.Bool("full_content", wantFull),
	)
	return items
}

func (c *Collector) fromContexts(contexts []model.AdditionalContext, wantFull bool) []model.EvidenceItem {
	var items []model.EvidenceItem
	for _, cx := range contexts {
		body, hasHTML := cx.Body()
		if len(body) <= minContextChars {
			continue
		}
		item := model.EvidenceItem{
			Title:          cx.Title,
			URL:            cx.URL,
			HasMarkupLinks: hasHTML,
		}
		if wantFull {
			item.Body = body
			item.IsFullContent = true
		} else {
			item.Body = summarize.Extract(body, summarize.DefaultSentences)
		}
		items = append(items, item)
	}
	return items
}

func (c *Collector) fromPage(page *model.PageContent, query string, wantFull bool) (model.EvidenceItem, bool) {
	body := page.Body()
	if len(body) <= minPageChars {
		c.logger.Debug("skipping minimal page content",
			zap.String("title", page.Title),
			zap.Int("chars", len(body)),
		)
		return model.EvidenceItem{}, false
	}

	item := model.EvidenceItem{
		Title:          page.Title,
		URL:            page.URL,
		HasMarkupLinks: page.HasHTML(),
	}
	if item.Title == "" {
		item.Title = "Untitled Page"
	}
	if item.URL == "" {
		item.URL = query
	}
	if wantFull {
		item.Body = body
		item.IsFullContent = true
	} else {
		item.Body = summarize.Extract(body, summarize.DefaultSentences)
	}
	return item, true
}

// fromURLs fetches each URL in order, summarizing pages with enough text.
// Stops at maxURLItems.
func (c *Collector) fromURLs(ctx context.Context, urls []string) []model.EvidenceItem {
	var items []model.EvidenceItem
	for _, u := range urls {
		if len(items) >= maxURLItems {
			break
		}
		if err := c.pause(ctx); err != nil {
			break
		}

		markup, err := c.fetcher.Get(ctx, u)
		if err != nil {
			c.logger.Warn("page fetch failed", zap.String("url", u), zap.Error(err))
			continue
		}

		text := extract.Text(markup)
		if len(text) < minPageChars {
			c.logger.Debug("not enough text content", zap.String("url", u), zap.Int("chars", len(text)))
			continue
		}

		items = append(items, model.EvidenceItem{
			Title: extract.Title(markup),
			URL:   u,
			Body:  summarize.Extract(text, summarize.DefaultSentences),
		})
	}
	return items
}

func (c *Collector) fromSearch(ctx context.Context, query string) []model.EvidenceItem {
	urls, err := c.searcher.Search(ctx, query)
	if err != nil {
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	if len(urls) == 0 {
		return nil
	}
	return c.fromURLs(ctx, urls)
}

// pause applies the jittered courtesy delay between fetches.
func (c *Collector) pause(ctx context.Context) error {
	if c.fetchDelay <= 0 {
		return nil
	}
	d := c.fetchDelay + time.Duration(rand.Int63n(int64(2*c.fetchDelay)))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
