// Package search discovers candidate source URLs by scraping a web search
// results page. There is no API key involved; treat results as best effort.
package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// MaxResults is the number of URLs a search returns at most.
const MaxResults = 5

// Fetcher retrieves a page body. Satisfied by pkg/fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// Client scrapes Google's HTML results page for organic result links.
type Client struct {
	fetcher Fetcher
	baseURL string
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the search endpoint. Useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a search client backed by the given fetcher.
func NewClient(fetcher Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: "https://www.google.com/search",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to MaxResults result URLs for the query, in rank order.
// An empty list is a valid outcome, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := c.baseURL + "?q=" + url.QueryEscape(query) + "&num=10"

	body, err := c.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrap(err, "search: fetch results page")
	}

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "search: parse results page")
	}

	// Google's markup shifts often, so try selectors from most to least
	// specific before falling back to every anchor on the page.
	results := resultDivLinks(root)
	if len(results) == 0 {
		results = jsControllerLinks(root)
	}
	if len(results) == 0 {
		results = allLinks(root)
	}

	results = dedupe(results)
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	zap.L().Debug("search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// resultDivLinks collects the first anchor of each div with class "g".
func resultDivLinks(root *html.Node) []string {
	var results []string
	walk(root, func(n *html.Node) {
		if !isElement(n, "div") || !hasClass(n, "g") {
			return
		}
		if a := firstAnchor(n); a != nil {
			if u := usableURL(attr(a, "href")); u != "" {
				results = append(results, u)
			}
		}
	})
	return results
}

// jsControllerLinks collects http anchors inside divs carrying a
// jscontroller attribute.
func jsControllerLinks(root *html.Node) []string {
	var results []string
	walk(root, func(n *html.Node) {
		if !isElement(n, "div") || attr(n, "jscontroller") == "" {
			return
		}
		walk(n, func(m *html.Node) {
			if !isElement(m, "a") {
				return
			}
			if u := usableURL(attr(m, "href")); u != "" {
				results = append(results, u)
			}
		})
	})
	return results
}

// allLinks collects every anchor, unwrapping Google's /url?q= redirects.
func allLinks(root *html.Node) []string {
	var results []string
	walk(root, func(n *html.Node) {
		if !isElement(n, "a") {
			return
		}
		href := attr(n, "href")
		if rest, ok := strings.CutPrefix(href, "/url?q="); ok {
			href, _, _ = strings.Cut(rest, "&")
		}
		if u := usableURL(href); u != "" {
			results = append(results, u)
		}
	})
	return results
}

// usableURL returns href when it is an external http(s) link, else "".
func usableURL(href string) string {
	if !strings.HasPrefix(href, "http") {
		return ""
	}
	if strings.Contains(href, "google.com") {
		return ""
	}
	return href
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func isElement(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && n.Data == name
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func firstAnchor(n *html.Node) *html.Node {
	var found *html.Node
	walk(n, func(m *html.Node) {
		if found == nil && isElement(m, "a") {
			found = m
		}
	})
	return found
}
