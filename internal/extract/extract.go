// Package extract turns fetched page markup into clean prose for
// summarization and prompting.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are structural elements whose subtrees carry no article
// content: scripts, styles, and page chrome.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"header": true,
	"footer": true,
	"nav":    true,
	"aside":  true,
	"noscript": true,
}

// Text strips markup noise from page content and returns the remaining prose
// with whitespace runs collapsed to single spaces. Malformed markup degrades
// to best-effort text; Text never fails.
func Text(markup string) string {
	if markup == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// The html parser recovers from almost anything; if it does give
		// up, fall back to returning the input stripped of tags crudely.
		return collapseWhitespace(markup)
	}

	var b strings.Builder
	collectText(root, &b)
	return collapseWhitespace(b.String())
}

// Title returns the page's <title> text, or "Untitled Page" when absent.
func Title(markup string) string {
	if markup == "" {
		return "Untitled Page"
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "Untitled Page"
	}

	if title := findTitle(root); title != "" {
		return title
	}
	return "Untitled Page"
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(b.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// collapseWhitespace replaces runs of whitespace (including newlines) with a
// single space and trims the result.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
