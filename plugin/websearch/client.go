// Package websearch provides best-effort web search and page fetching
// over DuckDuckGo's HTML endpoint. Both operations degrade to empty or
// descriptive-string results rather than surfacing transport faults.
package websearch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	// maxTitleLen and maxSnippetLen bound what we keep from a result.
	maxTitleLen   = 150
	maxSnippetLen = 300

	// maxPageLen bounds cleaned page text returned by Fetch.
	maxPageLen = 5000

	requestTimeout = 15 * time.Second
)

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client performs web searches and page fetches with a shared rate limit.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the search endpoint (used in tests).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client limited to rps outbound requests per second.
func NewClient(rps float64, opts ...ClientOption) *Client {
	if rps <= 0 {
		rps = 2
	}
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		endpoint:   searchEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search posts the query to the HTML endpoint and parses up to
// numResults hits. Any failure yields an empty slice, never an error
// the caller has to branch on.
func (c *Client) Search(ctx context.Context, query string, numResults int) []SearchResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("web search request build failed", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("web search request failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		slog.Warn("web search response parse failed", "query", query, "error", err)
		return nil
	}

	results := parseResults(doc, numResults)
	if len(results) == 0 {
		slog.Warn("no search results found", "query", query)
	} else {
		slog.Info("web search returned results", "query", query, "count", len(results))
	}
	return results
}

// Fetch retrieves a page and returns its cleaned text, capped at
// maxPageLen characters. Non-2xx statuses and transport errors come
// back as descriptive strings, matching the page-fetch contract.
func (c *Client) Fetch(ctx context.Context, pageURL string) string {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Sprintf("Error fetching content from %s: %v", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Sprintf("Error fetching content from %s: %v", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("page fetch failed", "url", pageURL, "error", err)
		return fmt.Sprintf("Error fetching content from %s: %v", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("Unable to fetch content (HTTP %d)", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Sprintf("Error fetching content from %s: %v", pageURL, err)
	}

	text := cleanText(doc)
	if len(text) > maxPageLen {
		text = text[:maxPageLen]
	}
	return text
}

// parseResults walks the DOM collecting result__a anchors and their
// sibling result__snippet text.
func parseResults(doc *html.Node, limit int) []SearchResult {
	var results []SearchResult

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attr(n, "href")
			title := truncate(nodeText(n), maxTitleLen)
			if href != "" && title != "" {
				snippet := ""
				if parent := findAncestorWithClass(n, "result"); parent != nil {
					if sn := findNodeWithClass(parent, "result__snippet"); sn != nil {
						snippet = truncate(nodeText(sn), maxSnippetLen)
					}
				}
				results = append(results, SearchResult{Title: title, URL: href, Snippet: snippet})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return results
}

// skippedTags are stripped from page text before extraction.
var skippedTags = map[string]bool{
	"script": true, "style": true, "nav": true,
	"footer": true, "header": true, "aside": true,
}

// contentTags are preferred containers for the main page content.
var contentTags = map[string]bool{"article": true, "main": true}

// cleanText extracts readable text, preferring article/main containers
// and collapsing whitespace.
func cleanText(doc *html.Node) string {
	if container := findContentContainer(doc); container != nil {
		if text := collectText(container); text != "" {
			return text
		}
	}
	return collectText(doc)
}

func findContentContainer(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && contentTags[n.Data] {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findContentContainer(child); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node) string {
	var parts []string
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skippedTags[node.Data] {
			return
		}
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func findAncestorWithClass(n *html.Node, class string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hasClass(p, class) {
			return p
		}
	}
	return nil
}

func findNodeWithClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNodeWithClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
