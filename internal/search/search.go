// Package search wraps the Serper web-search API.
//
// The client performs single best-effort calls: no retry, no backoff. An
// outbound rate limiter smooths bursts when the agent looks up many
// ingredients in one request. API keys are supplied per call because agents
// receive them with each request rather than at startup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/lexia-ai/sous/internal/log"
)

var (
	// ErrMissingAPIKey indicates no Serper API key was provided.
	ErrMissingAPIKey = errors.New("serper api key not found; add SERPER_API_KEY to the agent configuration")

	// ErrBadStatus indicates the search API returned a non-2xx response.
	ErrBadStatus = errors.New("search api returned non-success status")
)

const (
	// maxResults caps the number of results requested from Serper.
	maxResults = 10

	// maxResponseSize bounds response bodies (resource exhaustion guard).
	maxResponseSize = 4 << 20 // 4MB
)

// Result is a single organic web-search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client calls the Serper API. Safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	logger   log.Logger
}

// Options configures a Client.
type Options struct {
	// Endpoint is the API base URL, e.g. "https://google.serper.dev".
	Endpoint string

	// HTTPClient is used for outbound calls. Its Timeout should be set by
	// the caller; nil falls back to http.DefaultClient.
	HTTPClient *http.Client

	// RatePerSecond limits outbound calls. 0 means 5/s.
	RatePerSecond int

	Logger log.Logger
}

// NewClient creates a search client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	rps := opts.RatePerSecond
	if rps <= 0 {
		rps = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		logger:   logger,
	}
}

// Search returns up to num organic results for the query.
// num is capped at 10.
func (c *Client) Search(ctx context.Context, apiKey, query string, num int) ([]Result, error) {
	if num < 1 {
		num = 5
	}
	if num > maxResults {
		num = maxResults
	}

	var payload struct {
		Organic []Result `json:"organic"`
	}
	if err := c.post(ctx, apiKey, "/search", map[string]any{"q": query, "num": num}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Organic) > num {
		payload.Organic = payload.Organic[:num]
	}
	return payload.Organic, nil
}

// FirstLink returns the link of the first organic result for the query,
// or "" when the search yields nothing.
func (c *Client) FirstLink(ctx context.Context, apiKey, query string) (string, error) {
	results, err := c.Search(ctx, apiKey, query, 5)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].Link, nil
}

// image is a single Serper image result.
type image struct {
	Title        string `json:"title"`
	Source       string `json:"source"`
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Link         string `json:"link"`
}

// foodKeywords mark image results that are likely food photography.
var foodKeywords = []string{"food", "dish", "meal", "recipe", "cooking", "restaurant", "kitchen", "chef"}

// FirstImage returns an image URL for the query, preferring results whose
// title or source looks food-related. Returns "" when nothing is found.
func (c *Client) FirstImage(ctx context.Context, apiKey, query string) (string, error) {
	var payload struct {
		Images []image `json:"images"`
	}
	body := map[string]any{
		"q":    query + " food dish meal recipe",
		"num":  5,
		"safe": "active",
	}
	if err := c.post(ctx, apiKey, "/images", body, &payload); err != nil {
		return "", err
	}
	if len(payload.Images) == 0 {
		return "", nil
	}

	for _, img := range payload.Images {
		title := strings.ToLower(img.Title)
		source := strings.ToLower(img.Source)
		for _, kw := range foodKeywords {
			if strings.Contains(title, kw) || strings.Contains(source, kw) {
				return firstNonEmpty(img.ImageURL, img.ThumbnailURL, img.Link), nil
			}
		}
	}

	// Nothing obviously food-related: take the first image anyway.
	first := payload.Images[0]
	return firstNonEmpty(first.ImageURL, first.ThumbnailURL, first.Link), nil
}

// post sends one JSON request to the given API path and decodes the response.
func (c *Client) post(ctx context.Context, apiKey, path string, body any, out any) error {
	if strings.TrimSpace(apiKey) == "" {
		return ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("search api error", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading search response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding search response: %w", err)
	}
	return nil
}

// FormatResults renders search results as markdown, one numbered block per
// result.
func FormatResults(query string, results []Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("🔍 **Search Results for: %s**\n\nNo results found for your search query.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 **Search Results for: %s**\n\n", query)
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No description available"
		}
		fmt.Fprintf(&b, "%d. **%s**\n   %s\n   [Link](%s)\n\n", i+1, title, snippet, r.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
