// Package wikimedia provides a client for Wikipedia page-image lookups.
package wikimedia

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://en.wikipedia.org/w/api.php"

// Client defines the Wikimedia operations used by image acquisition.
type Client interface {
	// PageImage returns the lead image thumbnail for the page titled
	// title, or nil if the page has none.
	PageImage(ctx context.Context, title string) (*PageImageResult, error)
}

// PageImageResult is the lead image of a Wikipedia page.
type PageImageResult struct {
	Title  string
	URL    string
	Width  int
	Height int
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			Thumbnail *struct {
				Source string `json:"source"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"thumbnail"`
		} `json:"pages"`
	} `json:"query"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithThumbSize sets the requested thumbnail width in pixels.
func WithThumbSize(px int) Option {
	return func(c *httpClient) {
		c.thumbSize = px
	}
}

// WithUserAgent sets the User-Agent header. Wikimedia policy requires a
// descriptive agent with contact information.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	baseURL   string
	thumbSize int
	userAgent string
	http      *http.Client
}

// NewClient creates a Wikimedia API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		thumbSize: 800,
		userAgent: "flora-cli/1.0",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) PageImage(ctx context.Context, title string) (*PageImageResult, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "pageimages")
	q.Set("piprop", "thumbnail")
	q.Set("pithumbsize", strconv.Itoa(c.thumbSize))
	q.Set("redirects", "1")
	q.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "wikimedia: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "wikimedia: page image request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("wikimedia: page image returned %d: %s", resp.StatusCode, string(data))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "wikimedia: decode response")
	}

	for _, page := range out.Query.Pages {
		if page.Thumbnail == nil || page.Thumbnail.Source == "" {
			continue
		}
		return &PageImageResult{
			Title:  page.Title,
			URL:    page.Thumbnail.Source,
			Width:  page.Thumbnail.Width,
			Height: page.Thumbnail.Height,
		}, nil
	}
	return nil, nil
}
