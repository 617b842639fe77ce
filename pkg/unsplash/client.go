// Package unsplash provides a client for the Unsplash photo search API.
package unsplash

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

const defaultBaseURL = "https://api.unsplash.com"

// Client defines the Unsplash operations used by image acquisition.
type Client interface {
	Search(ctx context.Context, query string, perPage int) ([]Photo, error)
}

// Photo is a single search result.
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URL         string
}

type searchResponse struct {
	Results []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		URLs        struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
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

type httpClient struct {
	accessKey string
	baseURL   string
	http      *http.Client
}

// NewClient creates an Unsplash API client.
func NewClient(accessKey string, opts ...Option) Client {
	c := &httpClient{
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	if perPage <= 0 {
		perPage = 3
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "unsplash: build request")
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "unsplash: search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("unsplash: search returned %d: %s", resp.StatusCode, string(data))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "unsplash: decode response")
	}

	photos := make([]Photo, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URLs.Regular == "" {
			continue
		}
		photos = append(photos, Photo{
			ID:          r.ID,
			Description: r.Description,
			URL:         r.URLs.Regular,
		})
	}
	return photos, nil
}
