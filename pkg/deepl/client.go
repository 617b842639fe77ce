// Package deepl provides a client for the DeepL translation API.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api-free.deepl.com"

// Client defines the DeepL operations used by the pipeline.
type Client interface {
	// Translate translates texts into targetLang. sourceLang may be ""
	// to let DeepL detect the source language; the detected language is
	// reported per translation.
	Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (*TranslateResponse, error)
}

// TranslateResponse is the parsed DeepL response.
type TranslateResponse struct {
	Translations []Translation `json:"translations"`
}

// Translation is one translated text with its detected source language.
type Translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// Texts returns just the translated strings, in request order.
func (r *TranslateResponse) Texts() []string {
	out := make([]string, len(r.Translations))
	for i, t := range r.Translations {
		out[i] = t.Text
	}
	return out
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
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a DeepL API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type translateRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

func (c *httpClient) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (*TranslateResponse, error) {
	if len(texts) == 0 {
		return &TranslateResponse{}, nil
	}

	body, err := json.Marshal(translateRequest{
		Text:       texts,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		return nil, eris.Wrap(err, "deepl: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "deepl: build request")
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "deepl: translate request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("deepl: translate returned %d: %s", resp.StatusCode, string(data))
	}

	var out TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "deepl: decode response")
	}
	return &out, nil
}
