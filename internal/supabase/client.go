// Package supabase provides thin clients for the two Supabase surfaces this
// project uses: PostgREST for relational reads and writes, and Storage for
// hosted files. Authentication is key-based; reads run under the anon key and
// the migration runs under the service role key.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rxcampus/internal/platform/config"
	"rxcampus/pkg/platform/sentinel"
)

// Client is an authenticated handle on one Supabase project.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client, config.SupabaseConfig)

// WithServiceRole authenticates with the service role key instead of the anon
// key. Storage writes and mirror upserts need this; request paths never do.
func WithServiceRole() Option {
	return func(c *Client, cfg config.SupabaseConfig) { c.apiKey = cfg.ServiceKey }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client, _ config.SupabaseConfig) { c.httpClient = hc }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client, _ config.SupabaseConfig) { c.logger = l }
}

// New builds a Client from project configuration, defaulting to the anon key.
func New(cfg config.SupabaseConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase: project URL is required")
	}

	c := &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.AnonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c, cfg)
	}
	if c.apiKey == "" {
		return nil, errors.New("supabase: API key is required")
	}
	return c, nil
}

// do sends one request with both auth headers set and maps the common error
// statuses onto sentinels. Callers own the request body and extra headers.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, prepare func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if prepare != nil {
		prepare(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, sentinel.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%s: %w", errorMessage(respBody), sentinel.ErrConflict)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("supabase returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("supabase returned %d: %s", resp.StatusCode, errorMessage(respBody))
	}

	return respBody, nil
}

// errorMessage extracts the message from a Supabase error body, falling back
// to the raw payload.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Msg != "":
			return e.Msg
		case e.Error != "":
			return e.Error
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
