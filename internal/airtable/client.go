// Package airtable is a REST client for one Airtable base, shaped around the
// constraints of Airtable's public API: a 5 requests/second budget per base,
// 429 responses that demand a long cool-off, and transient 5xx responses.
//
// All requests from all goroutines flow through a shared pacer so the process
// as a whole honors the budget, not each caller individually.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rxcampus/internal/airtable/metrics"
	"rxcampus/internal/platform/config"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"

	// requestInterval spaces outbound requests; 220ms keeps us under the
	// 5 req/s budget with headroom for clock skew.
	requestInterval = 220 * time.Millisecond

	// rateLimitWait is Airtable's documented cool-off after a 429. The wait
	// is fixed, not exponential; retrying sooner extends the penalty window.
	rateLimitWait = 30 * time.Second

	// maxRateLimitRetries bounds 429 retries per request.
	maxRateLimitRetries = 2

	// serverErrorBackoff is the first wait after a 5xx; doubles per retry.
	serverErrorBackoff = 500 * time.Millisecond

	// maxServerErrorRetries bounds 5xx and transport-error retries per request.
	maxServerErrorRetries = 2
)

// Client talks to a single Airtable base.
type Client struct {
	token      string
	baseID     string
	baseURL    string
	httpClient *http.Client
	clk        clock
	pacer      *pacer
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API root, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches client metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// withClock swaps the time source; tests use this to make waits instant.
func withClock(clk clock) Option {
	return func(c *Client) { c.clk = clk }
}

// New builds a Client for the configured base.
func New(cfg config.AirtableConfig, opts ...Option) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("airtable: token is required")
	}
	if cfg.BaseID == "" {
		return nil, errors.New("airtable: base ID is required")
	}

	c := &Client{
		token:      cfg.Token,
		baseID:     cfg.BaseID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clk:        realClock{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pacer = newPacer(c.clk, requestInterval)
	return c, nil
}

// ListRecords fetches records from a table, following offset pagination until
// the table (or opts.MaxRecords) is exhausted.
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	query := encodeListQuery(opts)

	var all []Record
	offset := ""
	for {
		if offset != "" {
			query.Set("offset", offset)
		}

		body, err := c.do(ctx, "list", http.MethodGet, c.tableURL(table), query, nil)
		if err != nil {
			return nil, fmt.Errorf("list records from %q: %w", table, err)
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode record page from %q: %w", table, err)
		}

		all = append(all, page.Records...)
		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			return all[:opts.MaxRecords], nil
		}
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// GetRecord fetches a single record by ID. Missing records yield
// sentinel.ErrNotFound.
func (c *Client) GetRecord(ctx context.Context, table string, recordID id.RecordID) (*Record, error) {
	body, err := c.do(ctx, "get", http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(recordID.String()), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get record %s from %q: %w", recordID, table, err)
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", recordID, err)
	}
	return &rec, nil
}

// CreateRecord appends one record to a table and returns it as stored,
// including the assigned record ID. Typecast lets Airtable coerce select
// options that do not exist yet.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	payload := struct {
		Fields   map[string]any `json:"fields"`
		Typecast bool           `json:"typecast"`
	}{Fields: fields, Typecast: true}

	body, err := c.do(ctx, "create", http.MethodPost, c.tableURL(table), nil, payload)
	if err != nil {
		return nil, fmt.Errorf("create record in %q: %w", table, err)
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode created record: %w", err)
	}
	return &rec, nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// do runs one logical API call: pace, send, and retry per the rate limit and
// server error policies. Every attempt, including retries, waits for its own
// pacing slot first.
func (c *Client) do(ctx context.Context, operation, method, rawURL string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	reqURL := rawURL
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	rateRetries := 0
	serverRetries := 0

	for {
		waited, err := c.pacer.Wait(ctx)
		if err != nil {
			return nil, err
		}
		c.metrics.AddThrottleWait(waited)

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if len(payload) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport failures share the server error retry budget.
			c.metrics.IncRequest(operation, "error")
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if serverRetries >= maxServerErrorRetries {
				return nil, fmt.Errorf("request failed after %d retries: %w", serverRetries, lastErr)
			}
			if err := c.backoffServerError(ctx, operation, serverRetries, 0); err != nil {
				return nil, err
			}
			serverRetries++
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read response body: %w", readErr)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			c.metrics.IncRequest(operation, "429")
			if rateRetries >= maxRateLimitRetries {
				return nil, fmt.Errorf("rate limit persisted after %d retries: %w", rateRetries, sentinel.ErrUnavailable)
			}
			c.logger.WarnContext(ctx, "airtable rate limited, cooling off",
				"operation", operation,
				"wait", rateLimitWait.String(),
				"attempt", rateRetries+1,
			)
			c.metrics.IncRetry("rate_limited")
			if err := c.clk.Sleep(ctx, rateLimitWait); err != nil {
				return nil, err
			}
			rateRetries++
			continue

		case resp.StatusCode >= 500:
			c.metrics.IncRequest(operation, "5xx")
			lastErr = fmt.Errorf("airtable returned %d", resp.StatusCode)
			if serverRetries >= maxServerErrorRetries {
				return nil, fmt.Errorf("server error persisted after %d retries: %w: %w", serverRetries, lastErr, sentinel.ErrUnavailable)
			}
			if err := c.backoffServerError(ctx, operation, serverRetries, resp.StatusCode); err != nil {
				return nil, err
			}
			serverRetries++
			continue

		case resp.StatusCode == http.StatusNotFound:
			c.metrics.IncRequest(operation, "4xx")
			return nil, sentinel.ErrNotFound

		case resp.StatusCode >= 400:
			c.metrics.IncRequest(operation, "4xx")
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var envelope errorEnvelope
			if err := json.Unmarshal(respBody, &envelope); err == nil {
				apiErr.Type = envelope.Error.Type
				apiErr.Message = envelope.Error.Message
			}
			return nil, apiErr

		default:
			c.metrics.IncRequest(operation, "2xx")
			return respBody, nil
		}
	}
}

// backoffServerError sleeps 500ms doubled per prior retry (500ms, then 1s).
func (c *Client) backoffServerError(ctx context.Context, operation string, priorRetries, status int) error {
	wait := serverErrorBackoff << priorRetries
	c.logger.WarnContext(ctx, "airtable server error, retrying",
		"operation", operation,
		"status", status,
		"wait", wait.String(),
		"attempt", priorRetries+1,
	)
	c.metrics.IncRetry("server_error")
	return c.clk.Sleep(ctx, wait)
}

func encodeListQuery(opts ListOptions) url.Values {
	query := url.Values{}
	if opts.FilterByFormula != "" {
		query.Set("filterByFormula", opts.FilterByFormula)
	}
	for _, f := range opts.Fields {
		query.Add("fields[]", f)
	}
	for i, s := range opts.Sort {
		query.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		direction := "asc"
		if s.Desc {
			direction = "desc"
		}
		query.Set(fmt.Sprintf("sort[%d][direction]", i), direction)
	}
	if opts.MaxRecords > 0 {
		query.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.View != "" {
		query.Set("view", opts.View)
	}
	if opts.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	return query
}
