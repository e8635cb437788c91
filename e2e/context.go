// Package e2e drives black-box scenarios against a running rxcampus server.
//
// The suite is opt-in: point RXCAMPUS_E2E_URL at a server carrying the default
// demo seed and rate limiting enabled, then run go test from this directory.
// Without the variable the test binary skips.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds the HTTP client and the last response, shared by every
// step package through the narrow interfaces they declare.
type TestContext struct {
	baseURL string
	client  *http.Client

	accessToken string

	lastStatus int
	lastBody   []byte
	lastHeader http.Header
}

// NewTestContext builds a context targeting baseURL.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state so scenarios stay independent.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastHeader = nil
}

// POST sends a JSON request and records the response.
func (tc *TestContext) POST(path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

// GET sends a request and records the response.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

// do attaches the scenario's bearer token when one was captured and no step
// overrode the header.
func (tc *TestContext) do(req *http.Request) error {
	if tc.accessToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	tc.lastHeader = resp.Header
	return nil
}

// GetLastResponseStatus returns the status code of the last response.
func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

// GetLastResponseBody returns the raw body of the last response.
func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetLastResponseHeader returns one header of the last response.
func (tc *TestContext) GetLastResponseHeader(name string) string {
	if tc.lastHeader == nil {
		return ""
	}
	return tc.lastHeader.Get(name)
}

// GetResponseField digs a top-level field out of the last JSON body.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(tc.lastBody, &payload); err != nil {
		return nil, fmt.Errorf("last response is not a JSON object: %w", err)
	}
	value, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, tc.lastBody)
	}
	return value, nil
}

// GetAccessToken returns the captured bearer token, if any.
func (tc *TestContext) GetAccessToken() string { return tc.accessToken }

// SetAccessToken captures a bearer token for subsequent requests.
func (tc *TestContext) SetAccessToken(token string) { tc.accessToken = token }

// DemoEmail returns the seeded member's email, overridable for deployments
// with a different seed.
func (tc *TestContext) DemoEmail() string {
	if v := os.Getenv("RXCAMPUS_E2E_EMAIL"); v != "" {
		return v
	}
	return "member@rxcampus.dev"
}

// DemoPassword returns the seeded member's password.
func (tc *TestContext) DemoPassword() string {
	if v := os.Getenv("RXCAMPUS_E2E_PASSWORD"); v != "" {
		return v
	}
	return "rx-demo-2024"
}
