package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"rxcampus/internal/ratelimit/models"
	"rxcampus/internal/ratelimit/service"
	"rxcampus/internal/ratelimit/store/bucket"
	"rxcampus/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type limiterStub struct {
	result   *models.Result
	err      error
	calls    int
	gotIP    string
	gotClass models.EndpointClass
}

func (l *limiterStub) CheckIP(_ context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	l.calls++
	l.gotIP = ip
	l.gotClass = class
	if l.err != nil {
		return nil, l.err
	}
	return l.result, nil
}

func serveLimited(m *Middleware, class models.EndpointClass, ip string) *httptest.ResponseRecorder {
	handler := m.RateLimit(class)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/clinical-programs", nil)
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "test-agent"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsAndSetsHeaders(t *testing.T) {
	resetAt := time.Now().Add(42 * time.Second)
	stub := &limiterStub{result: &models.Result{
		Allowed:   true,
		Limit:     60,
		Remaining: 59,
		ResetAt:   resetAt,
	}}
	m := New(stub, discardLogger())

	rec := serveLimited(m, models.ClassContent, "203.0.113.7")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "60" {
		t.Fatalf("expected limit header 60, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "59" {
		t.Fatalf("expected remaining header 59, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Reset"); got != strconv.FormatInt(resetAt.Unix(), 10) {
		t.Fatalf("expected reset header %d, got %q", resetAt.Unix(), got)
	}
	if stub.gotIP != "203.0.113.7" {
		t.Fatalf("expected limiter to see client IP from context, got %q", stub.gotIP)
	}
	if stub.gotClass != models.ClassContent {
		t.Fatalf("expected limiter to see content class, got %q", stub.gotClass)
	}
}

func TestRateLimitDeniesWithRetryAfter(t *testing.T) {
	stub := &limiterStub{result: &models.Result{
		Allowed:    false,
		Limit:      10,
		Remaining:  0,
		ResetAt:    time.Now().Add(17 * time.Second),
		RetryAfter: 17,
	}}
	m := New(stub, discardLogger())

	rec := serveLimited(m, models.ClassAuth, "203.0.113.7")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "17" {
		t.Fatalf("expected Retry-After 17, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining header 0, got %q", got)
	}

	var body struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
		RetryAfter  int    `json:"retry_after"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "rate_limit_exceeded" {
		t.Fatalf("expected rate_limit_exceeded, got %q", body.Error)
	}
	if body.Description == "" {
		t.Fatal("expected an error description")
	}
	if body.RetryAfter != 17 {
		t.Fatalf("expected retry_after 17, got %d", body.RetryAfter)
	}
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	stub := &limiterStub{err: errors.New("limiter backend down")}
	m := New(stub, discardLogger())

	rec := serveLimited(m, models.ClassContent, "203.0.113.7")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected request to pass through on limiter failure, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "" {
		t.Fatalf("expected no budget headers on fail-open, got %q", got)
	}
}

func TestRateLimitDisabledSkipsLimiter(t *testing.T) {
	stub := &limiterStub{}
	m := New(stub, discardLogger(), WithDisabled(true))

	rec := serveLimited(m, models.ClassContent, "203.0.113.7")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.calls != 0 {
		t.Fatalf("expected limiter to be skipped when disabled, got %d calls", stub.calls)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "" {
		t.Fatalf("expected no budget headers when disabled, got %q", got)
	}
}

func TestRateLimitEndToEnd(t *testing.T) {
	limiter, err := service.New(bucket.New(),
		service.WithLogger(discardLogger()),
		service.WithLimits(map[models.EndpointClass]service.Limit{
			models.ClassContent: {Requests: 2, Window: time.Minute},
		}),
	)
	if err != nil {
		t.Fatalf("failed to build limiter: %v", err)
	}
	m := New(limiter, discardLogger())

	for i, wantRemaining := range []string{"1", "0"} {
		rec := serveLimited(m, models.ClassContent, "198.51.100.4")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: expected remaining %s, got %q", i+1, wantRemaining, got)
		}
	}

	rec := serveLimited(m, models.ClassContent, "198.51.100.4")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be throttled, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on throttled response")
	}

	// A different address still has its full budget.
	other := serveLimited(m, models.ClassContent, "203.0.113.250")
	if other.Code != http.StatusNoContent {
		t.Fatalf("expected other address to pass, got %d", other.Code)
	}
}
