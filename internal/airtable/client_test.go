package airtable

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/platform/config"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

func newTestClient(t *testing.T, baseURL string, clk clock) *Client {
	t.Helper()
	c, err := New(
		config.AirtableConfig{Token: "pat-test-token", BaseID: "appTestBase000001"},
		WithBaseURL(baseURL),
		withClock(clk),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return c
}

func recordsPage(records []map[string]any, offset string) []byte {
	page := map[string]any{"records": records}
	if offset != "" {
		page["offset"] = offset
	}
	b, _ := json.Marshal(page)
	return b
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(config.AirtableConfig{BaseID: "appX"})
	assert.Error(t, err)

	_, err = New(config.AirtableConfig{Token: "pat"})
	assert.Error(t, err)
}

// A single 429 must trigger exactly one 30-second cool-off before the retry
// goes out.
func TestRateLimitedRequestWaitsThirtySecondsOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"type":"RATE_LIMIT_REACHED","message":"slow down"}}`))
			return
		}
		_, _ = w.Write(recordsPage([]map[string]any{
			{"id": "recAAAAAAAAAAAA01", "createdTime": "2024-01-15T10:00:00.000Z", "fields": map[string]any{"Name": "MTM Certification"}},
		}, ""))
	}))
	defer srv.Close()

	clk := newFakeClock()
	client := newTestClient(t, srv.URL, clk)

	records, err := client.ListRecords(context.Background(), "Programs", ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "expected original request plus one retry")

	var coolOffs int
	for _, d := range clk.recorded() {
		if d == 30*time.Second {
			coolOffs++
		}
	}
	assert.Equal(t, 1, coolOffs, "expected exactly one 30s cool-off, got sleeps %v", clk.recorded())
}

func TestRateLimitExhaustsRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	clk := newFakeClock()
	client := newTestClient(t, srv.URL, clk)

	_, err := client.ListRecords(context.Background(), "Programs", ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls), "original request plus two retries")

	var coolOffs int
	for _, d := range clk.recorded() {
		if d == 30*time.Second {
			coolOffs++
		}
	}
	assert.Equal(t, 2, coolOffs)
}

func TestServerErrorRetriesWithExponentialBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(recordsPage([]map[string]any{
			{"id": "recAAAAAAAAAAAA02", "createdTime": "2024-01-15T10:00:00.000Z", "fields": map[string]any{}},
		}, ""))
	}))
	defer srv.Close()

	clk := newFakeClock()
	client := newTestClient(t, srv.URL, clk)

	_, err := client.ListRecords(context.Background(), "Programs", ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))

	var backoffs []time.Duration
	for _, d := range clk.recorded() {
		if d == 500*time.Millisecond || d == time.Second {
			backoffs = append(backoffs, d)
		}
	}
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, backoffs,
		"backoff should double from 500ms")
}

func TestServerErrorExhaustsRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	clk := newFakeClock()
	client := newTestClient(t, srv.URL, clk)

	_, err := client.ListRecords(context.Background(), "Programs", ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestListRecordsFollowsOffsetPagination(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)
		if offset == "" {
			_, _ = w.Write(recordsPage([]map[string]any{
				{"id": "recAAAAAAAAAAAA03", "createdTime": "2024-01-15T10:00:00.000Z", "fields": map[string]any{"Name": "Page One"}},
			}, "itrNextPage"))
			return
		}
		_, _ = w.Write(recordsPage([]map[string]any{
			{"id": "recAAAAAAAAAAAA04", "createdTime": "2024-01-15T10:00:00.000Z", "fields": map[string]any{"Name": "Page Two"}},
		}, ""))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newFakeClock())

	records, err := client.ListRecords(context.Background(), "Programs", ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"", "itrNextPage"}, offsets)
	assert.Equal(t, "Page One", records[0].String("Name"))
	assert.Equal(t, "Page Two", records[1].String("Name"))
}

func TestListRecordsEncodesQueryOptions(t *testing.T) {
	var captured map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write(recordsPage(nil, ""))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newFakeClock())

	_, err := client.ListRecords(context.Background(), "Resources", ListOptions{
		FilterByFormula: `{Category} = "patient-handouts"`,
		Fields:          []string{"Title", "File"},
		Sort:            []SortField{{Field: "Title"}, {Field: "Updated", Desc: true}},
		MaxRecords:      50,
		View:            "Published",
	})
	require.NoError(t, err)

	assert.Equal(t, `{Category} = "patient-handouts"`, captured["filterByFormula"][0])
	assert.Equal(t, []string{"Title", "File"}, captured["fields[]"])
	assert.Equal(t, "Title", captured["sort[0][field]"][0])
	assert.Equal(t, "asc", captured["sort[0][direction]"][0])
	assert.Equal(t, "Updated", captured["sort[1][field]"][0])
	assert.Equal(t, "desc", captured["sort[1][direction]"][0])
	assert.Equal(t, "50", captured["maxRecords"][0])
	assert.Equal(t, "Published", captured["view"][0])
}

func TestGetRecordMapsMissingToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"NOT_FOUND","message":"record not found"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newFakeClock())

	recID, err := id.ParseRecordID("recMissing1234567")
	require.NoError(t, err)

	_, err = client.GetRecord(context.Background(), "Programs", recID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCreateRecordSendsFieldsAndAuth(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":"recCreated1234567","createdTime":"2024-03-01T12:00:00.000Z","fields":{"Email":"pharmacist@clinic.example"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newFakeClock())

	rec, err := client.CreateRecord(context.Background(), "Enrollment Requests", map[string]any{
		"Email": "pharmacist@clinic.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer pat-test-token", gotAuth)
	fields, ok := gotBody["fields"].(map[string]any)
	require.True(t, ok, "request body must carry a fields object")
	assert.Equal(t, "pharmacist@clinic.example", fields["Email"])
	assert.Equal(t, true, gotBody["typecast"])
	assert.Equal(t, "pharmacist@clinic.example", rec.String("Email"))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_REQUEST_UNKNOWN","message":"bad formula"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newFakeClock())

	_, err := client.ListRecords(context.Background(), "Programs", ListOptions{FilterByFormula: "nope("})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "4xx responses must not be retried")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "INVALID_REQUEST_UNKNOWN", apiErr.Type)
}
