package sink

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/airtable"
	"rxcampus/internal/enroll/models"
	"rxcampus/internal/platform/config"
)

func newAirtableSink(t *testing.T, srvURL string) *AirtableSink {
	t.Helper()
	client, err := airtable.New(
		config.AirtableConfig{Token: "pat-test-token", BaseID: "appTestBase000001"},
		airtable.WithBaseURL(srvURL),
		airtable.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return NewAirtable(client)
}

func TestAirtableSubmitCreatesRecord(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appTestBase000001/Enrollments", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		_, _ = w.Write([]byte(`{"id":"recENROLLAAAAA01","createdTime":"2024-03-12T09:00:00.000Z","fields":{}}`))
	}))
	defer srv.Close()

	err := newAirtableSink(t, srv.URL).Submit(context.Background(), models.EnrollmentRequest{
		ID:          uuid.New(),
		Name:        "Casey Tran",
		Email:       "casey.tran@rxcampus.dev",
		ProgramSlug: "mtm-certification",
		Message:     "Interested in the spring cohort.",
		SubmittedAt: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	fields, ok := gotBody["fields"].(map[string]any)
	require.True(t, ok, "request body must carry a fields object")
	assert.Equal(t, "Casey Tran", fields["Name"])
	assert.Equal(t, "casey.tran@rxcampus.dev", fields["Email"])
	assert.Equal(t, "mtm-certification", fields["Program Slug"])
	assert.Equal(t, "Interested in the spring cohort.", fields["Message"])
}

func TestAirtableSubmitOmitsEmptyOptionalFields(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		_, _ = w.Write([]byte(`{"id":"recENROLLAAAAA02","createdTime":"2024-03-12T09:00:00.000Z","fields":{}}`))
	}))
	defer srv.Close()

	err := newAirtableSink(t, srv.URL).Submit(context.Background(), models.EnrollmentRequest{
		ID:    uuid.New(),
		Name:  "Casey Tran",
		Email: "casey.tran@rxcampus.dev",
	})
	require.NoError(t, err)

	fields, ok := gotBody["fields"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, fields, "Program Slug")
	assert.NotContains(t, fields, "Message")
}

func TestAirtableSubmitSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Unknown field name"}}`))
	}))
	defer srv.Close()

	err := newAirtableSink(t, srv.URL).Submit(context.Background(), models.EnrollmentRequest{
		ID:    uuid.New(),
		Name:  "Casey Tran",
		Email: "casey.tran@rxcampus.dev",
	})
	require.Error(t, err)

	var apiErr *airtable.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}
