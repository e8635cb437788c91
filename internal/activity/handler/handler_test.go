package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rxcampus/internal/activity"
	"rxcampus/internal/activity/store/memory"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/testutil"
)

func newActivityRouter(t *testing.T, store *memory.InMemoryStore, memberID id.MemberID) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(activity.NewService(store, activity.WithServiceLogger(logger)), logger)

	router := chi.NewRouter()
	if !memberID.IsNil() {
		router.Use(testutil.AuthInjector(memberID, id.SessionID(uuid.New())))
	}
	h.Register(router)
	return router
}

func seedEntry(t *testing.T, store *memory.InMemoryStore, memberID id.MemberID, eventType activity.EventType, subject, ua string, at time.Time) {
	t.Helper()
	err := store.Append(context.Background(), activity.Entry{
		MemberID:   memberID,
		Type:       eventType,
		Subject:    subject,
		UserAgent:  ua,
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
}

func TestActivityFeedShape(t *testing.T) {
	store := memory.NewInMemoryStore()
	memberID := id.MemberID(uuid.New())
	base := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)
	chromeUA := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	seedEntry(t, store, memberID, activity.EventLogin, "", chromeUA, base)
	seedEntry(t, store, memberID, activity.EventProgramViewed, "mtm-certification", chromeUA, base.Add(time.Minute))

	router := newActivityRouter(t, store, memberID)
	req := httptest.NewRequest(http.MethodGet, "/me/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Items []struct {
			EventType  string `json:"event_type"`
			Subject    string `json:"subject"`
			Device     string `json:"device"`
			OccurredAt string `json:"occurred_at"`
		} `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].EventType != "program_viewed" {
		t.Fatalf("expected newest event first, got %q", resp.Items[0].EventType)
	}
	if resp.Items[0].Subject != "mtm-certification" {
		t.Fatalf("unexpected subject %q", resp.Items[0].Subject)
	}
	if resp.Items[0].Device == "" || resp.Items[0].Device == "Unknown Device" {
		t.Fatalf("expected a derived device label, got %q", resp.Items[0].Device)
	}
	if resp.Items[0].OccurredAt != "2024-03-12T09:01:00Z" {
		t.Fatalf("unexpected occurred_at %q", resp.Items[0].OccurredAt)
	}
}

func TestActivityFeedEmpty(t *testing.T) {
	store := memory.NewInMemoryStore()
	memberID := id.MemberID(uuid.New())

	router := newActivityRouter(t, store, memberID)
	req := httptest.NewRequest(http.MethodGet, "/me/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["items"]) != "[]" {
		t.Fatalf("expected items to be [], got %s", raw["items"])
	}
}

func TestActivityFeedLimit(t *testing.T) {
	store := memory.NewInMemoryStore()
	memberID := id.MemberID(uuid.New())
	base := time.Now()
	for i := 0; i < 5; i++ {
		seedEntry(t, store, memberID, activity.EventLogin, "", "", base.Add(time.Duration(i)*time.Minute))
	}

	router := newActivityRouter(t, store, memberID)
	req := httptest.NewRequest(http.MethodGet, "/me/activity?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
}

func TestActivityFeedRejectsBadLimit(t *testing.T) {
	store := memory.NewInMemoryStore()
	memberID := id.MemberID(uuid.New())

	router := newActivityRouter(t, store, memberID)
	req := httptest.NewRequest(http.MethodGet, "/me/activity?limit=soon", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestActivityFeedRequiresMember(t *testing.T) {
	store := memory.NewInMemoryStore()

	router := newActivityRouter(t, store, id.MemberID{})
	req := httptest.NewRequest(http.MethodGet, "/me/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
