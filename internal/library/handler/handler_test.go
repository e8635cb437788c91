package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"rxcampus/internal/library/service"
	"rxcampus/internal/library/source"
)

func newLibraryRouter(t *testing.T, seed bool) chi.Router {
	t.Helper()
	src := source.NewInMemory()
	if seed {
		source.SeedDemoLibrary(src)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(service.New(src, service.WithLogger(logger)), logger)

	router := chi.NewRouter()
	h.Register(router)
	router.Post("/internal/cache/purge", h.HandleCachePurge)
	return router
}

type libraryResponse struct {
	Items []struct {
		ID        string `json:"id"`
		Category  string `json:"category"`
		Title     string `json:"title"`
		FileName  string `json:"file_name"`
		UpdatedAt string `json:"updated_at"`
	} `json:"items"`
	Categories []string `json:"categories"`
}

func getLibrary(t *testing.T, router chi.Router, target string) (*httptest.ResponseRecorder, libraryResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp libraryResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec, resp
}

func TestLibraryListShape(t *testing.T) {
	router := newLibraryRouter(t, true)

	rec, resp := getLibrary(t, router, "/api/resource-library")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	if len(resp.Items) != 7 {
		t.Fatalf("expected 7 resources, got %d", len(resp.Items))
	}
	if resp.Items[0].Title != "Immunization Standing Orders" {
		t.Fatalf("expected protocol manuals sorted first, got %q", resp.Items[0].Title)
	}
	if resp.Items[0].UpdatedAt != "2024-03-12" {
		t.Fatalf("expected date-only updated_at, got %q", resp.Items[0].UpdatedAt)
	}

	wantCats := []string{
		"protocol-manuals", "documentation-forms", "additional-resources",
		"patient-handouts", "clinical-guidelines", "medical-billing",
	}
	if len(resp.Categories) != len(wantCats) {
		t.Fatalf("expected %d categories, got %d", len(wantCats), len(resp.Categories))
	}
	for i, cat := range wantCats {
		if resp.Categories[i] != cat {
			t.Fatalf("expected category %q at %d, got %q", cat, i, resp.Categories[i])
		}
	}
}

// An empty library must render {"items":[]}, not {"items":null}.
func TestLibraryListEmpty(t *testing.T) {
	router := newLibraryRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/resource-library", nil)
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

	var cats []string
	if err := json.Unmarshal(raw["categories"], &cats); err != nil {
		t.Fatalf("failed to decode categories: %v", err)
	}
	if len(cats) != 6 {
		t.Fatalf("expected all 6 categories even when empty, got %d", len(cats))
	}
}

func TestLibraryCategoryFilter(t *testing.T) {
	router := newLibraryRouter(t, true)

	rec, resp := getLibrary(t, router, "/api/resource-library?cat=medical-billing")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 billing resource, got %d", len(resp.Items))
	}
	if resp.Items[0].Title != "CPT Codes for Pharmacist Services" {
		t.Fatalf("unexpected resource %q", resp.Items[0].Title)
	}
}

func TestLibraryUnknownCategoryIsEmptyNotError(t *testing.T) {
	router := newLibraryRouter(t, true)

	rec, resp := getLibrary(t, router, "/api/resource-library?cat=webinars")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("expected no items for unknown category, got %d", len(resp.Items))
	}
}

func TestLibrarySearchQuery(t *testing.T) {
	router := newLibraryRouter(t, true)

	rec, resp := getLibrary(t, router, "/api/resource-library?q=Hypertension")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 hypertension resources, got %d", len(resp.Items))
	}
	if resp.Items[0].Category != "patient-handouts" || resp.Items[1].Category != "clinical-guidelines" {
		t.Fatalf("unexpected category order: %q then %q", resp.Items[0].Category, resp.Items[1].Category)
	}
}

func TestLibraryCombinedFilters(t *testing.T) {
	router := newLibraryRouter(t, true)

	rec, resp := getLibrary(t, router, "/api/resource-library?cat=protocol-manuals&q=immunization")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 match, got %d", len(resp.Items))
	}
	if resp.Items[0].Title != "Immunization Standing Orders" {
		t.Fatalf("unexpected resource %q", resp.Items[0].Title)
	}
}

func TestCachePurgeWithoutCacheStillSucceeds(t *testing.T) {
	router := newLibraryRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/internal/cache/purge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "purged" {
		t.Fatalf("expected purged status, got %q", resp.Status)
	}
}

func TestResourceDownloadRedirects(t *testing.T) {
	router := newLibraryRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/resource-library/recPMAAAAAAAAAA01/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	want := "https://files.rxcampus.dev/protocol-manuals/mtm-protocol.pdf"
	if loc := rec.Header().Get("Location"); loc != want {
		t.Fatalf("expected redirect to %q, got %q", want, loc)
	}
}

func TestResourceDownloadUnknownResourceIs404(t *testing.T) {
	router := newLibraryRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/resource-library/recMISSINGAAAAA99/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestResourceDownloadWithoutFileIs404(t *testing.T) {
	router := newLibraryRouter(t, true)

	// The collaborative practice index is links-only; no stored file.
	req := httptest.NewRequest(http.MethodGet, "/api/resource-library/recARAAAAAAAAAA01/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestResourceDownloadMalformedIDIs400(t *testing.T) {
	router := newLibraryRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/resource-library/not-a-record/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
