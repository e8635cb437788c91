package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rxcampus/internal/activity"
	librarymetrics "rxcampus/internal/library/metrics"
	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/sentinel"
	pstrings "rxcampus/pkg/platform/strings"
	"rxcampus/pkg/requestcontext"
)

// Source fetches every resource row for one category.
type Source interface {
	FetchCategory(ctx context.Context, cat id.Category) ([]models.Resource, error)
}

// ActivityPublisher records resource downloads for logged-in members.
// Publishing must never fail a download.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Cache stores assembled snapshots. A cache miss is sentinel.ErrNotFound.
type Cache interface {
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
	SetSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// Filter narrows a library listing. Zero value means everything.
type Filter struct {
	// Category is the raw cat query parameter. Unknown values match nothing.
	Category string
	// Query matches case-insensitively against title, description, and tags.
	Query string
}

// Service assembles, caches, and filters the resource library. Snapshots are
// built by fetching all categories concurrently; categories that fail are
// dropped from that snapshot rather than failing the request.
type Service struct {
	source   Source
	cache    Cache
	cacheTTL time.Duration
	activity ActivityPublisher
	logger   *slog.Logger
	metrics  *librarymetrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache enables snapshot caching. Without it every request assembles a
// fresh snapshot.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *librarymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithActivity publishes resource downloads to the activity feed.
func WithActivity(publisher ActivityPublisher) Option {
	return func(s *Service) { s.activity = publisher }
}

func withNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Browse returns the filtered library listing, serving from the cached
// snapshot when one is live.
func (s *Service) Browse(ctx context.Context, f Filter) ([]models.Resource, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilter(snap.Items, f), nil
}

// Download resolves a resource's file URL for redirecting, landing the
// download in the member's activity feed. Resources without a stored file
// are treated as absent.
func (s *Service) Download(ctx context.Context, rawResourceID string) (*models.Resource, error) {
	resourceID, err := id.ParseRecordID(rawResourceID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range snap.Items {
		if item.ID != resourceID.String() {
			continue
		}
		if item.FileURL == "" {
			return nil, dErrors.New(dErrors.CodeNotFound, "resource has no downloadable file")
		}
		s.recordDownload(ctx, item)
		found := item
		return &found, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "resource not found")
}

// recordDownload lands a download in the member's activity feed. Anonymous
// downloads are not tracked.
func (s *Service) recordDownload(ctx context.Context, item models.Resource) {
	if s.activity == nil {
		return
	}
	memberID := requestcontext.MemberID(ctx)
	if memberID.IsNil() {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		MemberID: memberID,
		Type:     activity.EventResourceDownloaded,
		Subject:  item.ID,
		Metadata: []any{"title", item.Title, "category", item.Category},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record resource download",
			"resource_id", item.ID,
			"error", err,
		)
	}
}

// PurgeCache drops the cached snapshot so the next request rebuilds it.
func (s *Service) PurgeCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Purge(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "cache purge failed")
	}
	s.logger.InfoContext(ctx, "library cache purged")
	return nil
}

func (s *Service) snapshot(ctx context.Context) (*models.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx)
		switch {
		case err == nil:
			s.metrics.IncCacheHit()
			return snap, nil
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncCacheMiss()
		default:
			// Cache outage must not take the library down.
			s.metrics.IncCacheError()
			s.logger.WarnContext(ctx, "library cache read failed", "error", err)
		}
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snap, s.cacheTTL); err != nil {
			s.metrics.IncCacheError()
			s.logger.WarnContext(ctx, "library cache write failed", "error", err)
		}
	}
	return snap, nil
}

// build fetches all categories concurrently and merges the successes.
func (s *Service) build(ctx context.Context) (*models.Snapshot, error) {
	cats := id.Categories()
	results := make([][]models.Resource, len(cats))
	failed := make([]bool, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			items, err := s.source.FetchCategory(gctx, cat)
			if err != nil {
				failed[i] = true
				s.metrics.IncFetchFailure(cat.String())
				s.logger.WarnContext(gctx, "category fetch failed, dropping from snapshot",
					"category", cat.String(),
					"error", err,
				)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	snap := &models.Snapshot{FetchedAt: s.now()}
	allFailed := true
	for i, items := range results {
		if failed[i] {
			snap.FailedCategories = append(snap.FailedCategories, cats[i].String())
			continue
		}
		allFailed = false
		snap.Items = append(snap.Items, items...)
	}
	if allFailed {
		return nil, dErrors.New(dErrors.CodeUnavailable, "content source unavailable")
	}

	sort.SliceStable(snap.Items, func(i, j int) bool {
		a, b := snap.Items[i], snap.Items[j]
		if a.Category.Order() != b.Category.Order() {
			return a.Category.Order() < b.Category.Order()
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})

	s.metrics.IncSnapshotBuilt()
	return snap, nil
}

func applyFilter(items []models.Resource, f Filter) []models.Resource {
	out := make([]models.Resource, 0, len(items))

	var cat id.Category
	if raw := strings.TrimSpace(f.Category); raw != "" {
		parsed, err := id.ParseCategory(raw)
		if err != nil {
			// Unknown categories match nothing rather than erroring.
			return out
		}
		cat = parsed
	}
	query := strings.TrimSpace(f.Query)

	for _, item := range items {
		if cat != "" && item.Category != cat {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item models.Resource, query string) bool {
	if pstrings.ContainsFold(item.Title, query) || pstrings.ContainsFold(item.Description, query) {
		return true
	}
	for _, tag := range item.Tags {
		if pstrings.ContainsFold(tag, query) {
			return true
		}
	}
	return false
}
