package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	activitymetrics "rxcampus/internal/activity/metrics"
	"rxcampus/pkg/attrs"
	"rxcampus/pkg/requestcontext"
)

// Publisher captures member activity events. Synchronous by default; with
// WithAsyncBuffer a background worker drains a bounded channel into the
// store, and a full channel drops the event rather than blocking the request.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *activitymetrics.Metrics
	now     func() time.Time

	inbox     chan Entry
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func WithPublisherMetrics(m *activitymetrics.Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// channel capacity.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) { p.inbox = make(chan Entry, size) }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. Client metadata and the timestamp are captured here,
// before the request context is gone; in async mode persistence happens on
// the worker with its own context.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	entry := Entry{
		MemberID:   event.MemberID,
		Type:       event.Type,
		Subject:    event.Subject,
		Metadata:   attrs.StringMap(event.Metadata),
		ClientIP:   event.ClientIP,
		UserAgent:  event.UserAgent,
		OccurredAt: event.OccurredAt,
	}
	if entry.ClientIP == "" {
		entry.ClientIP = requestcontext.ClientIP(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = requestcontext.UserAgent(ctx)
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = p.now()
	}

	if p.inbox == nil {
		if err := p.store.Append(ctx, entry); err != nil {
			p.metrics.IncStoreFailure()
			return err
		}
		p.metrics.IncRecorded(string(entry.Type))
		return nil
	}

	select {
	case p.inbox <- entry:
		p.metrics.IncRecorded(string(entry.Type))
	default:
		p.metrics.IncDropped()
		p.logger.WarnContext(ctx, "activity buffer full, dropping event",
			"event_type", entry.Type,
			"member_id", entry.MemberID,
		)
	}
	return nil
}

// Close stops the worker after draining buffered events. Safe to call more
// than once.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox == nil {
			return
		}
		close(p.inbox)
		p.wg.Wait()
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for entry := range p.inbox {
		if err := p.store.Append(context.Background(), entry); err != nil {
			p.metrics.IncStoreFailure()
			p.logger.Error("failed to persist activity entry",
				"event_type", entry.Type,
				"member_id", entry.MemberID,
				"error", err,
			)
		}
	}
}
