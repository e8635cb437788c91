package airtable

import (
	"context"
	"sync"
	"time"
)

// clock abstracts wall time and sleeping so rate limit behavior is testable
// without real waits.
type clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pacer spaces outbound requests a fixed interval apart. All goroutines share
// one "next available" timestamp: each caller claims the earliest free slot,
// advances it by the interval, and sleeps until its own slot arrives. Airtable
// enforces 5 requests/second per base; 220ms spacing stays under that with a
// little headroom.
type pacer struct {
	clk      clock
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newPacer(clk clock, interval time.Duration) *pacer {
	return &pacer{clk: clk, interval: interval}
}

// Wait blocks until this caller's pacing slot arrives and reports how long it
// waited. Returns early with the context error if the caller gives up first;
// the claimed slot is not returned to the pool.
func (p *pacer) Wait(ctx context.Context) (time.Duration, error) {
	p.mu.Lock()
	now := p.clk.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	wait := slot.Sub(now)
	if err := p.clk.Sleep(ctx, wait); err != nil {
		return 0, err
	}
	return wait, nil
}
