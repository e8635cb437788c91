// Package ratelimit holds steps around the per-address request budgets.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is what the rate limit steps need from the main test context.
type TestContext interface {
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers rate limit step definitions. They assume the target
// server runs with rate limiting enabled, which is the default.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^the response should include rate limit headers$`, steps.shouldIncludeHeaders)
	ctx.Step(`^I note the rate limit budget$`, steps.noteBudget)
	ctx.Step(`^the rate limit budget should be tighter than the noted one$`, steps.budgetTighterThanNoted)
}

type ratelimitSteps struct {
	tc TestContext

	notedBudget int
}

func (s *ratelimitSteps) shouldIncludeHeaders(ctx context.Context) error {
	for _, name := range []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"} {
		if s.tc.GetLastResponseHeader(name) == "" {
			return fmt.Errorf("header %s missing from response", name)
		}
	}
	return nil
}

func (s *ratelimitSteps) noteBudget(ctx context.Context) error {
	budget, err := s.currentBudget()
	if err != nil {
		return err
	}
	s.notedBudget = budget
	return nil
}

func (s *ratelimitSteps) budgetTighterThanNoted(ctx context.Context) error {
	if s.notedBudget == 0 {
		return fmt.Errorf("no budget was noted earlier in the scenario")
	}
	budget, err := s.currentBudget()
	if err != nil {
		return err
	}
	if budget >= s.notedBudget {
		return fmt.Errorf("expected a budget below %d, got %d", s.notedBudget, budget)
	}
	return nil
}

func (s *ratelimitSteps) currentBudget() (int, error) {
	raw := s.tc.GetLastResponseHeader("X-RateLimit-Limit")
	if raw == "" {
		return 0, fmt.Errorf("X-RateLimit-Limit missing from response")
	}
	budget, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("X-RateLimit-Limit %q is not a number", raw)
	}
	return budget, nil
}
