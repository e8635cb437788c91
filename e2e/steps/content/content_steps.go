// Package content holds the catalog and resource library step definitions.
package content

import (
	"context"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext is what the content steps need from the main test context.
type TestContext interface {
	GET(path string, headers map[string]string) error
}

// RegisterSteps registers catalog and library step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &contentSteps{tc: tc}

	ctx.Step(`^I list the clinical programs$`, steps.listPrograms)
	ctx.Step(`^I browse programs for slug "([^"]*)"$`, steps.browseProgramsBySlug)
	ctx.Step(`^I browse the resource library category "([^"]*)"$`, steps.browseCategory)
	ctx.Step(`^I search the resource library for "([^"]*)"$`, steps.searchLibrary)
}

type contentSteps struct {
	tc TestContext
}

func (s *contentSteps) listPrograms(ctx context.Context) error {
	return s.tc.GET("/api/clinical-programs", nil)
}

func (s *contentSteps) browseProgramsBySlug(ctx context.Context, slug string) error {
	return s.tc.GET("/api/clinical-programs?programSlug="+url.QueryEscape(slug), nil)
}

func (s *contentSteps) browseCategory(ctx context.Context, category string) error {
	return s.tc.GET("/api/resource-library?cat="+url.QueryEscape(category), nil)
}

func (s *contentSteps) searchLibrary(ctx context.Context, query string) error {
	return s.tc.GET("/api/resource-library?q="+url.QueryEscape(query), nil)
}
