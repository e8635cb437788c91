// Package common holds the generic request and assertion steps every feature
// leans on.
package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is what the generic steps need from the main test context.
type TestContext interface {
	GET(path string, headers map[string]string) error
	POST(path string, body interface{}) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers the generic request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I POST "([^"]*)" with body:$`, steps.postWithBody)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response should contain field "([^"]*)"$`, steps.shouldContainField)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
	ctx.Step(`^the response list "([^"]*)" should not be empty$`, steps.listShouldNotBeEmpty)
	ctx.Step(`^the response list "([^"]*)" should be empty$`, steps.listShouldBeEmpty)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) postWithBody(ctx context.Context, path string, doc *godog.DocString) error {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(doc.Content), &body); err != nil {
		return fmt.Errorf("docstring is not JSON: %w", err)
	}
	return s.tc.POST(path, body)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d (body %s)",
			expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprintf("%v", value) != expected {
		return fmt.Errorf("expected field %q to be %q, got %v", field, expected, value)
	}
	return nil
}

func (s *commonSteps) shouldContainField(ctx context.Context, field string) error {
	_, err := s.tc.GetResponseField(field)
	return err
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, expected string) error {
	return s.fieldShouldBe(ctx, "error", expected)
}

func (s *commonSteps) listShouldNotBeEmpty(ctx context.Context, field string) error {
	items, err := s.list(field)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("expected list %q to have entries", field)
	}
	return nil
}

func (s *commonSteps) listShouldBeEmpty(ctx context.Context, field string) error {
	items, err := s.list(field)
	if err != nil {
		return err
	}
	if len(items) != 0 {
		return fmt.Errorf("expected list %q to be empty, got %d entries", field, len(items))
	}
	return nil
}

func (s *commonSteps) list(field string) ([]interface{}, error) {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return nil, err
	}
	items, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q is not a list: %v", field, value)
	}
	return items, nil
}
