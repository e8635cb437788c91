package e2e

import (
	"github.com/cucumber/godog"

	"rxcampus/e2e/steps/auth"
	"rxcampus/e2e/steps/common"
	"rxcampus/e2e/steps/content"
	"rxcampus/e2e/steps/ratelimit"
)

// RegisterSteps hands the test context to each step package. Every package
// declares its own narrow interface over *TestContext, so a step file only
// sees the helpers it actually uses.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	content.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
