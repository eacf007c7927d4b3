package e2e

import (
	"github.com/cucumber/godog"

	"baseapi/e2e/steps/common"
	"baseapi/e2e/steps/examples"
	"baseapi/e2e/steps/status"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	examples.RegisterSteps(ctx, tc)
	status.RegisterSteps(ctx, tc)
}
