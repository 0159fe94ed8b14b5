package e2e

import (
	"github.com/cucumber/godog"

	"patientbot/e2e/steps/conversation"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	conversation.RegisterSteps(ctx, tc)
}
