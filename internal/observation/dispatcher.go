// Package observation answers follow-up questions about a resolved patient:
// it maps a recognized intent to an observation category, fetches the data
// points and formats them as chat messages.
package observation

import (
	"context"
	"log/slog"

	"patientbot/internal/patient/models"
	dErrors "patientbot/pkg/domain-errors"
)

const (
	MessageNotUnderstood = "Sorry I don't understand what you mean."
	MessageNoData        = "No data points available"
)

// categories is the closed intent table. Anything else, including "None",
// is not understood.
var categories = map[string]string{
	"getBloodPressure": "Blood Pressure",
	"getWeight":        "weight",
	"getHeight":        "height",
}

// CategoryFor returns the observation category an intent asks for.
func CategoryFor(intent string) (string, bool) {
	category, ok := categories[intent]
	return category, ok
}

// Fetcher retrieves observations.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Result, error)
}

// Answer is the reply to a follow-up question.
type Answer struct {
	Messages []string
	// Category is the fetch tool's label; empty when the intent was unmapped.
	Category string
	Mapped   bool
}

// Dispatcher routes intents to observation fetches.
type Dispatcher struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(fetcher Fetcher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{fetcher: fetcher, logger: logger}
}

// Dispatch answers intent for profile. Unmapped intents make no remote call.
func (d *Dispatcher) Dispatch(ctx context.Context, profile *models.Profile, intent string) (*Answer, error) {
	category, ok := CategoryFor(intent)
	if !ok {
		return &Answer{Messages: []string{MessageNotUnderstood}}, nil
	}
	if !profile.IsResolved() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "observations require a resolved profile")
	}

	result, err := d.fetcher.Fetch(ctx, Query{PatientID: profile.RecordID, Category: category})
	if err != nil {
		return nil, err
	}

	answer := &Answer{Category: result.Category, Mapped: true}
	if len(result.Observations) == 0 {
		answer.Messages = []string{MessageNoData}
		return answer, nil
	}
	answer.Messages = make([]string, 0, len(result.Observations))
	for _, o := range result.Observations {
		answer.Messages = append(answer.Messages, Render(o))
	}
	return answer, nil
}
