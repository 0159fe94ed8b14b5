package workflow

import (
	"context"
	"strings"

	"patientbot/internal/patient/models"
	"patientbot/pkg/requestcontext"
)

const (
	PromptName         = "Enter patient's official name."
	PromptBirthYear    = "Enter patient's birth year."
	PromptBirthMonth   = "Enter patient's birth month."
	PromptBirthDay     = "Enter patient's birth day."
	PromptPostcode     = "Enter patient's postcode."
	PromptConfirmation = "Is this okay? (yes or no)"

	MessageSearching      = "Searching for matching records"
	MessageProfileDeleted = "Okay the current profile has been deleted."
	MessageFoundOne       = "Found 1 record."
	messageFoundManyFmt   = "Found %d records. Please try again."
)

// step is one collection prompt: what to ask, how to accept an answer and
// where to go next. accept must not touch values when it rejects.
type step struct {
	next   models.Step
	prompt string
	accept func(ctx context.Context, text string, values *models.CollectedValues) (retry string, ok bool)
}

// steps is the ordered collection table. Confirmation is handled apart
// because it has side effects.
//
// Name and postcode are free text. Trimming surrounding whitespace is the only
// normalization applied to them. Case and inner spacing are kept as typed in
// session state and in the record store query. Whitespace-only answers are rejected.
var steps = map[models.Step]step{
	models.StepAwaitingName: {
		next:   models.StepAwaitingBirthYear,
		prompt: PromptName,
		accept: func(_ context.Context, text string, v *models.CollectedValues) (string, bool) {
			name := strings.TrimSpace(text)
			if name == "" {
				return PromptName, false
			}
			v.Name = name
			return "", true
		},
	},
	models.StepAwaitingBirthYear: {
		next:   models.StepAwaitingBirthMonth,
		prompt: PromptBirthYear,
		accept: func(ctx context.Context, text string, v *models.CollectedValues) (string, bool) {
			r := YearRange(requestcontext.Now(ctx))
			year, ok := ParseInRange(text, r)
			if !ok {
				return YearRetry(r), false
			}
			v.Year = year
			return "", true
		},
	},
	models.StepAwaitingBirthMonth: {
		next:   models.StepAwaitingBirthDay,
		prompt: PromptBirthMonth,
		accept: func(_ context.Context, text string, v *models.CollectedValues) (string, bool) {
			month, ok := ParseInRange(text, MonthRange)
			if !ok {
				return BetweenRetry(MonthRange), false
			}
			v.Month = month
			return "", true
		},
	},
	models.StepAwaitingBirthDay: {
		next:   models.StepAwaitingPostcode,
		prompt: PromptBirthDay,
		accept: func(_ context.Context, text string, v *models.CollectedValues) (string, bool) {
			day, ok := ParseInRange(text, DayRange)
			if !ok {
				return BetweenRetry(DayRange), false
			}
			v.Day = day
			return "", true
		},
	},
	models.StepAwaitingPostcode: {
		next:   models.StepAwaitingConfirmation,
		prompt: PromptPostcode,
		accept: func(_ context.Context, text string, v *models.CollectedValues) (string, bool) {
			postcode := strings.TrimSpace(text)
			if postcode == "" {
				return PromptPostcode, false
			}
			v.Postcode = postcode
			return "", true
		},
	},
}
