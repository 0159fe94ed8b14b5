// Package workflow drives the profile collection dialog: an explicit,
// serializable step machine persisted per conversation.
//
// AwaitingName -> AwaitingBirthYear -> AwaitingBirthMonth -> AwaitingBirthDay
// -> AwaitingPostcode -> AwaitingConfirmation -> Resolved | Restarted
//
// A rejected answer never mutates the persisted state. An accepted answer is
// persisted before Continue returns.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"patientbot/internal/patient/matcher"
	"patientbot/internal/patient/models"
	"patientbot/internal/platform/metrics"
	dErrors "patientbot/pkg/domain-errors"
	"patientbot/pkg/platform/sentinel"
)

// StateStore persists CollectionState by conversation.
// LoadState returns sentinel.ErrNotFound when no collection is in progress.
type StateStore interface {
	LoadState(ctx context.Context, conversationID string) (*models.CollectionState, error)
	SaveState(ctx context.Context, conversationID string, state *models.CollectionState) error
	DeleteState(ctx context.Context, conversationID string) error
}

// ProfileStore persists resolved profiles by user.
type ProfileStore interface {
	SaveProfile(ctx context.Context, userID string, profile *models.Profile) error
	DeleteProfile(ctx context.Context, userID string) error
}

// RecordFinder retrieves the candidate records to match against.
type RecordFinder interface {
	FindRecords(ctx context.Context) ([]models.CandidateRecord, error)
}

// Outcome labels what a turn did to the collection.
type Outcome string

const (
	OutcomePrompted  Outcome = "prompted"
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeRetry     Outcome = "retry"
	OutcomeResolved  Outcome = "resolved"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeRestarted Outcome = "restarted"
)

// Reply is the result of one collection turn.
type Reply struct {
	Messages []string
	Outcome  Outcome
	// Matches is the number of records found; set only after a confirmed search.
	Matches int
	// Profile is the resolved profile when Outcome is OutcomeResolved.
	Profile *models.Profile
}

// Workflow runs collection turns.
type Workflow struct {
	states   StateStore
	profiles ProfileStore
	records  RecordFinder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Workflow)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// New constructs a Workflow.
func New(states StateStore, profiles ProfileStore, records RecordFinder, opts ...Option) *Workflow {
	w := &Workflow{
		states:   states,
		profiles: profiles,
		records:  records,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Continue feeds one turn into the conversation's collection, starting a new
// one if none is in progress. Upstream failures are returned unchanged and
// leave the persisted state as it was.
func (w *Workflow) Continue(ctx context.Context, turn models.Turn) (*Reply, error) {
	state, err := w.states.LoadState(ctx, turn.ConversationID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return w.begin(ctx, turn.ConversationID, "")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collection state")
	}

	if state.Step == models.StepAwaitingConfirmation {
		return w.confirm(ctx, turn, state)
	}

	current, ok := steps[state.Step]
	if !ok {
		w.logger.WarnContext(ctx, "discarding collection state with unknown step",
			"conversation_id", turn.ConversationID,
			"step", string(state.Step),
		)
		return w.begin(ctx, turn.ConversationID, "")
	}

	values := state.Values
	retry, accepted := current.accept(ctx, turn.Text, &values)
	if !accepted {
		return w.reply(OutcomeRetry, retry), nil
	}

	next := &models.CollectionState{Step: current.next, Values: values}
	if err := w.save(ctx, turn.ConversationID, next); err != nil {
		return nil, err
	}

	if next.Step == models.StepAwaitingConfirmation {
		profile, err := profileFrom(values)
		if err != nil {
			return nil, err
		}
		return w.reply(OutcomeAdvanced, profile.Summary(), PromptConfirmation), nil
	}
	return w.reply(OutcomeAdvanced, steps[next.Step].prompt), nil
}

// begin persists a fresh collection and asks for the name. A restart message
// is shown ahead of the prompt.
func (w *Workflow) begin(ctx context.Context, conversationID, restartMessage string) (*Reply, error) {
	state := models.NewCollectionState(restartMessage)
	if err := w.save(ctx, conversationID, state); err != nil {
		return nil, err
	}
	if state.RestartMessage != "" {
		return w.reply(OutcomeRestarted, state.RestartMessage, PromptName), nil
	}
	return w.reply(OutcomePrompted, PromptName), nil
}

func (w *Workflow) confirm(ctx context.Context, turn models.Turn, state *models.CollectionState) (*Reply, error) {
	yes, ok := ParseConfirmation(turn.Text)
	if !ok {
		return w.reply(OutcomeRetry, PromptConfirmation), nil
	}
	if !yes {
		return w.restart(ctx, turn)
	}

	profile, err := profileFrom(state.Values)
	if err != nil {
		return nil, err
	}

	records, err := w.records.FindRecords(ctx)
	if err != nil {
		return nil, err
	}
	matches := matcher.Match(profile, records)
	w.metrics.ObserveMatches(len(matches))

	reply := &Reply{Messages: []string{MessageSearching}, Matches: len(matches)}
	if len(matches) == 1 {
		resolved := profile.Resolve(matches[0])
		if err := w.profiles.SaveProfile(ctx, turn.UserID, resolved); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
		}
		reply.Messages = append(reply.Messages, MessageFoundOne)
		reply.Outcome = OutcomeResolved
		reply.Profile = resolved
	} else {
		reply.Messages = append(reply.Messages, fmt.Sprintf(messageFoundManyFmt, len(matches)))
		reply.Outcome = OutcomeNoMatch
	}

	if err := w.states.DeleteState(ctx, turn.ConversationID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear collection state")
	}
	w.metrics.IncrementOutcome(string(reply.Outcome))
	return reply, nil
}

// restart deletes the user's profile and the collection, then starts over.
func (w *Workflow) restart(ctx context.Context, turn models.Turn) (*Reply, error) {
	if err := w.profiles.DeleteProfile(ctx, turn.UserID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
	}
	if err := w.states.DeleteState(ctx, turn.ConversationID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear collection state")
	}
	return w.begin(ctx, turn.ConversationID, MessageProfileDeleted)
}

func (w *Workflow) save(ctx context.Context, conversationID string, state *models.CollectionState) error {
	if err := w.states.SaveState(ctx, conversationID, state); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save collection state")
	}
	return nil
}

func (w *Workflow) reply(outcome Outcome, messages ...string) *Reply {
	w.metrics.IncrementOutcome(string(outcome))
	return &Reply{Messages: messages, Outcome: outcome}
}

func profileFrom(values models.CollectedValues) (*models.Profile, error) {
	profile, err := models.NewProfile(values.Name, values.DateOfBirth(), values.Postcode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "collected values do not form a profile")
	}
	return profile, nil
}
