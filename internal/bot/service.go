// Package bot routes each inbound turn. A user with a resolved profile is
// asking a follow-up question; everyone else is inside profile collection.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"patientbot/internal/observation"
	"patientbot/internal/patient/models"
	"patientbot/internal/platform/metrics"
	"patientbot/internal/upstream"
	"patientbot/internal/workflow"
	"patientbot/pkg/attrs"
	dErrors "patientbot/pkg/domain-errors"
	"patientbot/pkg/platform/sentinel"
	"patientbot/pkg/requestcontext"
)

// Routes a turn can take.
const (
	RouteCollection = "collection"
	RouteQuery      = "query"
)

// ProfileReader loads a user's resolved profile.
// Returns sentinel.ErrNotFound when the user has none.
type ProfileReader interface {
	LoadProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// Collector runs one turn of profile collection.
type Collector interface {
	Continue(ctx context.Context, turn models.Turn) (*workflow.Reply, error)
}

// Recognizer names the intent of a message.
type Recognizer interface {
	Recognize(ctx context.Context, text string) (string, error)
}

// Dispatcher answers an intent for a resolved profile.
type Dispatcher interface {
	Dispatch(ctx context.Context, profile *models.Profile, intent string) (*observation.Answer, error)
}

// Response is what the bot sends back for one turn.
type Response struct {
	Messages []string `json:"messages"`
	Route    string   `json:"-"`
}

// Service handles turns.
type Service struct {
	profiles   ProfileReader
	collector  Collector
	recognizer Recognizer
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(profiles ProfileReader, collector Collector, recognizer Recognizer, dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{
		profiles:   profiles,
		collector:  collector,
		recognizer: recognizer,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleTurn routes one turn and returns the messages to send.
//
// Upstream failures come back as dErrors with CodeTimeout or
// CodeUpstreamUnavailable; the persisted session is left as it was.
func (s *Service) HandleTurn(ctx context.Context, turn models.Turn) (*Response, error) {
	if strings.TrimSpace(turn.ConversationID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "conversation_id is required")
	}
	if strings.TrimSpace(turn.UserID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	ctx = requestcontext.WithTurn(ctx, turn.ConversationID, turn.UserID)

	profile, err := s.profiles.LoadProfile(ctx, turn.UserID)
	switch {
	case err == nil && profile.IsResolved():
		return s.answer(ctx, turn, profile)
	case err == nil, errors.Is(err, sentinel.ErrNotFound):
		return s.collect(ctx, turn)
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
}

func (s *Service) collect(ctx context.Context, turn models.Turn) (*Response, error) {
	s.metrics.IncrementTurn(RouteCollection)

	reply, err := s.collector.Continue(ctx, turn)
	if err != nil {
		return nil, s.translate(ctx, RouteCollection, err)
	}

	switch reply.Outcome {
	case workflow.OutcomeResolved:
		s.logAudit(ctx, "profile_resolved", "record_id", reply.Profile.RecordID)
	case workflow.OutcomeNoMatch:
		s.logAudit(ctx, "profile_unresolved", "matches", reply.Matches)
	case workflow.OutcomeRestarted:
		s.logAudit(ctx, "profile_deleted")
	}
	return &Response{Messages: reply.Messages, Route: RouteCollection}, nil
}

func (s *Service) answer(ctx context.Context, turn models.Turn, profile *models.Profile) (*Response, error) {
	s.metrics.IncrementTurn(RouteQuery)

	intent, err := s.recognizer.Recognize(ctx, turn.Text)
	if err != nil {
		return nil, s.translate(ctx, RouteQuery, err)
	}
	s.metrics.IncrementIntent(intent)

	answer, err := s.dispatcher.Dispatch(ctx, profile, intent)
	if err != nil {
		return nil, s.translate(ctx, RouteQuery, err)
	}
	if answer.Mapped {
		s.logAudit(ctx, "observations_answered",
			"intent", intent,
			"category", answer.Category,
			"record_id", profile.RecordID,
		)
	} else if s.logger != nil {
		s.logger.DebugContext(ctx, "intent not understood",
			"request_id", requestcontext.RequestID(ctx),
			"intent", intent,
		)
	}
	return &Response{Messages: answer.Messages, Route: RouteQuery}, nil
}

// translate maps upstream failures onto domain codes and logs them. Other
// errors already carry a domain code or are internal.
// A canceled turn passes through unchanged so it is not reported as an outage.
func (s *Service) translate(ctx context.Context, route string, err error) error {
	if !upstream.IsUpstream(err) || errors.Is(err, context.Canceled) {
		return err
	}
	category := upstream.GetCategory(err)
	if s.logger != nil {
		s.logger.WarnContext(ctx, "upstream call failed",
			"request_id", requestcontext.RequestID(ctx),
			"route", route,
			"category", string(category),
			"error", err,
		)
	}
	if category == upstream.ErrorTimeout {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "a required service timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "a required service is unavailable")
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	attributes = attrs.WithDefault(attributes, "user_id", requestcontext.UserID(ctx))
	attributes = attrs.WithDefault(attributes, "conversation_id", requestcontext.ConversationID(ctx))
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
