package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"patientbot/internal/patient/models"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(conversationID, userID, text string) error
	LastStatus() int
	LastMessages() []string
	SetRecords(records ...models.CandidateRecord)
	SetObservations(body string)
	SaveProfile(userID string, profile *models.Profile) error
	LoadProfile(userID string) (*models.Profile, error)
	LastFetch() (patientID, category string, calls int)
	RecordStoreCalls() int
}

// RegisterSteps registers conversation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &conversationSteps{tc: tc}

	ctx.Step(`^the conversation "([^"]*)" with user "([^"]*)"$`, steps.theConversation)

	// Arrangement
	ctx.Step(`^the record store holds patient "([^"]*)" named "([^"]*)" born "([^"]*)" at postcode "([^"]*)"$`, steps.recordStoreHolds)
	ctx.Step(`^the user has a resolved profile for record "([^"]*)"$`, steps.userHasResolvedProfile)
	ctx.Step(`^the observation service returns:$`, steps.observationServiceReturns)

	// Conversation
	ctx.Step(`^the user says "([^"]*)"$`, steps.userSays)
	ctx.Step(`^the user enters the patient "([^"]*)" born (\d+) (\d+) (\d+) at postcode "([^"]*)"$`, steps.userEntersPatient)

	// Assertions
	ctx.Step(`^the last reply is "([^"]*)"$`, steps.lastReplyIs)
	ctx.Step(`^the replies are:$`, steps.repliesAre)
	ctx.Step(`^the user's profile is resolved to record "([^"]*)"$`, steps.profileResolvedTo)
	ctx.Step(`^the user has no resolved profile$`, steps.noResolvedProfile)
	ctx.Step(`^the observation service was asked for "([^"]*)" of patient "([^"]*)"$`, steps.observationServiceAskedFor)
	ctx.Step(`^the last reply shows observation "([^"]*)" with "([^"]*)"$`, steps.lastReplyShowsObservation)
	ctx.Step(`^no remote service was called$`, steps.noRemoteCalls)
}

type conversationSteps struct {
	tc             TestContext
	conversationID string
	userID         string
}

func (s *conversationSteps) theConversation(ctx context.Context, conversationID, userID string) error {
	s.conversationID = conversationID
	s.userID = userID
	return nil
}

func (s *conversationSteps) recordStoreHolds(ctx context.Context, id, name, birthDate, postcode string) error {
	given, family, ok := splitName(name)
	if !ok {
		return fmt.Errorf("name %q needs a given and a family part", name)
	}
	s.tc.SetRecords(models.CandidateRecord{
		ResourceType: "Patient",
		ID:           id,
		Name:         []models.HumanName{{Use: models.NameUseOfficial, Family: family, Given: []string{given}}},
		Address:      []models.Address{{PostalCode: postcode}},
		BirthDate:    birthDate,
	})
	return nil
}

func (s *conversationSteps) userHasResolvedProfile(ctx context.Context, recordID string) error {
	profile, err := models.NewProfile("Jane Doe", models.DateOfBirth{Year: 1990, Month: 5, Day: 14}, "AB1 2CD")
	if err != nil {
		return err
	}
	profile.RecordID = recordID
	return s.tc.SaveProfile(s.userID, profile)
}

func (s *conversationSteps) observationServiceReturns(ctx context.Context, body *godog.DocString) error {
	s.tc.SetObservations(body.Content)
	return nil
}

func (s *conversationSteps) userSays(ctx context.Context, text string) error {
	if err := s.tc.Send(s.conversationID, s.userID, text); err != nil {
		return err
	}
	if status := s.tc.LastStatus(); status != 200 {
		return fmt.Errorf("expected status 200 for %q, got %d", text, status)
	}
	return nil
}

func (s *conversationSteps) userEntersPatient(ctx context.Context, name string, year, month, day int, postcode string) error {
	// The opening message only starts collection.
	answers := []string{
		"hello",
		name,
		strconv.Itoa(year),
		strconv.Itoa(month),
		strconv.Itoa(day),
		postcode,
	}
	for _, text := range answers {
		if err := s.userSays(ctx, text); err != nil {
			return err
		}
	}
	return nil
}

func (s *conversationSteps) lastReplyIs(ctx context.Context, expected string) error {
	messages := s.tc.LastMessages()
	if len(messages) == 0 {
		return fmt.Errorf("expected reply %q, got no messages", expected)
	}
	if got := messages[len(messages)-1]; got != expected {
		return fmt.Errorf("expected last reply %q, got %q", expected, got)
	}
	return nil
}

func (s *conversationSteps) repliesAre(ctx context.Context, table *godog.Table) error {
	messages := s.tc.LastMessages()
	if len(messages) != len(table.Rows) {
		return fmt.Errorf("expected %d replies, got %d: %q", len(table.Rows), len(messages), messages)
	}
	for i, row := range table.Rows {
		if want := row.Cells[0].Value; messages[i] != want {
			return fmt.Errorf("reply %d: expected %q, got %q", i, want, messages[i])
		}
	}
	return nil
}

func (s *conversationSteps) profileResolvedTo(ctx context.Context, recordID string) error {
	profile, err := s.tc.LoadProfile(s.userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if !profile.IsResolved() || profile.RecordID != recordID {
		return fmt.Errorf("expected profile resolved to %q, got %+v", recordID, profile)
	}
	return nil
}

func (s *conversationSteps) noResolvedProfile(ctx context.Context) error {
	profile, err := s.tc.LoadProfile(s.userID)
	if err == nil && profile.IsResolved() {
		return fmt.Errorf("expected no resolved profile, got record %q", profile.RecordID)
	}
	return nil
}

func (s *conversationSteps) observationServiceAskedFor(ctx context.Context, category, patientID string) error {
	gotPatient, gotCategory, calls := s.tc.LastFetch()
	if calls != 1 {
		return fmt.Errorf("expected one observation request, got %d", calls)
	}
	if gotCategory != category || gotPatient != patientID {
		return fmt.Errorf("expected %q of %q, got %q of %q", category, patientID, gotCategory, gotPatient)
	}
	return nil
}

func (s *conversationSteps) lastReplyShowsObservation(ctx context.Context, timestamp, line string) error {
	return s.lastReplyIs(ctx, timestamp+"\n  "+line+"\n")
}

func (s *conversationSteps) noRemoteCalls(ctx context.Context) error {
	if _, _, calls := s.tc.LastFetch(); calls != 0 {
		return fmt.Errorf("expected no observation requests, got %d", calls)
	}
	if calls := s.tc.RecordStoreCalls(); calls != 0 {
		return fmt.Errorf("expected no record store requests, got %d", calls)
	}
	return nil
}

func splitName(name string) (given, family string, ok bool) {
	given, family, ok = strings.Cut(name, " ")
	return given, family, ok && given != "" && family != ""
}
