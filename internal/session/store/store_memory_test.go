package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"patientbot/internal/patient/models"
	"patientbot/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	now   time.Time
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(time.Hour, WithClock(func() time.Time { return s.now }))
}

func (s *InMemoryStoreSuite) TestCollectionState() {
	ctx := context.Background()

	s.Run("missing conversation returns ErrNotFound", func() {
		_, err := s.store.LoadState(ctx, "conv-missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("round trips and isolates conversations", func() {
		state := &models.CollectionState{
			Step:   models.StepAwaitingBirthMonth,
			Values: models.CollectedValues{Name: "Jane Doe", Year: 1990},
		}
		s.Require().NoError(s.store.SaveState(ctx, "conv-1", state))

		got, err := s.store.LoadState(ctx, "conv-1")
		s.Require().NoError(err)
		s.Equal(state, got)

		_, err = s.store.LoadState(ctx, "conv-2")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned state does not alias stored state", func() {
		s.Require().NoError(s.store.SaveState(ctx, "conv-3", models.NewCollectionState("")))
		got, err := s.store.LoadState(ctx, "conv-3")
		s.Require().NoError(err)
		got.Step = models.StepAwaitingPostcode

		again, err := s.store.LoadState(ctx, "conv-3")
		s.Require().NoError(err)
		s.Equal(models.StepAwaitingName, again.Step)
	})

	s.Run("delete is idempotent", func() {
		s.Require().NoError(s.store.SaveState(ctx, "conv-4", models.NewCollectionState("")))
		s.Require().NoError(s.store.DeleteState(ctx, "conv-4"))
		s.Require().NoError(s.store.DeleteState(ctx, "conv-4"))
		_, err := s.store.LoadState(ctx, "conv-4")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects nil state", func() {
		s.ErrorIs(s.store.SaveState(ctx, "conv-5", nil), sentinel.ErrInvalidState)
	})
}

func (s *InMemoryStoreSuite) TestProfile() {
	ctx := context.Background()
	profile := &models.Profile{
		Name:        "Jane Doe",
		DateOfBirth: models.DateOfBirth{Year: 1990, Month: 5, Day: 14},
		Postcode:    "AB1 2CD",
		RecordID:    "pat-1",
	}

	s.Require().NoError(s.store.SaveProfile(ctx, "user-1", profile))
	got, err := s.store.LoadProfile(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(profile, got)
	s.True(got.IsResolved())

	s.Require().NoError(s.store.DeleteProfile(ctx, "user-1"))
	_, err = s.store.LoadProfile(ctx, "user-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.SaveState(ctx, "conv-1", models.NewCollectionState("")))
	s.Require().NoError(s.store.SaveProfile(ctx, "user-1", &models.Profile{Name: "Jane Doe", RecordID: "pat-1"}))

	s.now = s.now.Add(59 * time.Minute)
	_, err := s.store.LoadState(ctx, "conv-1")
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	_, err = s.store.LoadState(ctx, "conv-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.LoadProfile(ctx, "user-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Equal(2, s.store.Sweep(ctx))
	s.Equal(0, s.store.Sweep(ctx))
}

func (s *InMemoryStoreSuite) TestZeroTTLNeverExpires() {
	ctx := context.Background()
	store := NewInMemory(0, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(store.SaveState(ctx, "conv-1", models.NewCollectionState("")))

	s.now = s.now.Add(24 * 365 * time.Hour)
	_, err := store.LoadState(ctx, "conv-1")
	s.NoError(err)
}

func (s *InMemoryStoreSuite) TestConcurrentConversations() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv := fmt.Sprintf("conv-%d", i)
			_ = s.store.SaveState(ctx, conv, &models.CollectionState{
				Step:   models.StepAwaitingBirthYear,
				Values: models.CollectedValues{Name: conv},
			})
			_, _ = s.store.LoadState(ctx, conv)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		conv := fmt.Sprintf("conv-%d", i)
		got, err := s.store.LoadState(ctx, conv)
		s.Require().NoError(err)
		s.Equal(conv, got.Values.Name)
	}
}
