// Package store persists the two independently keyed session entries of the
// bot: the in-progress CollectionState of a conversation and the resolved
// Profile of a user.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"patientbot/internal/patient/models"
	"patientbot/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the entry does not exist or has expired
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
//
// Stored values are copied on the way in and out, so callers never share
// memory with the store.

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryStore keeps session entries in process memory for dev and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	states   map[string]entry[models.CollectionState]
	profiles map[string]entry[models.Profile]
	ttl      time.Duration
	now      func() time.Time
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithClock overrides the clock used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewInMemory constructs an empty store. A zero ttl keeps entries forever.
func NewInMemory(ttl time.Duration, opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		states:   make(map[string]entry[models.CollectionState]),
		profiles: make(map[string]entry[models.Profile]),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *InMemoryStore) LoadState(_ context.Context, conversationID string) (*models.CollectionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.states[conversationID]
	if !ok || e.expired(s.now()) {
		return nil, fmt.Errorf("collection state not found: %w", sentinel.ErrNotFound)
	}
	state := e.value
	return &state, nil
}

func (s *InMemoryStore) SaveState(_ context.Context, conversationID string, state *models.CollectionState) error {
	if state == nil {
		return fmt.Errorf("nil collection state: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[conversationID] = entry[models.CollectionState]{value: *state, expiresAt: s.expiry()}
	return nil
}

// DeleteState is idempotent.
func (s *InMemoryStore) DeleteState(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
	return nil
}

func (s *InMemoryStore) LoadProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.profiles[userID]
	if !ok || e.expired(s.now()) {
		return nil, fmt.Errorf("profile not found: %w", sentinel.ErrNotFound)
	}
	profile := e.value
	return &profile, nil
}

func (s *InMemoryStore) SaveProfile(_ context.Context, userID string, profile *models.Profile) error {
	if profile == nil {
		return fmt.Errorf("nil profile: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = entry[models.Profile]{value: *profile, expiresAt: s.expiry()}
	return nil
}

// DeleteProfile is idempotent.
func (s *InMemoryStore) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *InMemoryStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for k, e := range s.states {
		if e.expired(now) {
			delete(s.states, k)
			removed++
		}
	}
	for k, e := range s.profiles {
		if e.expired(now) {
			delete(s.profiles, k)
			removed++
		}
	}
	return removed
}
