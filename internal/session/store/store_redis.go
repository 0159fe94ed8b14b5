package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"patientbot/internal/patient/models"
	"patientbot/pkg/platform/sentinel"
)

const (
	keyPrefix             = "patientbot:"
	conversationKeyPrefix = keyPrefix + "conversation:"
	userKeyPrefix         = keyPrefix + "user:"
)

func stateKey(conversationID string) string {
	return conversationKeyPrefix + conversationID + ":collection"
}

func profileKey(userID string) string {
	return userKeyPrefix + userID + ":profile"
}

// RedisStore keeps session entries in Redis as JSON values with a TTL, so
// several bot instances can serve the same conversation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed store. A zero ttl keeps entries forever.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) LoadState(ctx context.Context, conversationID string) (*models.CollectionState, error) {
	var state models.CollectionState
	if err := s.get(ctx, stateKey(conversationID), &state); err != nil {
		return nil, fmt.Errorf("load collection state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) SaveState(ctx context.Context, conversationID string, state *models.CollectionState) error {
	if state == nil {
		return fmt.Errorf("nil collection state: %w", sentinel.ErrInvalidState)
	}
	if err := s.set(ctx, stateKey(conversationID), state); err != nil {
		return fmt.Errorf("save collection state: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteState(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, stateKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("delete collection state: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.get(ctx, profileKey(userID), &profile); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

func (s *RedisStore) SaveProfile(ctx context.Context, userID string, profile *models.Profile) error {
	if profile == nil {
		return fmt.Errorf("nil profile: %w", sentinel.ErrInvalidState)
	}
	if err := s.set(ctx, profileKey(userID), profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete profile: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, errors.Join(sentinel.ErrInvalidState, err))
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}
