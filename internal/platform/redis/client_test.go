package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientbot/internal/platform/config"
)

func TestNew_NoURLSelectsMemory(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestClientOptions(t *testing.T) {
	t.Run("config overrides url defaults", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{
			URL:          "redis://localhost:6380/2",
			PoolSize:     7,
			MinIdleConns: 3,
			DialTimeout:  time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 3, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.DialTimeout)
		assert.Equal(t, 2*time.Second, opts.ReadTimeout)
		assert.Equal(t, 3*time.Second, opts.WriteTimeout)
	})

	t.Run("zero values keep url settings", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{URL: "redis://localhost:6379/0?pool_size=4"})
		require.NoError(t, err)
		assert.Equal(t, 4, opts.PoolSize)
	})
}
