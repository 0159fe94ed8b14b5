//go:build integration

package containers

import (
	"context"
	"sync"
	"testing"
)

// Manager owns the containers shared by every integration suite in a test
// binary. Containers start on first use and are reaped by Ryuk on exit.
type Manager struct {
	mu    sync.Mutex
	redis *RedisContainer
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetRedis returns the shared Redis container, starting it if needed.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}

// Shutdown terminates every started container.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis != nil {
		_ = m.redis.Client.Close()
		_ = m.redis.Container.Terminate(ctx)
		m.redis = nil
	}
}
