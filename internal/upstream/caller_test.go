package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []string
}

func (o *recordingObserver) ObserveUpstream(_ string, result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

func newRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestCallerDo(t *testing.T) {
	t.Run("decodes a 2xx body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()
		obs := &recordingObserver{}
		c := NewCaller("test", srv.Client(), time.Second, obs)

		var out struct {
			OK bool `json:"ok"`
		}
		err := c.Do(context.Background(), newRequest(t, srv.URL), &out)

		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.Equal(t, []string{"ok"}, obs.results)
	})

	t.Run("classifies a malformed body as bad data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer srv.Close()
		c := NewCaller("test", srv.Client(), time.Second, nil)

		var out map[string]any
		err := c.Do(context.Background(), newRequest(t, srv.URL), &out)

		require.Error(t, err)
		assert.Equal(t, ErrorBadData, GetCategory(err))
	})

	t.Run("classifies statuses", func(t *testing.T) {
		cases := map[int]ErrorCategory{
			http.StatusUnauthorized:        ErrorAuthentication,
			http.StatusNotFound:            ErrorRejected,
			http.StatusInternalServerError: ErrorOutage,
			http.StatusGatewayTimeout:      ErrorTimeout,
		}
		for status, want := range cases {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			c := NewCaller("test", srv.Client(), time.Second, nil)
			err := c.Do(context.Background(), newRequest(t, srv.URL), nil)
			srv.Close()

			require.Error(t, err, "status %d", status)
			assert.Equal(t, want, GetCategory(err), "status %d", status)
		}
	})

	t.Run("enforces the hard timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)
		obs := &recordingObserver{}
		c := NewCaller("test", srv.Client(), 20*time.Millisecond, obs)

		err := c.Do(context.Background(), newRequest(t, srv.URL), nil)

		require.Error(t, err)
		assert.Equal(t, ErrorTimeout, GetCategory(err))
		assert.True(t, IsUpstream(err))
		assert.Equal(t, []string{"timeout"}, obs.results)
	})

	t.Run("classifies an unreachable host as an outage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()
		c := NewCaller("test", nil, time.Second, nil)

		err := c.Do(context.Background(), newRequest(t, url), nil)

		require.Error(t, err)
		assert.Equal(t, ErrorOutage, GetCategory(err))
	})

	t.Run("reports an oversized body as too large", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"value":"0123456789"}`))
		}))
		defer srv.Close()
		c := NewCaller("test", srv.Client(), time.Second, nil)
		c.maxBody = 8

		var out map[string]any
		err := c.Do(context.Background(), newRequest(t, srv.URL), &out)

		require.Error(t, err)
		assert.Equal(t, ErrorBadData, GetCategory(err))
		assert.Contains(t, err.Error(), "response too large")
		assert.Empty(t, out)
	})

	t.Run("accepts a body exactly at the limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"a":1}`))
		}))
		defer srv.Close()
		c := NewCaller("test", srv.Client(), time.Second, nil)
		c.maxBody = int64(len(`{"a":1}`))

		var out map[string]any
		require.NoError(t, c.Do(context.Background(), newRequest(t, srv.URL), &out))
		assert.Equal(t, float64(1), out["a"])
	})

	t.Run("keeps caller cancellation distinct from an outage", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)
		obs := &recordingObserver{}
		c := NewCaller("test", srv.Client(), time.Second, obs)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		err := c.Do(ctx, newRequest(t, srv.URL), nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, ErrorInternal, GetCategory(err))
		assert.Equal(t, []string{"internal"}, obs.results)
	})
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorInternal, Classify("x", context.Canceled).Category)
	assert.Equal(t, ErrorTimeout, Classify("x", context.DeadlineExceeded).Category)
	assert.Equal(t, ErrorOutage, Classify("x", errors.New("connection refused")).Category)
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(context.Canceled))
}
