package observation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"patientbot/internal/upstream"
)

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_client")
}

// stallingTokenSource blocks until released, like a token endpoint that never answers.
type stallingTokenSource struct{ release chan struct{} }

func (s stallingTokenSource) Token() (*oauth2.Token, error) {
	<-s.release
	return nil, errors.New("released")
}

func TestClientFetch(t *testing.T) {
	t.Run("posts the query with the forwarded token", func(t *testing.T) {
		bodies := make(chan []byte, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			bodies <- body
			_, _ = w.Write([]byte(`{"type":"weight","observations":[{"timestamp":"2020-01-01","weight":{"value":70,"unit":"kg"}}]}`))
		}))
		defer srv.Close()

		tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fhir-token"})
		client := NewClient(srv.URL, "https://fhir.example", time.Second, tokens)

		result, err := client.Fetch(context.Background(), Query{PatientID: "pat-1", Category: "weight"})
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(<-bodies, &got))
		assert.Equal(t, map[string]any{
			"pid":      "pat-1",
			"type":     "weight",
			"token":    "fhir-token",
			"base_url": "https://fhir.example",
			"next_url": nil,
		}, got)
		assert.Equal(t, "weight", result.Category)
		require.Len(t, result.Observations, 1)
		assert.Equal(t, "70", result.Observations[0].Measurements[0].Value)
	})

	t.Run("falls back to the requested category", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"observations":[]}`))
		}))
		defer srv.Close()

		result, err := NewClient(srv.URL, "", time.Second, nil).Fetch(context.Background(), Query{PatientID: "p", Category: "height"})
		require.NoError(t, err)
		assert.Equal(t, "height", result.Category)
		assert.Empty(t, result.Observations)
	})

	t.Run("token failure is an authentication error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("fetch tool must not be called without a token")
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "", time.Second, failingTokenSource{}).Fetch(context.Background(), Query{PatientID: "p", Category: "weight"})
		require.Error(t, err)
		assert.Equal(t, upstream.ErrorAuthentication, upstream.GetCategory(err))
		var ue *upstream.Error
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, tokenUpstream, ue.Upstream)
	})

	t.Run("a stalled token request is bounded by the call timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("fetch tool must not be called without a token")
		}))
		defer srv.Close()
		tokens := stallingTokenSource{release: make(chan struct{})}
		defer close(tokens.release)

		start := time.Now()
		_, err := NewClient(srv.URL, "", 50*time.Millisecond, tokens).Fetch(context.Background(), Query{PatientID: "p", Category: "weight"})

		require.Error(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, upstream.ErrorTimeout, upstream.GetCategory(err))
		var ue *upstream.Error
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, tokenUpstream, ue.Upstream)
	})

	t.Run("a stalled token request honors the caller's deadline", func(t *testing.T) {
		tokens := stallingTokenSource{release: make(chan struct{})}
		defer close(tokens.release)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := NewClient("http://127.0.0.1:1", "", time.Minute, tokens).Fetch(ctx, Query{PatientID: "p", Category: "weight"})

		require.Error(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("non-2xx and malformed bodies are classified", func(t *testing.T) {
		tests := []struct {
			status int
			body   string
			want   upstream.ErrorCategory
		}{
			{http.StatusBadGateway, `{}`, upstream.ErrorOutage},
			{http.StatusUnauthorized, `{}`, upstream.ErrorAuthentication},
			{http.StatusBadRequest, `{}`, upstream.ErrorRejected},
			{http.StatusOK, `not json`, upstream.ErrorBadData},
		}
		for _, tt := range tests {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := NewClient(srv.URL, "", time.Second, nil).Fetch(context.Background(), Query{})
			srv.Close()
			assert.Equal(t, tt.want, upstream.GetCategory(err), "status %d", tt.status)
		}
	})

	t.Run("slow fetch tool times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewClient(srv.URL, "", 20*time.Millisecond, nil).Fetch(context.Background(), Query{})
		assert.Equal(t, upstream.ErrorTimeout, upstream.GetCategory(err))
	})
}
