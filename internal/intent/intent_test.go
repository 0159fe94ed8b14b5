package intent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientbot/internal/platform/config"
	"patientbot/internal/upstream"
)

func TestKeywordRecognizer(t *testing.T) {
	k := NewKeywordRecognizer()
	tests := map[string]string{
		"What is my blood pressure?": "getBloodPressure",
		"show BP":                    "getBloodPressure",
		"How much do I weigh":        "getWeight",
		"weight please":              "getWeight",
		"how tall am I":              "getHeight",
		"Height":                     "getHeight",
		"hello there":                None,
		"":                           None,
		"my bpm":                     None,
	}
	for text, want := range tests {
		got, err := k.Recognize(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, want, got, text)
	}
}

func TestPredictionClient(t *testing.T) {
	t.Run("reads the top intent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/luis/prediction/v3.0/apps/app-1/slots/production/predict", r.URL.Path)
			assert.Equal(t, "key-1", r.URL.Query().Get("subscription-key"))
			assert.Equal(t, "what's my weight", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"query":"what's my weight","prediction":{"topIntent":"getWeight","intents":{"getWeight":{"score":0.97}}}}`))
		}))
		defer srv.Close()

		c := NewPredictionClient(config.RecognizerConfig{AppID: "app-1", APIKey: "key-1", Endpoint: srv.URL + "/", Timeout: time.Second})
		got, err := c.Recognize(context.Background(), "what's my weight")
		require.NoError(t, err)
		assert.Equal(t, "getWeight", got)
	})

	t.Run("missing top intent is None", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"prediction":{}}`))
		}))
		defer srv.Close()

		c := NewPredictionClient(config.RecognizerConfig{AppID: "app-1", Endpoint: srv.URL, Timeout: time.Second})
		got, err := c.Recognize(context.Background(), "hmm")
		require.NoError(t, err)
		assert.Equal(t, None, got)
	})

	t.Run("rejected key is an authentication failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewPredictionClient(config.RecognizerConfig{AppID: "app-1", Endpoint: srv.URL, Timeout: time.Second})
		_, err := c.Recognize(context.Background(), "weight")
		assert.Equal(t, upstream.ErrorAuthentication, upstream.GetCategory(err))
	})
}

func TestPredictionClientEndpointScheme(t *testing.T) {
	c := NewPredictionClient(config.RecognizerConfig{Endpoint: "westeurope.api.cognitive.microsoft.com/"})
	assert.Equal(t, "https://westeurope.api.cognitive.microsoft.com", c.endpoint)
}
