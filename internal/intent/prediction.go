// Package intent recognizes what a resolved user is asking for. The hosted
// prediction service is used when configured; otherwise a keyword recognizer
// stands in.
package intent

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"patientbot/internal/platform/config"
	"patientbot/internal/upstream"
)

// None is the intent reported when nothing was recognized.
const None = "None"

const upstreamName = "intent_recognizer"

type predictionResponse struct {
	Query      string `json:"query"`
	Prediction struct {
		TopIntent string `json:"topIntent"`
	} `json:"prediction"`
}

// PredictionClient queries a LUIS v3 style prediction endpoint.
type PredictionClient struct {
	endpoint string
	appID    string
	apiKey   string
	caller   *upstream.Caller
}

type PredictionOption func(*predictionOptions)

type predictionOptions struct {
	httpClient *http.Client
	observer   upstream.Observer
}

func WithHTTPClient(c *http.Client) PredictionOption {
	return func(o *predictionOptions) { o.httpClient = c }
}

func WithObserver(obs upstream.Observer) PredictionOption {
	return func(o *predictionOptions) { o.observer = obs }
}

// NewPredictionClient builds a client from cfg. An endpoint without a scheme
// is assumed to be https.
func NewPredictionClient(cfg config.RecognizerConfig, opts ...PredictionOption) *PredictionClient {
	o := &predictionOptions{}
	for _, opt := range opts {
		opt(o)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" && !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return &PredictionClient{
		endpoint: endpoint,
		appID:    cfg.AppID,
		apiKey:   cfg.APIKey,
		caller:   upstream.NewCaller(upstreamName, o.httpClient, cfg.Timeout, o.observer),
	}
}

// Recognize returns the top intent for text, or None.
func (c *PredictionClient) Recognize(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("subscription-key", c.apiKey)
	q.Set("query", text)
	u := c.endpoint + "/luis/prediction/v3.0/apps/" + url.PathEscape(c.appID) + "/slots/production/predict?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", upstream.NewError(upstream.ErrorInternal, upstreamName, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	var resp predictionResponse
	if err := c.caller.Do(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Prediction.TopIntent == "" {
		return None, nil
	}
	return resp.Prediction.TopIntent, nil
}
