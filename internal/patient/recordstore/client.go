// Package recordstore fetches the candidate patient records from the record
// store. Only the first response is read: a "next" page link is never followed.
package recordstore

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"patientbot/internal/patient/models"
	"patientbot/internal/upstream"
)

const upstreamName = "record_store"

// Client queries the record store root endpoint.
type Client struct {
	url    string
	caller *upstream.Caller
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	insecureTLS bool
	httpClient  *http.Client
	observer    upstream.Observer
	logger      *slog.Logger
}

// WithInsecureTLS disables certificate verification, for the local
// development store that serves a self-signed certificate.
func WithInsecureTLS(insecure bool) Option {
	return func(o *options) { o.insecureTLS = insecure }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithObserver records call latency.
func WithObserver(obs upstream.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Client for url with a hard per-call timeout.
func New(url string, timeout time.Duration, opts ...Option) *Client {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	httpClient := o.httpClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.insecureTLS {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // local development store only
		}
		httpClient = &http.Client{Transport: transport}
	}
	return &Client{
		url:    url,
		caller: upstream.NewCaller(upstreamName, httpClient, timeout, o.observer),
		logger: o.logger,
	}
}

// FindRecords returns every record carried by the store's response, in
// bundle then entry order. Entries without a resource are skipped.
func (c *Client) FindRecords(ctx context.Context) ([]models.CandidateRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, upstream.NewError(upstream.ErrorInternal, upstreamName, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	var bundles bundleList
	if err := c.caller.Do(ctx, req, &bundles); err != nil {
		return nil, err
	}

	records := make([]models.CandidateRecord, 0)
	for _, b := range bundles {
		if next := b.NextURL(); next != "" {
			c.logger.DebugContext(ctx, "record store returned a next page link; pagination is not followed",
				"next_url", next,
			)
		}
		records = append(records, b.Records()...)
	}
	return records, nil
}

// bundleList accepts either a JSON array of bundles or a single bundle object.
type bundleList []models.Bundle

func (l *bundleList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single models.Bundle
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = bundleList{single}
		return nil
	}
	var many []models.Bundle
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*l = many
	return nil
}
