package observation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"patientbot/internal/upstream"
)

const (
	upstreamName  = "observation_fetch"
	tokenUpstream = "fhir_token"
)

// fetchRequest is the fetch tool's request body. next_url is always null:
// pagination is not followed.
type fetchRequest struct {
	PatientID string  `json:"pid"`
	Category  string  `json:"type"`
	Token     string  `json:"token"`
	BaseURL   string  `json:"base_url"`
	NextURL   *string `json:"next_url"`
}

// Client posts observation queries to the fetch tool, forwarding a bearer
// token for the FHIR server behind it.
type Client struct {
	url         string
	fhirBaseURL string
	tokens      oauth2.TokenSource
	timeout     time.Duration
	caller      *upstream.Caller
	logger      *slog.Logger
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	observer   upstream.Observer
	logger     *slog.Logger
}

func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

func WithObserver(obs upstream.Observer) ClientOption {
	return func(o *clientOptions) { o.observer = obs }
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient builds a Client. tokens may be nil, in which case an empty token
// is forwarded.
func NewClient(url, fhirBaseURL string, timeout time.Duration, tokens oauth2.TokenSource, opts ...ClientOption) *Client {
	o := &clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		url:         url,
		fhirBaseURL: fhirBaseURL,
		tokens:      tokens,
		timeout:     timeout,
		caller:      upstream.NewCaller(upstreamName, o.httpClient, timeout, o.observer),
		logger:      o.logger,
	}
}

// Fetch runs one query. Failures are *upstream.Error values.
func (c *Client) Fetch(ctx context.Context, q Query) (*Result, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(fetchRequest{
		PatientID: q.PatientID,
		Category:  q.Category,
		Token:     token,
		BaseURL:   c.fhirBaseURL,
	})
	if err != nil {
		return nil, upstream.NewError(upstream.ErrorInternal, upstreamName, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, upstream.NewError(upstream.ErrorInternal, upstreamName, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result Result
	if err := c.caller.Do(ctx, req, &result); err != nil {
		return nil, err
	}
	if result.Category == "" {
		result.Category = q.Category
	}
	c.logger.DebugContext(ctx, "observations fetched",
		"category", result.Category,
		"count", len(result.Observations),
	)
	return &result, nil
}

// token acquires the bearer token within the same per-call timeout as the
// fetch itself. oauth2.TokenSource takes no context, so the request runs
// aside and is abandoned when ctx ends; the source's own HTTP timeout ends it.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type issued struct {
		tok *oauth2.Token
		err error
	}
	done := make(chan issued, 1)
	go func() {
		tok, err := c.tokens.Token()
		done <- issued{tok: tok, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", upstream.Classify(tokenUpstream, ctx.Err())
	case r := <-done:
		switch {
		case r.err == nil:
			return r.tok.AccessToken, nil
		case upstream.IsTimeout(r.err):
			return "", upstream.NewError(upstream.ErrorTimeout, tokenUpstream, "token request timed out", r.err)
		default:
			return "", upstream.NewError(upstream.ErrorAuthentication, tokenUpstream, "acquire FHIR token", r.err)
		}
	}
}
