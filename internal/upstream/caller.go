// Package upstream executes calls to the services this bot depends on (record
// store, observation fetch tool, intent recognizer) with a hard timeout, no
// retries, tracing, and a normalized error taxonomy.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName   = "patientbot/internal/upstream"
	maxBodyBytes = 10 << 20
)

// Observer receives the duration and result of every call.
type Observer interface {
	ObserveUpstream(upstream, result string, d time.Duration)
}

// Caller executes JSON requests against a single upstream.
type Caller struct {
	name     string
	client   *http.Client
	timeout  time.Duration
	observer Observer
	tracer   trace.Tracer
	maxBody  int64
}

// NewCaller builds a Caller. The timeout is applied per call on top of the
// caller's context; client should not carry its own Timeout.
func NewCaller(name string, client *http.Client, timeout time.Duration, observer Observer) *Caller {
	if client == nil {
		client = &http.Client{}
	}
	return &Caller{
		name:     name,
		client:   client,
		timeout:  timeout,
		observer: observer,
		tracer:   otel.Tracer(tracerName),
		maxBody:  maxBodyBytes,
	}
}

// Name returns the upstream label used in errors and metrics.
func (c *Caller) Name() string {
	return c.name
}

// Do sends req and decodes a 2xx JSON body into out. A nil out discards the body.
func (c *Caller) Do(ctx context.Context, req *http.Request, out any) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, c.name+" "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
		),
	)
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = string(GetCategory(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		span.End()
		if c.observer != nil {
			c.observer.ObserveUpstream(c.name, result, time.Since(start))
		}
	}()

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return Classify(c.name, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return classifyStatus(c.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return Classify(c.name, err)
	}
	if int64(len(body)) > c.maxBody {
		return NewError(ErrorBadData, c.name, fmt.Sprintf("response too large: exceeds %d bytes", c.maxBody), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewError(ErrorBadData, c.name, "malformed response body", err)
	}
	return nil
}
