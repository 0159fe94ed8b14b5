package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCategory defines the normalized failure taxonomy for remote calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates the upstream took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the upstream returned invalid/malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the upstream is unreachable or returned a 5xx
	ErrorOutage ErrorCategory = "outage"

	// ErrorRejected indicates the upstream refused the request (4xx)
	ErrorRejected ErrorCategory = "rejected"

	// ErrorInternal indicates an unexpected local error
	ErrorInternal ErrorCategory = "internal"
)

// Error wraps a remote call failure with a normalized category.
// Calls are never retried, so the category only drives the response code
// and the metrics label.
type Error struct {
	Category   ErrorCategory
	Upstream   string
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("upstream %s [%s]: %s: %v", e.Upstream, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("upstream %s [%s]: %s", e.Upstream, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a normalized upstream error.
func NewError(category ErrorCategory, upstream, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Upstream:   upstream,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	return ErrorInternal
}

// IsUpstream reports whether err came from a remote call.
func IsUpstream(err error) bool {
	var ue *Error
	return errors.As(err, &ue)
}

// Classify maps a transport-level failure onto the taxonomy. A caller that
// gave up is an internal outcome, not a fault of the upstream.
func Classify(upstream string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return NewError(ErrorInternal, upstream, "request canceled", err)
	}
	if IsTimeout(err) {
		return NewError(ErrorTimeout, upstream, "request timed out", err)
	}
	return NewError(ErrorOutage, upstream, "request failed", err)
}

// IsTimeout reports whether err is a deadline or a network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classifyStatus maps a non-2xx status onto the taxonomy.
func classifyStatus(upstream string, status int) *Error {
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == 401 || status == 403:
		return NewError(ErrorAuthentication, upstream, msg, nil)
	case status == 408 || status == 504:
		return NewError(ErrorTimeout, upstream, msg, nil)
	case status >= 500:
		return NewError(ErrorOutage, upstream, msg, nil)
	default:
		return NewError(ErrorRejected, upstream, msg, nil)
	}
}
