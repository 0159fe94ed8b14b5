// Package requestcontext provides HTTP-independent context accessors for
// turn-scoped values.
//
// Middleware sets the values, services read them:
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject a fixed clock with requestcontext.WithTime(ctx, fixedTime).
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey      struct{}
	requestTimeKey    struct{}
	conversationIDKey struct{}
	userIDKey         struct{}
)

var (
	ContextKeyRequestID      = requestIDKey{}
	ContextKeyRequestTime    = requestTimeKey{}
	ContextKeyConversationID = conversationIDKey{}
	ContextKeyUserID         = userIDKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the turn-scoped time from context.
// Falls back to time.Now() if not set (workers, tests without a fixed clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// ConversationID retrieves the conversation the current turn belongs to.
func ConversationID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyConversationID).(string); ok {
		return id
	}
	return ""
}

// UserID retrieves the user who sent the current turn.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// WithTurn injects the conversation and user identifiers of a turn so that
// log lines emitted deeper in the call stack can be correlated.
func WithTurn(ctx context.Context, conversationID, userID string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyConversationID, conversationID)
	return context.WithValue(ctx, ContextKeyUserID, userID)
}
