// Package context carries request-scoped correlation values for logs and spans.
package context

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

type requestIDKey struct{}
type correlationIDKey struct{}
type userIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// EnsureCorrelationID guarantees a correlation ID on the context, generating one when missing.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if cid := CorrelationIDFromContext(ctx); cid != "" {
		return ctx, cid
	}
	cid := ulid.Make().String()
	return context.WithValue(ctx, correlationIDKey{}, cid), cid
}

func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(correlationIDKey{}).(string)
	return value
}

func WithUserID(ctx context.Context, userID string) context.Context {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDKey{}).(string)
	return value
}
