package ownercontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// OwnerContextKey is the request context key for the authenticated user ID.
type OwnerContextKey struct{}

// WithOwnerID stores the owning user ID in the context.
func WithOwnerID(ctx context.Context, ownerID snowflake.ID) context.Context {
	return context.WithValue(ctx, OwnerContextKey{}, ownerID)
}

// OwnerIDFromContext returns the owning user ID from context, if set.
func OwnerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(OwnerContextKey{}).(snowflake.ID)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
