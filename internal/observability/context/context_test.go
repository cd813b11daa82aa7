package context

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestEnsureCorrelationIDIsStable(t *testing.T) {
	ctx, first := EnsureCorrelationID(context.Background())
	if _, err := ulid.Parse(first); err != nil {
		t.Fatalf("expected ulid correlation id, got %q: %v", first, err)
	}

	_, second := EnsureCorrelationID(ctx)
	if first != second {
		t.Fatalf("expected correlation id to be reused, got %q and %q", first, second)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := WithRequestID(context.Background(), "  ")
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
	ctx = WithUserID(ctx, "42")
	if got := UserIDFromContext(ctx); got != "42" {
		t.Fatalf("expected user id 42, got %q", got)
	}
}
