package ownercontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestOwnerIDRoundTrip(t *testing.T) {
	ctx := WithOwnerID(context.Background(), snowflake.ID(42))
	id, ok := OwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(42), id)

	_, ok = OwnerIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = OwnerIDFromContext(WithOwnerID(context.Background(), 0))
	assert.False(t, ok)
}
