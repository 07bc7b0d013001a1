package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_DeliversInOrder(t *testing.T) {
	s := NewStream(4)
	ctx := context.Background()

	Success(ctx, s, "Added to cart!")
	Info(ctx, s, "Item already in cart")

	first := <-s.C()
	assert.Equal(t, LevelSuccess, first.Level)
	assert.Equal(t, "Added to cart!", first.Message)
	assert.False(t, first.Time.IsZero())

	second := <-s.C()
	assert.Equal(t, LevelInfo, second.Level)
}

func TestStream_FullBufferDropsOldest(t *testing.T) {
	s := NewStream(2)
	ctx := context.Background()

	Info(ctx, s, "one")
	Info(ctx, s, "two")
	Info(ctx, s, "three") // must not block; evicts "one"

	require.Len(t, s.ch, 2)
	assert.Equal(t, "two", (<-s.C()).Message)
	assert.Equal(t, "three", (<-s.C()).Message)
}
