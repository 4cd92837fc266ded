package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now))

	m.Set(ctx, "media:list:page=1", []byte("v1"), DefaultTTL)

	got, ok := m.Get(ctx, "media:list:page=1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	// Just inside the TTL window.
	clock.Advance(DefaultTTL - time.Second)
	_, ok = m.Get(ctx, "media:list:page=1")
	assert.True(t, ok)

	// Past the window.
	clock.Advance(2 * time.Second)
	_, ok = m.Get(ctx, "media:list:page=1")
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestMemory_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "media:list:page=1", []byte("a"), 0)
	m.Set(ctx, "media:list:page=2&type=video", []byte("b"), 0)
	m.Set(ctx, "media:item:m1", []byte("c"), 0)

	m.DeletePrefix(ctx, "media:list:")

	_, ok := m.Get(ctx, "media:list:page=1")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "media:list:page=2&type=video")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "media:item:m1")
	assert.True(t, ok, "entries outside the namespace survive")
}

func TestMemory_SetReplacesEntry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now))

	m.Set(ctx, "k", []byte("old"), time.Minute)
	clock.Advance(50 * time.Second)
	m.Set(ctx, "k", []byte("new"), time.Minute)

	// The replacement carries a fresh deadline.
	clock.Advance(30 * time.Second)
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestMemory_ZeroTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now))

	m.Set(ctx, "k", []byte("v"), 0)
	clock.Advance(DefaultTTL - time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)
}
