package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("answer", 42, time.Minute)

	v, ok := c.Get("answer")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New()
	defer c.Stop()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("short", "value", time.Minute)

	now = base.Add(59 * time.Second)
	_, ok := c.Get("short")
	assert.True(t, ok)

	now = base.Add(61 * time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("key", "old", time.Minute)
	c.Set("key", "new", time.Minute)

	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}

func TestDefaultTTLApplied(t *testing.T) {
	c := New()
	defer c.Stop()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("key", "value", 0)

	now = base.Add(DefaultTTL - time.Second)
	_, ok := c.Get("key")
	assert.True(t, ok)

	now = base.Add(DefaultTTL + time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok)
}
