package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetDel(t *testing.T) {
	c := New[string, int](4, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, 1, c.Del("a", "missing"))
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](2, time.Minute).(*cache[string, string])
	c.now = func() time.Time { return now }

	c.Set("page", "<html>")
	v, ok := c.Get("page")
	assert.True(t, ok)
	assert.Equal(t, "<html>", v)

	now = now.Add(59 * time.Second)
	_, ok = c.Get("page")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("page")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
