package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "series:list", `[{"id":"a"}]`, 0))
	val, ok := m.Get(ctx, "series:list")
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, val)

	require.NoError(t, m.Set(ctx, "series:list", "[]", 0))
	val, _ = m.Get(ctx, "series:list")
	assert.Equal(t, "[]", val)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	m := NewMemoryWithClock(clock.Now)

	require.NoError(t, m.Set(ctx, "units:list", "[]", time.Minute))
	require.NoError(t, m.Set(ctx, "agents:list", "[]", 0))

	clock.Advance(59 * time.Second)
	_, ok := m.Get(ctx, "units:list")
	assert.True(t, ok, "entry should live until its ttl elapses")

	clock.Advance(time.Second)
	_, ok = m.Get(ctx, "units:list")
	assert.False(t, ok, "entry should expire at its ttl")
	assert.Equal(t, 1, m.Len(), "expired entry is dropped on read")

	clock.Advance(24 * time.Hour)
	_, ok = m.Get(ctx, "agents:list")
	assert.True(t, ok, "zero ttl never expires")
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, key := range []string{"series:list", "series:get:a", "units:list"} {
		require.NoError(t, m.Set(ctx, key, "x", 0))
	}

	require.NoError(t, m.Delete(ctx, "units:list", "not-there"))
	_, ok := m.Get(ctx, "units:list")
	assert.False(t, ok)

	require.NoError(t, m.DeletePrefix(ctx, "series:"))
	assert.Equal(t, 0, m.Len())
}

func TestMemoryImplementsInterfaces(t *testing.T) {
	var c Cache = NewMemory()
	_, ok := c.(Prefixer)
	assert.True(t, ok)

	var r Cache = NewRedis("localhost:6379", 0)
	_, ok = r.(Prefixer)
	assert.True(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "k", "v", time.Minute)
				m.Get(ctx, "k")
				_ = m.Delete(ctx, "k")
			}
		}()
	}
	wg.Wait()
}
