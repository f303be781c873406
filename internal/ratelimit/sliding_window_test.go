package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paesprep/backend/internal/ratelimit"
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
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSlidingWindow_LimitsPerKey(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	rl := ratelimit.NewSlidingWindow(5, 24*time.Hour, clock)

	for i := 0; i < 5; i++ {
		d := rl.Allow("u1")
		assert.True(t, d.Allowed, "hit %d", i)
		assert.Equal(t, 4-i, d.Remaining)
		clock.Advance(time.Hour)
	}

	d := rl.Allow("u1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), d.Reset)

	assert.True(t, rl.Allow("u2").Allowed, "other users are independent")
}

func TestSlidingWindow_Slides(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	rl := ratelimit.NewSlidingWindow(2, time.Hour, clock)

	rl.Allow("u1")
	clock.Advance(30 * time.Minute)
	rl.Allow("u1")
	assert.False(t, rl.Allow("u1").Allowed)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, rl.Remaining("u1"))
	assert.True(t, rl.Allow("u1").Allowed)
	assert.False(t, rl.Allow("u1").Allowed)
}

func TestSlidingWindow_RemainingDoesNotConsume(t *testing.T) {
	rl := ratelimit.NewSlidingWindow(3, time.Hour, nil)
	assert.Equal(t, 3, rl.Remaining("u1"))
	assert.Equal(t, 3, rl.Remaining("u1"))
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	rl := ratelimit.NewSlidingWindow(10, time.Hour, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("u1").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}
