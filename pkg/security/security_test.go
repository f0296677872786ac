package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLimiterAllowsUpToBurst(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(3, time.Minute, clock)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, limiter.Allow("1.2.3.4"))

	// 不同 key 互不影响
	assert.True(t, limiter.Allow("5.6.7.8"))
}

func TestLimiterSweepRemovesStaleEntries(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(10, time.Minute, clock)

	limiter.Allow("1.2.3.4")
	limiter.Allow("5.6.7.8")

	assert.Equal(t, 0, limiter.Sweep())

	clock.Advance(2 * time.Minute)
	limiter.Allow("5.6.7.8") // 保持活跃

	clock.Advance(3 * time.Minute)
	assert.Equal(t, 1, limiter.Sweep())

	// 被清理的 key 重新计数
	assert.True(t, limiter.Allow("1.2.3.4"))
}
