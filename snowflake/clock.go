package snowflake

import (
	"sync"
	"time"
)

// Clock 时间来源，生成器只通过它读取时间
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock 手动推进的时钟，Sleep 直接把时间向前拨
// 用于在测试中模拟毫秒切换、序列号溢出和时钟回拨
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Sleep(d time.Duration) {
	c.Add(d)
}

// Set 设置当前时间，允许回拨
func (c *ManualClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Add 推进时间，d 为负数时回拨
func (c *ManualClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
