package testsupport

import (
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// ManualClock is an interfaces.Clock whose timers only fire when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

// NewManualClock starts the clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

var _ interfaces.Clock = (*ManualClock)(nil)

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	timer := &manualTimer{clock: c, at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

// Pending reports how many timers are armed.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing due timers in deadline order. Timers armed
// by callbacks fire in the same call when they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		slices.SortFunc(c.timers, func(a, b *manualTimer) int {
			if !a.at.Equal(b.at) {
				return a.at.Compare(b.at)
			}
			return a.seq - b.seq
		})
		if len(c.timers) == 0 || c.timers[0].at.After(target) {
			if target.After(c.now) {
				c.now = target
			}
			c.mu.Unlock()
			return
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()
		next.fn()
	}
}

type manualTimer struct {
	clock *ManualClock
	at    time.Time
	seq   int
	fn    func()
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := slices.Index(c.timers, t)
	if idx < 0 {
		return false
	}
	c.timers = slices.Delete(c.timers, idx, idx+1)
	return true
}
