package sim

import (
	"sort"
	"sync"
	"time"

	"github.com/odvcencio/virtualviews/pkg/native"
)

// Clock is a manual native.Clock. Time only moves when Advance is called.
type Clock struct {
	mu      sync.Mutex
	now     time.Duration
	timers  []*Timer
	started int
	stopped int
}

// NewClock creates a clock at time zero.
func NewClock() *Clock { return &Clock{} }

// Timer is a simulated repeating timer.
type Timer struct {
	clock    *Clock
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
	fired    int
}

// Every implements native.Clock.
func (c *Clock) Every(interval time.Duration, fn func()) native.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := &Timer{clock: c, interval: interval, next: c.now + interval, fn: fn}
	c.timers = append(c.timers, t)
	c.started++
	return t
}

// Stop implements native.Timer.
func (t *Timer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.clock.stopped++
	for i, other := range t.clock.timers {
		if other == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			break
		}
	}
}

// Fired counts how many times the timer fired.
func (t *Timer) Fired() int {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.fired
}

// Advance moves time forward by d, firing due timers in time order.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		due := c.dueLocked(target)
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = due.next
		due.next += due.interval
		due.fired++
		fn := due.fn
		c.mu.Unlock()

		fn()
	}
}

func (c *Clock) dueLocked(target time.Duration) *Timer {
	var candidates []*Timer
	for _, t := range c.timers {
		if t.next <= target {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].next < candidates[j].next })
	return candidates[0]
}

// Active returns the number of running timers.
func (c *Clock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Started returns how many timers were ever started.
func (c *Clock) Started() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Stopped returns how many timers were stopped.
func (c *Clock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
