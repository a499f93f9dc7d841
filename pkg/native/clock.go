package native

import (
	"sync"
	"time"
)

// Timer is a running repeating timer.
type Timer interface {
	// Stop invalidates the timer. It is idempotent and returns only once
	// the timer will not fire again.
	Stop()
}

// Clock starts repeating timers.
type Clock interface {
	Every(interval time.Duration, fn func()) Timer
}

// SystemClock is a Clock backed by time.Ticker.
type SystemClock struct{}

// Every starts a ticker goroutine calling fn on each tick. Non-positive
// intervals tick every millisecond.
func (SystemClock) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func (t *tickerTimer) run(fn func()) {
	defer close(t.exited)
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
	<-t.exited
}
