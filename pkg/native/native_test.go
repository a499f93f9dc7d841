package native

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_ReleaseStopsPerform(t *testing.T) {
	calls := 0
	a := NewAction(func() { calls++ })

	a.Perform()
	a.Release()
	a.Perform()
	a.Release()

	assert.Equal(t, 1, calls)
	assert.True(t, a.Released())
}

func TestAction_NilIsNoop(t *testing.T) {
	var a *Action
	assert.NotPanics(t, func() {
		a.Perform()
		a.Release()
	})
	assert.True(t, a.Released())
}

type stubVC struct {
	ViewController
	presented ViewController
}

func (s *stubVC) Presented() ViewController { return s.presented }

func TestTopmost_FollowsPresentedChain(t *testing.T) {
	leaf := &stubVC{}
	mid := &stubVC{presented: leaf}
	root := &stubVC{presented: mid}

	assert.Same(t, leaf, Topmost(root))
	assert.Same(t, leaf, Topmost(leaf))
	assert.Nil(t, Topmost(nil))
}

func TestSystemClock_EveryAndStop(t *testing.T) {
	var fired atomic.Int32
	timer := SystemClock{}.Every(5*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, time.Millisecond)
	timer.Stop()
	timer.Stop()

	after := fired.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, fired.Load(), "timer fired after Stop returned")
}

func TestSystemClock_ZeroIntervalTicks(t *testing.T) {
	var fired atomic.Int32
	var timer Timer
	require.NotPanics(t, func() { timer = SystemClock{}.Every(0, func() { fired.Add(1) }) })
	defer timer.Stop()

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, time.Second, time.Millisecond)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "navigationcontroller", KindNavigationController.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "+", SystemAdd.Title())
}
