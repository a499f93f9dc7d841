package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	msgs []*Message
}

func (c *collector) handle(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) data() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = string(m.Data)
	}
	return out
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var got collector
	sub, err := bus.Subscribe("test.subject", got.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	assert.Equal(t, "test.subject", sub.Subject())

	require.NoError(t, bus.Publish("test.subject", []byte("hello")))
	require.Eventually(t, func() bool { return len(got.data()) == 1 }, time.Second, 5*time.Millisecond)
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, "test.subject", got.msgs[0].Subject)
}

func TestMemoryBus_DeliversInOrderWithoutDropping(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	release := make(chan struct{})
	var got collector
	_, err := bus.Subscribe("counter.>", func(msg *Message) {
		<-release
		got.handle(msg)
	})
	require.NoError(t, err)

	var want []string
	for i := 0; i < 2000; i++ {
		data := string(rune('a' + i%26))
		want = append(want, data)
		require.NoError(t, bus.Publish("counter.inc", []byte(data)))
	}
	close(release)

	require.Eventually(t, func() bool { return len(got.data()) == len(want) }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, want, got.data())
}

func TestMemoryBus_Wildcard(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var got collector
	_, err := bus.Subscribe("app.agent.*", got.handle)
	require.NoError(t, err)

	bus.Publish("app.agent.abc", []byte("1"))
	bus.Publish("app.agent.xyz", []byte("2"))
	bus.Publish("app.other.abc", []byte("3"))

	require.Eventually(t, func() bool { return len(got.data()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.ElementsMatch(t, []string{"1", "2"}, got.data())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var got collector
	sub, err := bus.Subscribe("test", got.handle)
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscriptions())

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
	assert.Equal(t, 0, bus.Subscriptions())

	bus.Publish("test", []byte("late"))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, got.data())
}

func TestMatchSubject(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    bool
	}{
		{"foo", "foo", true},
		{"foo", "bar", false},
		{"foo.bar", "foo.bar", true},
		{"foo.bar", "foo.baz", false},
		{"foo.*", "foo.bar", true},
		{"foo.*", "foo.bar.baz", false},
		{"foo.>", "foo.bar", true},
		{"foo.>", "foo.bar.baz", true},
		{"*.bar", "foo.bar", true},
		{"*.bar", "foo.baz", false},
		{"virtualviews.counter.*", "virtualviews.counter", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, matchSubject(tt.pattern, tt.subject))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "counter.inc", Join("", "counter.inc"))
	assert.Equal(t, "vv.counter.inc", Join("vv", "counter.inc"))
	assert.Equal(t, "vv.counter.inc", Join("vv.", "counter.inc"))
}

func TestMemoryBus_ClosedOperations(t *testing.T) {
	bus := NewMemoryBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish("test", []byte("data")), ErrClosed)
	_, err := bus.Subscribe("test", nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, bus.Close(), ErrClosed)
}
