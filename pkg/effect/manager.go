package effect

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/odvcencio/virtualviews/pkg/bus"
	"github.com/odvcencio/virtualviews/pkg/logging"
)

// Changes lists what a Reconcile call started and stopped, by Describe.
type Changes struct {
	Started []string
	Stopped []string
}

// Manager keeps the running subscription resources in line with the
// declared list. It is not safe for concurrent use; the driver calls it
// from its loop.
type Manager[M comparable] struct {
	env      Env
	dispatch func(M)
	active   map[any]*running[M]
}

// running is one live resource. The declared value is swapped on reuse so
// the resource always delivers through the latest closures.
type running[M comparable] struct {
	mu      sync.Mutex
	sub     Subscription[M]
	stopped atomic.Bool
	halt    func()
}

func (r *running[M]) current() Subscription[M] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub
}

func (r *running[M]) swap(s Subscription[M]) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()
}

func (r *running[M]) stop() {
	if r.stopped.Swap(true) {
		return
	}
	if r.halt != nil {
		r.halt()
	}
}

// NewManager creates a manager delivering through dispatch.
func NewManager[M comparable](env Env, dispatch func(M)) *Manager[M] {
	return &Manager[M]{
		env:      env,
		dispatch: dispatch,
		active:   make(map[any]*running[M]),
	}
}

// Reconcile diffs declared against the running set by Key. Subscriptions
// in both are left running with their closures refreshed; new ones start;
// missing ones stop. Duplicate declarations collapse into one resource.
func (m *Manager[M]) Reconcile(declared []Subscription[M]) Changes {
	var changes Changes

	wanted := make(map[any]Subscription[M], len(declared))
	order := make([]any, 0, len(declared))
	for _, s := range declared {
		key := Key(s)
		if _, dup := wanted[key]; dup {
			continue
		}
		wanted[key] = s
		order = append(order, key)
	}

	for key, r := range m.active {
		if _, keep := wanted[key]; keep {
			continue
		}
		changes.Stopped = append(changes.Stopped, Describe(r.current()))
		r.stop()
		delete(m.active, key)
	}

	for _, key := range order {
		s := wanted[key]
		if r, ok := m.active[key]; ok {
			r.swap(s)
			continue
		}
		m.active[key] = m.start(s)
		changes.Started = append(changes.Started, Describe(s))
	}

	for _, name := range changes.Started {
		m.env.Logger.Debug(logging.CategorySubscription, "subscription.started", name, nil)
	}
	for _, name := range changes.Stopped {
		m.env.Logger.Debug(logging.CategorySubscription, "subscription.stopped", name, nil)
	}
	return changes
}

// Active returns the number of running resources.
func (m *Manager[M]) Active() int {
	return len(m.active)
}

// Close stops every running resource.
func (m *Manager[M]) Close() {
	for key, r := range m.active {
		r.stop()
		delete(m.active, key)
	}
}

func (m *Manager[M]) start(s Subscription[M]) *running[M] {
	r := &running[M]{sub: s}
	deliver := func(pick func(Subscription[M]) M) {
		if r.stopped.Load() {
			return
		}
		m.dispatch(pick(r.current()))
	}

	switch s := s.(type) {
	case Timer[M]:
		if m.env.Clock == nil {
			m.missing("clock", s)
			return r
		}
		if s.Interval <= 0 {
			m.env.Logger.Warn(logging.CategorySubscription, "subscription.inert",
				"timer interval must be positive", map[string]any{"subscription": Describe[M](s)})
			return r
		}
		t := m.env.Clock.Every(s.Interval, func() {
			deliver(func(cur Subscription[M]) M { return cur.(Timer[M]).Message })
		})
		r.halt = t.Stop

	case StoreChanged[M]:
		if m.env.Store == nil {
			m.missing("store", s)
			return r
		}
		r.halt = m.env.Store.Watch(s.Key, func() {
			deliver(func(cur Subscription[M]) M { return cur.(StoreChanged[M]).Changed() })
		})

	case BusMessages[M]:
		if m.env.Bus == nil {
			m.missing("bus", s)
			return r
		}
		sub, err := m.env.Bus.Subscribe(s.Subject, func(msg *bus.Message) {
			deliver(func(cur Subscription[M]) M { return cur.(BusMessages[M]).Handle(msg.Data) })
		})
		if err != nil {
			m.env.Logger.Warn(logging.CategorySubscription, "subscription.failed", err.Error(), map[string]any{"subject": s.Subject})
			return r
		}
		r.halt = func() { _ = sub.Unsubscribe() }

	case FileChanged[M]:
		halt, err := watchFile(s.Path, func() {
			deliver(func(cur Subscription[M]) M { return cur.(FileChanged[M]).Message })
		})
		if err != nil {
			m.env.Logger.Warn(logging.CategorySubscription, "subscription.failed", err.Error(), map[string]any{"path": s.Path})
			return r
		}
		r.halt = halt

	default:
		panic(fmt.Sprintf("effect: unknown subscription %T", s))
	}
	return r
}

func (m *Manager[M]) missing(collaborator string, s Subscription[M]) {
	m.env.Logger.Warn(logging.CategorySubscription, "subscription.inert",
		"no "+collaborator+" collaborator", map[string]any{"subscription": Describe(s)})
}

// watchFile watches the directory holding path, so the file may be created
// or replaced after the watch starts. The returned halt closes the watcher
// and waits for the event goroutine to exit.
func watchFile(path string, fn func()) (halt func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					fn()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
