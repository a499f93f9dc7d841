package bus

import (
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// MemoryBus is an in-process MessageBus. Delivery is FIFO per subscription
// and never drops: each subscription owns an unbounded queue drained by its
// own goroutine.
type MemoryBus struct {
	mu            sync.RWMutex
	subscriptions map[string]*memorySubscription
	closed        atomic.Bool
}

// NewMemoryBus creates a new in-memory message bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subscriptions: make(map[string]*memorySubscription)}
}

func (b *MemoryBus) Publish(subject string, data []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.RLock()
	var targets []*memorySubscription
	for _, sub := range b.subscriptions {
		if matchSubject(sub.subject, subject) {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.enqueue(&Message{Subject: subject, Data: data})
	}
	return nil
}

func (b *MemoryBus) Subscribe(subject string, handler MessageHandler) (Subscription, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	sub := &memorySubscription{
		id:      ulid.Make().String(),
		subject: subject,
		handler: handler,
		bus:     b,
		exited:  make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)

	b.mu.Lock()
	b.subscriptions[sub.id] = sub
	b.mu.Unlock()

	go sub.run()
	return sub, nil
}

// Subscriptions returns the number of live subscriptions.
func (b *MemoryBus) Subscriptions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

func (b *MemoryBus) Close() error {
	if b.closed.Swap(true) {
		return ErrClosed
	}

	b.mu.Lock()
	subs := b.subscriptions
	b.subscriptions = make(map[string]*memorySubscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	return nil
}

type memorySubscription struct {
	id      string
	subject string
	handler MessageHandler
	bus     *MemoryBus

	mu      sync.Mutex
	cond    *sync.Cond
	pending []*Message
	closed  bool
	exited  chan struct{}
}

func (s *memorySubscription) enqueue(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, msg)
	s.cond.Signal()
}

func (s *memorySubscription) run() {
	defer close(s.exited)
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		msg := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.handler(msg)
	}
}

func (s *memorySubscription) stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *memorySubscription) Unsubscribe() error {
	s.bus.mu.Lock()
	delete(s.bus.subscriptions, s.id)
	s.bus.mu.Unlock()
	s.stop()
	return nil
}

func (s *memorySubscription) Subject() string {
	return s.subject
}
