package effect

import (
	"fmt"
	"path/filepath"
	"time"
)

// Subscription is a standing effect declared from the model.
type Subscription[M comparable] interface {
	isSubscription(*M)
}

// Timer redelivers Message every Interval.
type Timer[M comparable] struct {
	Interval time.Duration
	Message  M
}

// StoreChanged delivers Changed() whenever the document under Key is
// written, renamed or deleted.
type StoreChanged[M comparable] struct {
	Key     string
	Changed func() M
}

// BusMessages delivers Handle(data) for every bus message on Subject.
type BusMessages[M comparable] struct {
	Subject string
	Handle  func(data []byte) M
}

// FileChanged delivers Message whenever the file at Path is written,
// created, removed or renamed.
type FileChanged[M comparable] struct {
	Path    string
	Message M
}

func (Timer[M]) isSubscription(*M) {}
func (StoreChanged[M]) isSubscription(*M) {}
func (BusMessages[M]) isSubscription(*M) {}
func (FileChanged[M]) isSubscription(*M) {}

type timerKey[M comparable] struct {
	interval time.Duration
	message  M
}

type storeKey struct{ key string }

type busKey struct{ subject string }

type fileKey[M comparable] struct {
	path    string
	message M
}

// Key returns the comparable identity of s. Two subscriptions with equal
// keys share one running resource; closures are not part of the key.
func Key[M comparable](s Subscription[M]) any {
	switch s := s.(type) {
	case Timer[M]:
		return timerKey[M]{interval: s.Interval, message: s.Message}
	case StoreChanged[M]:
		return storeKey{key: s.Key}
	case BusMessages[M]:
		return busKey{subject: s.Subject}
	case FileChanged[M]:
		return fileKey[M]{path: filepath.Clean(s.Path), message: s.Message}
	default:
		panic(fmt.Sprintf("effect: unknown subscription %T", s))
	}
}

// Describe renders s for logs.
func Describe[M comparable](s Subscription[M]) string {
	switch s := s.(type) {
	case Timer[M]:
		return fmt.Sprintf("timer(%s, %v)", s.Interval, s.Message)
	case StoreChanged[M]:
		return fmt.Sprintf("store(%s)", s.Key)
	case BusMessages[M]:
		return fmt.Sprintf("bus(%s)", s.Subject)
	case FileChanged[M]:
		return fmt.Sprintf("file(%s, %v)", s.Path, s.Message)
	default:
		panic(fmt.Sprintf("effect: unknown subscription %T", s))
	}
}

// MapSubscription converts the messages s delivers through f.
func MapSubscription[A, B comparable](s Subscription[A], f func(A) B) Subscription[B] {
	switch s := s.(type) {
	case Timer[A]:
		return Timer[B]{Interval: s.Interval, Message: f(s.Message)}
	case StoreChanged[A]:
		return StoreChanged[B]{Key: s.Key, Changed: func() B { return f(s.Changed()) }}
	case BusMessages[A]:
		return BusMessages[B]{Subject: s.Subject, Handle: func(data []byte) B { return f(s.Handle(data)) }}
	case FileChanged[A]:
		return FileChanged[B]{Path: s.Path, Message: f(s.Message)}
	default:
		panic(fmt.Sprintf("effect: unknown subscription %T", s))
	}
}

// MapSubscriptions maps every subscription in subs.
func MapSubscriptions[A, B comparable](subs []Subscription[A], f func(A) B) []Subscription[B] {
	if subs == nil {
		return nil
	}
	out := make([]Subscription[B], len(subs))
	for i, s := range subs {
		out[i] = MapSubscription(s, f)
	}
	return out
}
