// Package bus carries messages between a running app and the outside world.
// Apps subscribe to subjects through the BusMessages subscription and publish
// through the Publish command; the CLI publishes from another process. The
// default implementation uses NATS, with an in-memory option for tests and
// single-process runs.
package bus

import (
	"errors"
	"strings"
	"time"
)

// ErrClosed is returned when operating on a closed bus or subscription.
var ErrClosed = errors.New("bus or subscription closed")

// MessageBus publishes and subscribes on dot-separated subjects.
// Implementations must be safe for concurrent use.
type MessageBus interface {
	// Publish sends data to all subscribers of subject. It does not wait for
	// delivery.
	Publish(subject string, data []byte) error

	// Subscribe registers handler for subject. Handlers run on a bus-owned
	// goroutine, one message at a time per subscription. Supports wildcards:
	// "app.*" matches "app.counter" and "app.>" matches "app.counter.inc".
	Subscribe(subject string, handler MessageHandler) (Subscription, error)

	// Close shuts down the bus and all subscriptions.
	Close() error
}

// MessageHandler processes one incoming message.
type MessageHandler func(msg *Message)

// Message is a delivered message.
type Message struct {
	Subject string
	Data    []byte
}

// Subscription is an active subscription.
type Subscription interface {
	// Unsubscribe stops delivery. It is idempotent.
	Unsubscribe() error
	Subject() string
}

// Config holds configuration for creating a MessageBus.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name is a client identifier for debugging/monitoring.
	Name string

	// Timeout bounds connection attempts.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:     "nats://localhost:4222",
		Name:    "virtualviews",
		Timeout: 5 * time.Second,
	}
}

// Join prefixes subject with prefix, dot separated. An empty prefix leaves
// subject unchanged.
func Join(prefix, subject string) string {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

// matchSubject checks if a subject matches a pattern with wildcards.
// Supports "*" for single token and ">" for multiple tokens.
func matchSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	patternParts := strings.Split(pattern, ".")
	subjectParts := strings.Split(subject, ".")

	pi, si := 0, 0
	for pi < len(patternParts) && si < len(subjectParts) {
		switch patternParts[pi] {
		case "*":
			pi++
			si++
		case ">":
			return true
		default:
			if patternParts[pi] != subjectParts[si] {
				return false
			}
			pi++
			si++
		}
	}

	return pi == len(patternParts) && si == len(subjectParts)
}
