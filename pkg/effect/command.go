// Package effect describes side effects as data and interprets them.
//
// Commands are one-shot effects returned by a reducer. Subscriptions are
// standing effects declared from the current model. Neither owns a resource
// until the Interpreter or Manager acts on it.
package effect

import (
	"fmt"
	"net/http"
)

// Command is a one-shot side effect producing at most one message.
// The variants are closed; see Name for the list.
type Command[M comparable] interface {
	isCommand(*M)
}

// TextPrompt asks the user for a line of text. Convert receives ok=false on
// cancel and the entered text, possibly empty, on confirm.
type TextPrompt[M comparable] struct {
	Title       string
	Accept      string
	Cancel      string
	Placeholder string
	Convert     func(text string, ok bool) M
}

// Alert shows an acknowledgement dialog. It produces no message.
type Alert[M comparable] struct {
	Title  string
	Accept string
}

// Request performs an HTTP call. Available receives the raw body, or
// ok=false when the transport failed. Non-2xx statuses still carry a body.
type Request[M comparable] struct {
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
	Available func(body []byte, ok bool) M
}

// Load reads a document from the store.
type Load[M comparable] struct {
	Key    string
	Loaded func(value []byte, ok bool) M
}

// Save writes a document. Done is optional.
type Save[M comparable] struct {
	Key   string
	Value []byte
	Done  func(ok bool) M
}

// Delete removes a document. Done is optional.
type Delete[M comparable] struct {
	Key  string
	Done func(ok bool) M
}

// Rename moves a document to a new key. Done is optional.
type Rename[M comparable] struct {
	Key    string
	NewKey string
	Done   func(ok bool) M
}

// Publish sends data on the message bus. It produces no message.
type Publish[M comparable] struct {
	Subject string
	Data    []byte
}

func (TextPrompt[M]) isCommand(*M) {}
func (Alert[M]) isCommand(*M) {}
func (Request[M]) isCommand(*M) {}
func (Load[M]) isCommand(*M) {}
func (Save[M]) isCommand(*M) {}
func (Delete[M]) isCommand(*M) {}
func (Rename[M]) isCommand(*M) {}
func (Publish[M]) isCommand(*M) {}

// Get is a GET Request.
func Get[M comparable](url string, available func(body []byte, ok bool) M) Request[M] {
	return Request[M]{Method: http.MethodGet, URL: url, Available: available}
}

// Name returns a short label for the command variant, used in logs and
// metrics.
func Name[M comparable](c Command[M]) string {
	switch c.(type) {
	case TextPrompt[M]:
		return "text_prompt"
	case Alert[M]:
		return "alert"
	case Request[M]:
		return "request"
	case Load[M]:
		return "load"
	case Save[M]:
		return "save"
	case Delete[M]:
		return "delete"
	case Rename[M]:
		return "rename"
	case Publish[M]:
		return "publish"
	default:
		panic(fmt.Sprintf("effect: unknown command %T", c))
	}
}

// MapCommand converts a command's continuation through f.
func MapCommand[A, B comparable](c Command[A], f func(A) B) Command[B] {
	switch c := c.(type) {
	case TextPrompt[A]:
		return TextPrompt[B]{
			Title:       c.Title,
			Accept:      c.Accept,
			Cancel:      c.Cancel,
			Placeholder: c.Placeholder,
			Convert:     func(text string, ok bool) B { return f(c.Convert(text, ok)) },
		}
	case Alert[A]:
		return Alert[B]{Title: c.Title, Accept: c.Accept}
	case Request[A]:
		return Request[B]{
			Method:    c.Method,
			URL:       c.URL,
			Header:    c.Header,
			Body:      c.Body,
			Available: func(body []byte, ok bool) B { return f(c.Available(body, ok)) },
		}
	case Load[A]:
		return Load[B]{Key: c.Key, Loaded: func(value []byte, ok bool) B { return f(c.Loaded(value, ok)) }}
	case Save[A]:
		return Save[B]{Key: c.Key, Value: c.Value, Done: mapDone(c.Done, f)}
	case Delete[A]:
		return Delete[B]{Key: c.Key, Done: mapDone(c.Done, f)}
	case Rename[A]:
		return Rename[B]{Key: c.Key, NewKey: c.NewKey, Done: mapDone(c.Done, f)}
	case Publish[A]:
		return Publish[B]{Subject: c.Subject, Data: c.Data}
	default:
		panic(fmt.Sprintf("effect: unknown command %T", c))
	}
}

// MapCommands maps every command in cmds.
func MapCommands[A, B comparable](cmds []Command[A], f func(A) B) []Command[B] {
	if cmds == nil {
		return nil
	}
	out := make([]Command[B], len(cmds))
	for i, c := range cmds {
		out[i] = MapCommand(c, f)
	}
	return out
}

func mapDone[A, B comparable](done func(bool) A, f func(A) B) func(bool) B {
	if done == nil {
		return nil
	}
	return func(ok bool) B { return f(done(ok)) }
}
