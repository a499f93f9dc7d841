package effect

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/odvcencio/virtualviews/pkg/logging"
	"github.com/odvcencio/virtualviews/pkg/native"
)

// Interpreter performs commands against the collaborators in its Env.
//
// Every continuation is delivered through dispatch at most once, and exactly
// once for commands that produce a result. Blocking work (requests, store
// calls) runs on its own goroutine; dispatch is expected to schedule onto
// the driver loop.
type Interpreter[M comparable] struct {
	env      Env
	inflight sync.WaitGroup
}

// NewInterpreter creates an interpreter over env.
func NewInterpreter[M comparable](env Env) *Interpreter[M] {
	return &Interpreter[M]{env: env}
}

// Interpret performs cmd. Dialogs are anchored at the topmost presented
// controller above root.
func (in *Interpreter[M]) Interpret(cmd Command[M], root native.ViewController, dispatch func(M)) {
	log := in.env.Logger
	log.Debug(logging.CategoryCommand, "command.interpret", Name(cmd), nil)

	switch c := cmd.(type) {
	case TextPrompt[M]:
		deliver := once(dispatch)
		if in.env.Dialogs == nil {
			in.async(func() { deliver(c.Convert("", false)) })
			return
		}
		prompt := native.Prompt{Title: c.Title, Accept: c.Accept, Cancel: c.Cancel, Placeholder: c.Placeholder}
		in.env.Dialogs.TextPrompt(native.Topmost(root), prompt, func(text string, ok bool) {
			deliver(c.Convert(text, ok))
		})

	case Alert[M]:
		if in.env.Dialogs == nil {
			log.Warn(logging.CategoryCommand, "alert.dropped", "no dialogs collaborator", map[string]any{"title": c.Title})
			return
		}
		in.env.Dialogs.Alert(native.Topmost(root), c.Title, c.Accept)

	case Request[M]:
		deliver := once(dispatch)
		in.async(func() {
			body, ok := in.request(c)
			deliver(c.Available(body, ok))
		})

	case Load[M]:
		deliver := once(dispatch)
		in.async(func() {
			if in.env.Store == nil {
				deliver(c.Loaded(nil, false))
				return
			}
			value, ok, err := in.env.Store.Load(in.env.context(), c.Key)
			if err != nil {
				in.storeFailed("load", c.Key, err)
				value, ok = nil, false
			}
			deliver(c.Loaded(value, ok))
		})

	case Save[M]:
		in.write("save", c.Key, c.Done, dispatch, func(s Store) error {
			return s.Save(in.env.context(), c.Key, c.Value)
		})

	case Delete[M]:
		in.write("delete", c.Key, c.Done, dispatch, func(s Store) error {
			return s.Delete(in.env.context(), c.Key)
		})

	case Rename[M]:
		in.write("rename", c.Key, c.Done, dispatch, func(s Store) error {
			return s.Rename(in.env.context(), c.Key, c.NewKey)
		})

	case Publish[M]:
		if in.env.Bus == nil {
			log.Warn(logging.CategoryBus, "publish.dropped", "no bus collaborator", map[string]any{"subject": c.Subject})
			return
		}
		if err := in.env.Bus.Publish(c.Subject, c.Data); err != nil {
			log.Warn(logging.CategoryBus, "publish.failed", err.Error(), map[string]any{"subject": c.Subject})
		}

	default:
		panic(fmt.Sprintf("effect: unknown command %T", cmd))
	}
}

// Wait blocks until every in-flight request and store call has delivered.
func (in *Interpreter[M]) Wait() {
	in.inflight.Wait()
}

func (in *Interpreter[M]) async(fn func()) {
	in.inflight.Add(1)
	go func() {
		defer in.inflight.Done()
		fn()
	}()
}

func (in *Interpreter[M]) write(op, key string, done func(bool) M, dispatch func(M), fn func(Store) error) {
	deliver := once(dispatch)
	in.async(func() {
		ok := false
		if in.env.Store != nil {
			if err := fn(in.env.Store); err != nil {
				in.storeFailed(op, key, err)
			} else {
				ok = true
			}
		}
		if done != nil {
			deliver(done(ok))
		}
	})
}

func (in *Interpreter[M]) storeFailed(op, key string, err error) {
	in.env.Logger.Warn(logging.CategoryStore, op+".failed", err.Error(), map[string]any{"key": key})
}

// request performs the HTTP call. ok is false only for transport failures.
func (in *Interpreter[M]) request(c Request[M]) ([]byte, bool) {
	log := in.env.Logger
	if in.env.HTTP == nil {
		return nil, false
	}
	ctx := in.env.context()
	if in.env.Limiter != nil {
		if err := in.env.Limiter.Wait(ctx); err != nil {
			log.Warn(logging.CategoryNetwork, "request.throttled", err.Error(), map[string]any{"url": c.URL})
			return nil, false
		}
	}

	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if c.Body != nil {
		body = bytes.NewReader(c.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL, body)
	if err != nil {
		log.Warn(logging.CategoryNetwork, "request.invalid", err.Error(), map[string]any{"url": c.URL})
		return nil, false
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in.env.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", in.env.UserAgent)
	}

	resp, err := in.env.HTTP.Do(req)
	if err != nil {
		log.Warn(logging.CategoryNetwork, "request.failed", err.Error(), map[string]any{"url": c.URL})
		return nil, false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(logging.CategoryNetwork, "request.read_failed", err.Error(), map[string]any{"url": c.URL})
		return nil, false
	}
	log.Debug(logging.CategoryNetwork, "request.completed", c.URL, map[string]any{
		"status": resp.StatusCode,
		"bytes":  len(data),
	})
	return data, true
}

// once guards a continuation so a misbehaving collaborator calling back
// twice delivers a single message.
func once[M comparable](dispatch func(M)) func(M) {
	var o sync.Once
	return func(m M) {
		o.Do(func() { dispatch(m) })
	}
}
