package effect

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/odvcencio/virtualviews/pkg/bus"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"
)

type msg struct {
	kind string
	text string
	ok   bool
}

type recorder struct {
	mu   sync.Mutex
	msgs []msg
}

func (r *recorder) dispatch(m msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorder) got() []msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]msg(nil), r.msgs...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func createList(text string, ok bool) msg { return msg{kind: "create", text: text, ok: ok} }

func fetched(body []byte, ok bool) msg { return msg{kind: "fetched", text: string(body), ok: ok} }

func TestTextPromptCancelDeliversAbsent(t *testing.T) {
	tk := sim.New()
	root := tk.NewViewController()
	rec := &recorder{}
	in := NewInterpreter[msg](Env{Dialogs: tk.Dialogs()})

	in.Interpret(TextPrompt[msg]{Title: "New List", Accept: "Create", Cancel: "Cancel", Convert: createList}, root, rec.dispatch)
	assert.Empty(t, rec.got(), "nothing is delivered until the user answers")

	prompt := tk.Dialogs().PendingPrompt()
	require.NotNil(t, prompt)
	assert.Equal(t, "New List", prompt.Title)
	assert.Same(t, root, prompt.On)

	prompt.Cancel()
	prompt.Respond("late")
	assert.Equal(t, []msg{{kind: "create", ok: false}}, rec.got())
}

func TestTextPromptConfirmEmptyText(t *testing.T) {
	tk := sim.New()
	rec := &recorder{}
	in := NewInterpreter[msg](Env{Dialogs: tk.Dialogs()})

	in.Interpret(TextPrompt[msg]{Title: "Name", Convert: createList}, tk.NewViewController(), rec.dispatch)
	tk.Dialogs().PendingPrompt().Respond("")

	assert.Equal(t, []msg{{kind: "create", text: "", ok: true}}, rec.got())
}

func TestDialogsAnchorAtTopmostController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tk := sim.New()
	root := tk.NewViewController()
	modal := tk.NewViewController()
	root.Present(modal, native.PresentationFormSheet)

	dialogs := NewMockDialogs(ctrl)
	dialogs.EXPECT().Alert(modal, "Oops", "OK")

	in := NewInterpreter[msg](Env{Dialogs: dialogs})
	in.Interpret(Alert[msg]{Title: "Oops", Accept: "OK"}, root, func(msg) { t.Fatal("alerts produce no message") })
}

func TestTextPromptDeliversOnceWhenCollaboratorRepeats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dialogs := NewMockDialogs(ctrl)
	dialogs.EXPECT().
		TextPrompt(gomock.Any(), native.Prompt{Title: "Name"}, gomock.Any()).
		Do(func(_ native.ViewController, _ native.Prompt, done func(string, bool)) {
			done("first", true)
			done("second", true)
			done("", false)
		})

	rec := &recorder{}
	in := NewInterpreter[msg](Env{Dialogs: dialogs})
	in.Interpret(TextPrompt[msg]{Title: "Name", Convert: createList}, sim.New().NewViewController(), rec.dispatch)

	assert.Equal(t, []msg{{kind: "create", text: "first", ok: true}}, rec.got())
}

func TestTextPromptWithoutDialogsIsAbsent(t *testing.T) {
	rec := &recorder{}
	in := NewInterpreter[msg](Env{})

	in.Interpret(TextPrompt[msg]{Convert: createList}, nil, rec.dispatch)
	in.Wait()

	assert.Equal(t, []msg{{kind: "create"}}, rec.got())
}

func TestRequestDeliversBodyOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "b")
	}))
	defer srv.Close()

	rec := &recorder{}
	in := NewInterpreter[msg](Env{HTTP: srv.Client()})
	in.Interpret(Get(srv.URL, fetched), nil, rec.dispatch)
	in.Wait()

	assert.Equal(t, []msg{{kind: "fetched", text: "b", ok: true}}, rec.got())
}

func TestRequestErrorStatusStillCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &recorder{}
	in := NewInterpreter[msg](Env{HTTP: srv.Client()})
	in.Interpret(Get(srv.URL, fetched), nil, rec.dispatch)
	in.Wait()

	got := rec.got()
	require.Len(t, got, 1)
	assert.True(t, got[0].ok)
	assert.Equal(t, "nope\n", got[0].text)
}

func TestRequestTransportFailureIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &recorder{}
	in := NewInterpreter[msg](Env{HTTP: &http.Client{Timeout: time.Second}})
	in.Interpret(Get(url, fetched), nil, rec.dispatch)
	in.Wait()

	assert.Equal(t, []msg{{kind: "fetched"}}, rec.got())
}

func TestRequestSendsMethodHeadersAndBody(t *testing.T) {
	type seen struct {
		method, agent, token, body string
	}
	requests := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		requests <- seen{
			method: r.Method,
			agent:  r.Header.Get("User-Agent"),
			token:  r.Header.Get("X-Token"),
			body:   string(data),
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	rec := &recorder{}
	in := NewInterpreter[msg](Env{
		HTTP:      srv.Client(),
		UserAgent: "virtualviews-test",
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	})
	in.Interpret(Request[msg]{
		Method:    http.MethodPost,
		URL:       srv.URL,
		Header:    http.Header{"X-Token": []string{"secret"}},
		Body:      []byte(`{"a":1}`),
		Available: fetched,
	}, nil, rec.dispatch)
	in.Wait()

	got := <-requests
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "virtualviews-test", got.agent)
	assert.Equal(t, "secret", got.token)
	assert.Equal(t, `{"a":1}`, got.body)
	assert.Equal(t, []msg{{kind: "fetched", text: "ok", ok: true}}, rec.got())
}

func TestRequestCancelledContextIsAbsent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	in := NewInterpreter[msg](Env{
		HTTP:    http.DefaultClient,
		Limiter: rate.NewLimiter(rate.Every(time.Hour), 0),
		Context: ctx,
	})
	in.Interpret(Get("http://127.0.0.1:1", fetched), nil, rec.dispatch)
	in.Wait()

	assert.Equal(t, []msg{{kind: "fetched"}}, rec.got())
}

func TestStoreCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "todos").Return([]byte("[]"), true, nil)
	store.EXPECT().Load(gomock.Any(), "broken").Return([]byte("junk"), true, errors.New("disk"))
	store.EXPECT().Save(gomock.Any(), "todos", []byte("[1]")).Return(nil)
	store.EXPECT().Save(gomock.Any(), "quiet", []byte("x")).Return(nil)
	store.EXPECT().Delete(gomock.Any(), "todos").Return(errors.New("locked"))
	store.EXPECT().Rename(gomock.Any(), "a", "b").Return(nil)

	rec := &recorder{}
	in := NewInterpreter[msg](Env{Store: store})
	done := func(kind string) func(bool) msg {
		return func(ok bool) msg { return msg{kind: kind, ok: ok} }
	}

	for _, cmd := range []Command[msg]{
		Load[msg]{Key: "todos", Loaded: func(v []byte, ok bool) msg { return msg{kind: "loaded", text: string(v), ok: ok} }},
		Load[msg]{Key: "broken", Loaded: func(v []byte, ok bool) msg { return msg{kind: "loaded", text: string(v), ok: ok} }},
		Save[msg]{Key: "todos", Value: []byte("[1]"), Done: done("saved")},
		Save[msg]{Key: "quiet", Value: []byte("x")},
		Delete[msg]{Key: "todos", Done: done("deleted")},
		Rename[msg]{Key: "a", NewKey: "b", Done: done("renamed")},
	} {
		in.Interpret(cmd, nil, rec.dispatch)
	}
	in.Wait()

	assert.ElementsMatch(t, []msg{
		{kind: "loaded", text: "[]", ok: true},
		{kind: "loaded", ok: false},
		{kind: "saved", ok: true},
		{kind: "deleted", ok: false},
		{kind: "renamed", ok: true},
	}, rec.got())
}

func TestStoreCommandsWithoutStoreAreAbsent(t *testing.T) {
	rec := &recorder{}
	in := NewInterpreter[msg](Env{})

	in.Interpret(Load[msg]{Key: "k", Loaded: func(v []byte, ok bool) msg { return msg{kind: "loaded", ok: ok} }}, nil, rec.dispatch)
	in.Interpret(Save[msg]{Key: "k", Done: func(ok bool) msg { return msg{kind: "saved", ok: ok} }}, nil, rec.dispatch)
	in.Wait()

	assert.ElementsMatch(t, []msg{{kind: "loaded"}, {kind: "saved"}}, rec.got())
}

func TestPublishGoesToBus(t *testing.T) {
	b := bus.NewMemoryBus()
	defer b.Close()

	received := make(chan string, 1)
	_, err := b.Subscribe("counter.increment", func(m *bus.Message) { received <- string(m.Data) })
	require.NoError(t, err)

	in := NewInterpreter[msg](Env{Bus: b})
	in.Interpret(Publish[msg]{Subject: "counter.increment", Data: []byte("1")}, nil, func(msg) { t.Fatal("publish produces no message") })

	select {
	case data := <-received:
		assert.Equal(t, "1", data)
	case <-time.After(2 * time.Second):
		t.Fatal("publish not delivered")
	}
}

func TestInterpretUnknownCommandPanics(t *testing.T) {
	in := NewInterpreter[msg](Env{})
	assert.Panics(t, func() { in.Interpret(nil, nil, func(msg) {}) })
}
