package effect

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type wrapped struct {
	inner msg
}

func wrap(m msg) wrapped { return wrapped{inner: m} }

func TestMapCommandWrapsContinuations(t *testing.T) {
	prompt := MapCommand[msg, wrapped](TextPrompt[msg]{Title: "Name", Convert: createList}, wrap).(TextPrompt[wrapped])
	assert.Equal(t, "Name", prompt.Title)
	assert.Equal(t, wrapped{msg{kind: "create", text: "x", ok: true}}, prompt.Convert("x", true))

	req := MapCommand[msg, wrapped](Get("http://example.test", fetched), wrap).(Request[wrapped])
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, wrapped{msg{kind: "fetched", text: "b", ok: true}}, req.Available([]byte("b"), true))

	save := MapCommand[msg, wrapped](Save[msg]{Key: "k"}, wrap).(Save[wrapped])
	assert.Nil(t, save.Done)
}

func TestMapCommandComposes(t *testing.T) {
	f := func(m msg) msg { return msg{kind: m.kind + "!", text: m.text, ok: m.ok} }
	g := func(m msg) wrapped { return wrapped{m} }

	cmd := TextPrompt[msg]{Convert: createList}
	stepwise := MapCommand(MapCommand[msg, msg](cmd, f), g).(TextPrompt[wrapped])
	composed := MapCommand[msg, wrapped](cmd, func(m msg) wrapped { return g(f(m)) }).(TextPrompt[wrapped])

	assert.Equal(t, composed.Convert("a", true), stepwise.Convert("a", true))
	assert.Equal(t, composed.Convert("", false), stepwise.Convert("", false))
}

func TestNames(t *testing.T) {
	cmds := []Command[msg]{
		TextPrompt[msg]{}, Alert[msg]{}, Request[msg]{}, Load[msg]{},
		Save[msg]{}, Delete[msg]{}, Rename[msg]{}, Publish[msg]{},
	}
	var names []string
	for _, c := range cmds {
		names = append(names, Name(c))
	}
	assert.Equal(t, []string{"text_prompt", "alert", "request", "load", "save", "delete", "rename", "publish"}, names)
	assert.Len(t, MapCommands(cmds, wrap), len(cmds))
	assert.Nil(t, MapCommands[msg, wrapped](nil, wrap))
}

func TestKeyIgnoresClosures(t *testing.T) {
	a := StoreChanged[msg]{Key: "todos", Changed: func() msg { return msg{kind: "a"} }}
	b := StoreChanged[msg]{Key: "todos", Changed: func() msg { return msg{kind: "b"} }}
	assert.Equal(t, Key[msg](a), Key[msg](b))

	assert.Equal(t,
		Key[msg](FileChanged[msg]{Path: "/tmp/x/../todos", Message: tick}),
		Key[msg](FileChanged[msg]{Path: "/tmp/todos", Message: tick}))
	assert.NotEqual(t,
		Key[msg](Timer[msg]{Interval: time.Second, Message: tick}),
		Key[msg](Timer[msg]{Interval: time.Second, Message: msg{kind: "tock"}}))
	assert.NotEqual(t,
		Key[msg](BusMessages[msg]{Subject: "a"}),
		Key[msg](StoreChanged[msg]{Key: "a"}))
}

func TestMapSubscription(t *testing.T) {
	n := 0
	bumped := MapSubscription[msg, wrapped](BusMessages[msg]{Subject: "s", Handle: func(data []byte) msg {
		n, _ = strconv.Atoi(string(data))
		return msg{kind: "n"}
	}}, wrap).(BusMessages[wrapped])

	assert.Equal(t, "s", bumped.Subject)
	assert.Equal(t, wrapped{msg{kind: "n"}}, bumped.Handle([]byte("7")))
	assert.Equal(t, 7, n)

	timer := MapSubscription[msg, wrapped](Timer[msg]{Interval: time.Second, Message: tick}, wrap).(Timer[wrapped])
	assert.Equal(t, wrapped{tick}, timer.Message)
	assert.Equal(t, "bus(s)", Describe[msg](BusMessages[msg]{Subject: "s"}))
}
