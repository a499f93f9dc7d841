package hello

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
)

func TestHelloRendersGreeting(t *testing.T) {
	tk := sim.New()
	d := driver.New(Program(), driver.NewLoop(), driver.Options{Toolkit: tk})

	assert.Equal(t, []string{"Hello, world"}, sim.Lines(d.Root()))
	assert.Equal(t, 2, tk.TotalCreated())
}

func TestUpdateIsIdentity(t *testing.T) {
	m, cmds := Update(Model{}, Msg{})
	assert.Equal(t, Model{}, m)
	assert.Empty(t, cmds)
}
