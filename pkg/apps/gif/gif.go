// Package gif shows a random gif. A reload fetches metadata from the
// endpoint, then the image it points at.
package gif

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/view"
)

type Kind int

const (
	Reload Kind = iota + 1
	ReceiveMetadata
	ReceiveGif
)

// Msg carries response bodies as strings so it stays comparable.
type Msg struct {
	Kind Kind
	Body string
	OK   bool
}

type Model struct {
	Image   []byte
	Loading bool
}

type Options struct {
	Endpoint string
}

func Update(o Options) func(Model, Msg) (Model, []effect.Command[Msg]) {
	return func(m Model, msg Msg) (Model, []effect.Command[Msg]) {
		switch msg.Kind {
		case Reload:
			m.Loading = true
			return m, []effect.Command[Msg]{fetchMetadata(o)}

		case ReceiveMetadata:
			u, ok := "", false
			if msg.OK {
				u, ok = extractGIFURL([]byte(msg.Body))
			}
			if !ok {
				m.Loading = false
				return m, []effect.Command[Msg]{failed()}
			}
			return m, []effect.Command[Msg]{effect.Get(u, func(body []byte, ok bool) Msg {
				return Msg{Kind: ReceiveGif, Body: string(body), OK: ok}
			})}

		case ReceiveGif:
			m.Loading = false
			if !msg.OK {
				return m, []effect.Command[Msg]{failed()}
			}
			m.Image = []byte(msg.Body)
			return m, nil

		default:
			panic(fmt.Sprintf("gif: unknown message %+v", msg))
		}
	}
}

func fetchMetadata(o Options) effect.Command[Msg] {
	return effect.Get(o.Endpoint, func(body []byte, ok bool) Msg {
		return Msg{Kind: ReceiveMetadata, Body: string(body), OK: ok}
	})
}

func failed() effect.Command[Msg] {
	return effect.Alert[Msg]{Title: "Could not load a gif", Accept: "OK"}
}

// extractGIFURL reads data.image_url from a metadata response.
func extractGIFURL(body []byte) (string, bool) {
	var meta struct {
		Data struct {
			ImageURL string `json:"image_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &meta); err != nil || meta.Data.ImageURL == "" {
		return "", false
	}
	u, err := url.Parse(meta.Data.ImageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

func View(m Model) controller.Controller[Msg] {
	if m.Loading {
		return controller.Screen[Msg]{View: view.Stack[Msg]{Children: []view.View[Msg]{
			view.ActivityIndicator[Msg]{Animating: true},
		}}}
	}
	return controller.Screen[Msg]{View: view.Stack[Msg]{Children: []view.View[Msg]{
		view.Image[Msg]{Data: m.Image},
		view.Button[Msg]{Text: "Reload", OnTap: view.Msg(Msg{Kind: Reload})},
	}}}
}

// Program starts loading a gif as soon as it is shown.
func Program(o Options) driver.Program[Model, Msg] {
	return driver.Program[Model, Msg]{
		Init:    Model{Loading: true},
		Update:  Update(o),
		View:    View,
		Startup: []effect.Command[Msg]{fetchMetadata(o)},
	}
}
