package gif

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
)

const picture = "GIF89a..."

func gifServer(t *testing.T, metadata func(base string) string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/random", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, metadata(srv.URL))
	})
	mux.HandleFunc("/cat.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		fmt.Fprint(w, picture)
	})
	t.Cleanup(srv.Close)
	return srv
}

func settle(d *driver.Driver[Model, Msg], loop *driver.Loop) {
	for range 3 {
		d.Wait()
		loop.Drain()
	}
}

func TestReloadRequestsMetadata(t *testing.T) {
	o := Options{Endpoint: "https://example.test/random"}
	m, cmds := Update(o)(Model{Image: []byte("old")}, Msg{Kind: Reload})
	assert.True(t, m.Loading)
	assert.Equal(t, []byte("old"), m.Image)
	require.Len(t, cmds, 1)

	req, ok := cmds[0].(effect.Request[Msg])
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, o.Endpoint, req.URL)
	assert.Equal(t, Msg{Kind: ReceiveMetadata, Body: "{}", OK: true}, req.Available([]byte("{}"), true))
}

func TestMetadataChainsImageRequest(t *testing.T) {
	body := `{"data":{"image_url":"https://media.example.test/a.gif"}}`
	m, cmds := Update(Options{})(Model{Loading: true}, Msg{Kind: ReceiveMetadata, Body: body, OK: true})
	assert.True(t, m.Loading, "still loading until the image arrives")
	require.Len(t, cmds, 1)
	assert.Equal(t, "https://media.example.test/a.gif", cmds[0].(effect.Request[Msg]).URL)
}

func TestExtractGIFURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"valid", `{"data":{"image_url":"https://x.test/a.gif"}}`, "https://x.test/a.gif", true},
		{"missing data", `{"meta":{}}`, "", false},
		{"empty url", `{"data":{"image_url":""}}`, "", false},
		{"relative url", `{"data":{"image_url":"a.gif"}}`, "", false},
		{"not json", `<html>`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractGIFURL([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFailuresStopLoadingAndAlert(t *testing.T) {
	update := Update(Options{})
	for _, msg := range []Msg{
		{Kind: ReceiveMetadata},
		{Kind: ReceiveMetadata, Body: "nope", OK: true},
		{Kind: ReceiveGif},
	} {
		m, cmds := update(Model{Loading: true, Image: []byte("kept")}, msg)
		assert.False(t, m.Loading)
		assert.Equal(t, []byte("kept"), m.Image)
		assert.Equal(t, []effect.Command[Msg]{failed()}, cmds)
	}
}

func TestLoadsGifOnStart(t *testing.T) {
	srv := gifServer(t, func(base string) string {
		return fmt.Sprintf(`{"data":{"image_url":%q}}`, base+"/cat.gif")
	})

	tk := sim.New()
	loop := driver.NewLoop()
	env := effect.Env{HTTP: srv.Client(), Dialogs: tk.Dialogs(), Context: context.Background()}
	d := driver.New(Program(Options{Endpoint: srv.URL + "/random"}), loop, driver.Options{Toolkit: tk, Env: env})
	assert.Equal(t, []string{"stack vertical", "  (loading...)"}, sim.Lines(d.Root()))

	settle(d, loop)
	assert.Equal(t, []byte(picture), d.Model().Image)
	assert.Equal(t, []string{"stack vertical", fmt.Sprintf("  <image %d bytes>", len(picture)), "  [Reload]"}, sim.Lines(d.Root()))

	for _, el := range sim.Interactive(d.Root()) {
		if el.Label == "[Reload]" {
			el.Activate()
		}
	}
	loop.Drain()
	assert.True(t, d.Model().Loading)
	settle(d, loop)
	assert.False(t, d.Model().Loading)
	assert.Empty(t, tk.Dialogs().Alerts())
}

func TestBadMetadataAlerts(t *testing.T) {
	srv := gifServer(t, func(string) string { return `{"data":{}}` })

	tk := sim.New()
	loop := driver.NewLoop()
	env := effect.Env{HTTP: srv.Client(), Dialogs: tk.Dialogs(), Context: context.Background()}
	d := driver.New(Program(Options{Endpoint: srv.URL + "/random"}), loop, driver.Options{Toolkit: tk, Env: env})
	settle(d, loop)

	assert.False(t, d.Model().Loading)
	alert := tk.Dialogs().PendingAlert()
	require.NotNil(t, alert)
	assert.Equal(t, "Could not load a gif", alert.Title)
	assert.Equal(t, []string{"stack vertical", "  <image 0 bytes>", "  [Reload]"}, sim.Lines(d.Root()))
}
