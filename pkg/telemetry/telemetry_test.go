package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsubscribe := hub.Subscribe()
	hub.Publish(Event{Type: EventMessageHandled})

	select {
	case ev := <-ch:
		assert.Equal(t, EventMessageHandled, ev.Type)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	unsubscribe()
	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, unsubscribe)
}

func TestHub_RecentKeepsTail(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 300; i++ {
		hub.Publish(Event{Type: EventRendered, Data: map[string]any{"i": i}})
	}
	recent := hub.Recent(0)
	require.Len(t, recent, 256)
	assert.Equal(t, 299, recent[255].Data["i"])

	last := hub.Recent(2)
	require.Len(t, last, 2)
	assert.Equal(t, 298, last[0].Data["i"])
}

func TestHub_NilAndClosed(t *testing.T) {
	var nilHub *Hub
	assert.NotPanics(t, func() { nilHub.Publish(Event{}) })

	hub := NewHub()
	hub.Close()
	hub.Close()
	hub.Publish(Event{Type: EventRendered})
	ch, _ := hub.Subscribe()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestServer_Routes(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Type: EventCommandInterpreted})

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	srv := httptest.NewServer(NewServer(hub, registry).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_total 1")

	resp, err = http.Get(srv.URL + "/events?limit=1")
	require.NoError(t, err)
	var payload struct {
		Events []Event `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.Len(t, payload.Events, 1)
	assert.Equal(t, EventCommandInterpreted, payload.Events[0].Type)

	resp, err = http.Get(srv.URL + "/events?limit=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
