package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/shopdemo/internal/gateway"
)

type recorder struct {
	states []State
}

func (r *recorder) observe(from, to State) {
	if len(r.states) == 0 {
		r.states = append(r.states, from)
	}
	r.states = append(r.states, to)
}

func TestRun_ReachableAgainstOKOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","method":"GET"}`))
	}))
	defer srv.Close()

	rec := &recorder{}
	w := New(nil, rec.observe)
	assert.Equal(t, Idle, w.State())

	state := w.Run(context.Background(), gateway.New(srv.URL, time.Second))

	assert.Equal(t, Reachable, state)
	assert.Equal(t, []State{Idle, Probing, Reachable}, rec.states)
	assert.JSONEq(t, `{"status":"ok","method":"GET"}`, string(w.Payload()))
	assert.NoError(t, w.Err())
}

func TestRun_UnreachableOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	rec := &recorder{}
	w := New(nil, rec.observe)

	state := w.Run(context.Background(), gateway.New(srv.URL, 50*time.Millisecond))

	assert.Equal(t, Unreachable, state)
	assert.Equal(t, []State{Idle, Probing, Unreachable}, rec.states)
	assert.Nil(t, w.Payload())
	assert.ErrorIs(t, w.Err(), gateway.ErrTransport)
}

func TestBegin_DisabledWhileProbing(t *testing.T) {
	w := New(nil, nil)

	require.True(t, w.Begin())
	assert.False(t, w.Begin())
	assert.Equal(t, Probing, w.State())
}

func TestRetriggerFromTerminalStates(t *testing.T) {
	w := New(nil, nil)

	require.True(t, w.Begin())
	w.Complete(json.RawMessage(`{"n":1}`), nil)
	assert.Equal(t, Reachable, w.State())

	require.True(t, w.Begin())
	w.Complete(nil, errors.New("down"))
	assert.Equal(t, Unreachable, w.State())
	assert.JSONEq(t, `{"n":1}`, string(w.Payload()), "failure keeps the last payload")

	require.True(t, w.Begin())
	w.Complete(json.RawMessage(`{"n":2}`), nil)
	assert.Equal(t, Reachable, w.State())
	assert.JSONEq(t, `{"n":2}`, string(w.Payload()))
	assert.NoError(t, w.Err())
}

func TestComplete_IgnoredWhenNotProbing(t *testing.T) {
	w := New(nil, nil)

	w.Complete(json.RawMessage(`{}`), nil)
	assert.Equal(t, Idle, w.State())
	assert.Nil(t, w.Payload())
}

func TestLabelsAndBadges(t *testing.T) {
	assert.Equal(t, "Click to test", Idle.Label())
	assert.Equal(t, "Testing connection...", Probing.Label())
	assert.Equal(t, "Connection established!", Reachable.Label())
	assert.Equal(t, "Connection failed", Unreachable.Label())

	assert.Equal(t, "Test", Idle.Badge())
	assert.Equal(t, "Online", Reachable.Badge())
	assert.Equal(t, "Offline", Unreachable.Badge())
	assert.Equal(t, "unreachable", Unreachable.String())
}
