// Package probe implements the connectivity widget state machine.
package probe

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/studiowebux/shopdemo/internal/logging"
)

// State of the widget
type State int

const (
	Idle State = iota
	Probing
	Reachable
	Unreachable
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case Reachable:
		return "reachable"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Label is the status line shown next to the indicator
func (s State) Label() string {
	switch s {
	case Probing:
		return "Testing connection..."
	case Reachable:
		return "Connection established!"
	case Unreachable:
		return "Connection failed"
	default:
		return "Click to test"
	}
}

// Badge is the short status badge
func (s State) Badge() string {
	switch s {
	case Reachable:
		return "Online"
	case Unreachable:
		return "Offline"
	default:
		return "Test"
	}
}

// Prober is the slice of the gateway the widget needs
type Prober interface {
	Probe(ctx context.Context) (json.RawMessage, error)
}

// Observer is called on every state transition, outside the widget lock
type Observer func(from, to State)

// Widget is safe for concurrent use
type Widget struct {
	mu       sync.RWMutex
	state    State
	payload  json.RawMessage
	lastErr  error
	observer Observer
	logger   *slog.Logger
}

// New returns an idle widget
func New(logger *slog.Logger, observer Observer) *Widget {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Widget{state: Idle, observer: observer, logger: logger}
}

// Begin moves to Probing. Returns false while a probe is already running.
func (w *Widget) Begin() bool {
	w.mu.Lock()
	if w.state == Probing {
		w.mu.Unlock()
		return false
	}
	from := w.state
	w.state = Probing
	w.mu.Unlock()

	w.notify(from, Probing)
	return true
}

// Complete finishes a probe. Success stores payload and moves to Reachable; failure
// moves to Unreachable and keeps the previous payload. Ignored unless Probing.
func (w *Widget) Complete(payload json.RawMessage, err error) {
	w.mu.Lock()
	if w.state != Probing {
		w.mu.Unlock()
		return
	}

	to := Reachable
	if err != nil {
		to = Unreachable
		w.lastErr = err
		w.logger.Warn("connectivity probe failed", "error", err)
	} else {
		w.lastErr = nil
		w.payload = append(json.RawMessage(nil), payload...)
	}
	w.state = to
	w.mu.Unlock()

	w.notify(Probing, to)
}

// Run performs one full probe cycle and returns the resulting state
func (w *Widget) Run(ctx context.Context, p Prober) State {
	if !w.Begin() {
		return Probing
	}
	payload, err := p.Probe(ctx)
	w.Complete(payload, err)
	return w.State()
}

// State returns the current state
func (w *Widget) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Payload returns the last successful probe payload, nil before the first success
func (w *Widget) Payload() json.RawMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.payload == nil {
		return nil
	}
	return append(json.RawMessage(nil), w.payload...)
}

// Err returns the error of the last failed probe, cleared by a success
func (w *Widget) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

func (w *Widget) notify(from, to State) {
	if w.observer != nil {
		w.observer(from, to)
	}
}
