// Package source holds a collection fed either by a built-in sample or by a
// remote page, with last-switch-wins semantics for in-flight fetches.
package source

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/types"
)

// Loader fetches up to limit records from the remote origin
type Loader[T any] func(ctx context.Context, limit int) ([]T, error)

// Ticket identifies one remote fetch. Results are applied only while the ticket's
// generation is still the collection's current one.
type Ticket struct {
	Generation uint64
	Limit      int
}

// Collection is safe for concurrent use
type Collection[T any] struct {
	mu sync.RWMutex

	name       string
	sample     []T
	items      []T
	mode       types.SourceMode
	busy       bool
	generation uint64

	pageSize int
	load     Loader[T]
	logger   *slog.Logger
}

// New creates a collection in local mode populated with a copy of sample
func New[T any](name string, sample []T, pageSize int, load Loader[T], logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Collection[T]{
		name:     name,
		sample:   slices.Clone(sample),
		items:    slices.Clone(sample),
		mode:     types.SourceLocal,
		pageSize: pageSize,
		load:     load,
		logger:   logger,
	}
}

// SetSourceMode switches the provider. Local resets the items to the sample right away
// and returns false. Remote marks the collection busy and returns the ticket that
// Fetch must be called with.
func (c *Collection[T]) SetSourceMode(mode types.SourceMode) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.mode = mode

	if mode != types.SourceRemote {
		c.mode = types.SourceLocal
		c.busy = false
		c.items = slices.Clone(c.sample)
		return Ticket{}, false
	}

	c.busy = true
	return Ticket{Generation: c.generation, Limit: c.pageSize}, true
}

// Fetch runs the loader for ticket and applies the outcome. The returned error is the
// loader's; the collection has already handled it.
func (c *Collection[T]) Fetch(ctx context.Context, t Ticket) error {
	items, err := c.load(ctx, t.Limit)
	c.Apply(t, items, err)
	return err
}

// Apply installs a fetch result. Stale tickets are dropped. On error the prior items
// are kept. Reports whether the items were replaced.
func (c *Collection[T]) Apply(t Ticket, items []T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Generation != c.generation {
		c.logger.Debug("discarding stale fetch result",
			"collection", c.name,
			"ticket", t.Generation,
			"current", c.generation,
		)
		return false
	}

	c.busy = false

	if err != nil {
		c.logger.Warn("remote fetch failed, keeping previous items",
			"collection", c.name,
			"error", err,
		)
		return false
	}

	c.items = slices.Clone(items)
	c.logger.Debug("collection replaced", "collection", c.name, "count", len(items))
	return true
}

// Current reports whether t still belongs to the latest source switch
func (c *Collection[T]) Current(t Ticket) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return t.Generation == c.generation
}

// Load is SetSourceMode followed by a synchronous Fetch
func (c *Collection[T]) Load(ctx context.Context, mode types.SourceMode) error {
	t, remote := c.SetSourceMode(mode)
	if !remote {
		return nil
	}
	return c.Fetch(ctx, t)
}

// Items returns a copy of the current items
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Sample returns a copy of the built-in sample
func (c *Collection[T]) Sample() []T {
	return slices.Clone(c.sample)
}

// Len returns the number of items
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Mode returns the current source mode
func (c *Collection[T]) Mode() types.SourceMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Busy reports whether a remote fetch for the current mode is in flight
func (c *Collection[T]) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.busy
}

// Mutate runs fn on the items under the write lock. fn returns the new slice and
// whether anything changed. Only local collections are mutable; Mutate reports
// false in remote mode without calling fn.
func (c *Collection[T]) Mutate(fn func(items []T) ([]T, bool)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != types.SourceLocal {
		return false
	}
	items, changed := fn(c.items)
	if changed {
		c.items = items
	}
	return changed
}

// View runs fn on the items under the read lock
func (c *Collection[T]) View(fn func(items []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.items)
}
