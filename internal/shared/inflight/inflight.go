// Package inflight keeps at most one live request per kind: starting a new
// request aborts its predecessor so a late completion cannot clobber newer state.
package inflight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrAborted marks a request that was superseded or cancelled by its caller.
// It is an expected outcome, not a failure.
var ErrAborted = errors.New("request aborted")

// IsAborted reports whether err is a cancellation rather than a failure.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}

// Aborted wraps the cancellation cause of ctx so callers can match ErrAborted.
func Aborted(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil {
		return ErrAborted
	}
	if errors.Is(cause, ErrAborted) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrAborted, cause)
}

type entry struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// Guard tracks the live request per kind. The zero value is not usable; use New.
type Guard struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]entry
}

func New() *Guard {
	return &Guard{entries: make(map[string]entry)}
}

// Ticket identifies one request started with Begin.
type Ticket struct {
	g    *Guard
	kind string
	seq  uint64
}

// Begin aborts the live request of the same kind, if any, and returns a
// context for the new one. Callers must call Done when the request finishes.
func (g *Guard) Begin(parent context.Context, kind string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancelCause(parent)

	g.mu.Lock()
	if prev, ok := g.entries[kind]; ok {
		prev.cancel(fmt.Errorf("%w: superseded by a newer %s request", ErrAborted, kind))
	}
	g.seq++
	seq := g.seq
	g.entries[kind] = entry{seq: seq, cancel: cancel}
	g.mu.Unlock()

	return ctx, &Ticket{g: g, kind: kind, seq: seq}
}

// Current reports whether no newer request of the same kind has started.
func (t *Ticket) Current() bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()

	e, ok := t.g.entries[t.kind]
	return ok && e.seq == t.seq
}

// Done releases the request's context.
func (t *Ticket) Done() {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()

	e, ok := t.g.entries[t.kind]
	if ok && e.seq == t.seq {
		e.cancel(nil)
		delete(t.g.entries, t.kind)
	}
}

// AbortAll cancels every live request, used when a session ends.
func (g *Guard) AbortAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for kind, e := range g.entries {
		e.cancel(fmt.Errorf("%w: session closed", ErrAborted))
		delete(g.entries, kind)
	}
}
