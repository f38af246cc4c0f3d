package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Gate bounds identity calls by a timeout and keeps only the newest one.
// A result that arrives after the timeout, or after a newer call started,
// is dropped.
type Gate struct {
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewGate creates a gate; timeout <= 0 disables the time bound
func NewGate(timeout time.Duration) *Gate {
	return &Gate{timeout: timeout}
}

func (g *Gate) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generation++
	return g.generation
}

func (g *Gate) current(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation == gen
}

type result[T any] struct {
	value T
	err   error
}

// Run executes fn under g. fn receives a context that is cancelled on
// timeout; it may still finish later, in which case its result is dropped.
func Run[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	gen := g.next()

	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if g.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// buffered so a discarded call never blocks its goroutine
	done := make(chan result[T], 1)
	go func() {
		v, err := fn(callCtx)
		done <- result[T]{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if !g.current(gen) {
			return zero, ErrSuperseded
		}
		// fn may observe the deadline first and return before Done is selected
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			return zero, ErrTimeout
		}
		return r.value, r.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, ErrTimeout
	}
}
