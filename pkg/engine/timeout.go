package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/precast/pkg/params"
)

// DefaultTimeout bounds a single script evaluation unless the caller's
// context carries an earlier deadline.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("parameter script timed out")
	// ErrSuperseded is returned when a newer evaluation started on the same
	// engine before this one finished.
	ErrSuperseded = errors.New("parameter script superseded by a newer evaluation")
)

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides DefaultTimeout. A non-positive d disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

type outcome struct {
	set    params.Set
	errors []EvalError
	err    error
}

// await blocks until the script goroutine reports on ch or ctx ends. The
// goroutine is left to finish on its own after a timeout; its outcome is
// dropped because the buffered channel is never read again.
func (e *Engine) await(ctx context.Context, ch <-chan outcome, gen uint64) (params.Set, []EvalError, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	select {
	case out := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return out.set, out.errors, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return nil, nil, ctx.Err()
	}
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}
