package graph

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

// ErrCycle is returned when the submitted ops contain a dependency cycle.
var ErrCycle = errors.New("graph: dependency cycle")

// Engine executes deferred ops.
//
// Ops whose dependencies have all completed run concurrently on a bounded
// goroutine pool; ops with unmet dependencies wait. Each op runs at most
// once per Run call, even when it is reachable from several roots.
type Engine struct {
	maxWorkers int
	trace      func(label string)
	mu         sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxWorkers bounds the number of ops executing concurrently.
// Zero or negative means no bound.
func WithMaxWorkers(n int) Option {
	return func(e *Engine) { e.maxWorkers = n }
}

// WithTrace installs a callback invoked after each op completes, in
// completion order. Used by tests to observe scheduling.
func WithTrace(fn func(label string)) Option {
	return func(e *Engine) { e.trace = fn }
}

// NewEngine creates an execution engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the given ops and their transitive dependencies.
//
// Execution proceeds in waves: every op whose dependencies have completed is
// submitted to the pool, the wave is joined, and the next wave is computed.
// The first op error cancels the remaining work and is returned. A
// dependency cycle is reported as ErrCycle before anything runs.
func (e *Engine) Run(ctx context.Context, roots ...*Op) error {
	all, err := collect(roots)
	if err != nil {
		return err
	}

	done := make(map[*Op]bool, len(all))
	for len(done) < len(all) {
		if err := ctx.Err(); err != nil {
			return err
		}

		var ready []*Op
		for _, op := range all {
			if done[op] {
				continue
			}
			if e.depsDone(op, done) {
				ready = append(ready, op)
			}
		}
		// collect rejects cycles, so progress is guaranteed.

		base := pool.New()
		if e.maxWorkers > 0 {
			base = base.WithMaxGoroutines(e.maxWorkers)
		}
		p := base.WithErrors().WithContext(ctx).WithCancelOnError()
		for _, op := range ready {
			p.Go(func(ctx context.Context) error {
				if op.fn != nil {
					if err := op.fn(); err != nil {
						return errors.Wrapf(err, "op %q", op.label)
					}
				}
				e.record(op.label)
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return err
		}
		for _, op := range ready {
			done[op] = true
		}
	}
	return nil
}

func (e *Engine) depsDone(op *Op, done map[*Op]bool) bool {
	for _, d := range op.deps {
		if !done[d] {
			return false
		}
	}
	return true
}

func (e *Engine) record(label string) {
	if e.trace == nil {
		return
	}
	e.mu.Lock()
	e.trace(label)
	e.mu.Unlock()
}

// collect gathers the transitive closure of roots in DFS order and rejects
// dependency cycles.
func collect(roots []*Op) ([]*Op, error) {
	const (
		visiting = 1
		finished = 2
	)
	state := make(map[*Op]int)
	var all []*Op

	var visit func(op *Op) error
	visit = func(op *Op) error {
		switch state[op] {
		case visiting:
			return errors.Wrapf(ErrCycle, "involving op %q", op.label)
		case finished:
			return nil
		}
		state[op] = visiting
		for _, d := range op.deps {
			if err := visit(d); err != nil {
				return err
			}
		}
		state[op] = finished
		all = append(all, op)
		return nil
	}

	for _, op := range roots {
		if op == nil {
			continue
		}
		if err := visit(op); err != nil {
			return nil, err
		}
	}
	return all, nil
}
