// Package graph implements a small deferred-execution graph.
//
// Optimizer methods do not mutate state when called. They build Op values
// describing the work to perform; an Engine later executes the ops while
// honoring the declared dependencies. This keeps ordering contracts (such as
// "the average update runs after the train update") expressible as data
// rather than as call order.
package graph

// Op is a deferred unit of work.
//
// An Op holds a run function and the set of ops that must complete before it
// may run. Ops with a nil run function are pure join points (see Group).
type Op struct {
	label string
	fn    func() error
	deps  []*Op
}

// NewOp creates an op running fn after all deps have completed.
//
// fn may be nil for a pure synchronization node.
func NewOp(label string, fn func() error, deps ...*Op) *Op {
	op := &Op{label: label, fn: fn}
	return op.After(deps...)
}

// NoOp creates an op with no work and no dependencies.
func NoOp(label string) *Op {
	return &Op{label: label}
}

// Group creates a join op that completes once every input op has completed.
//
// Nil inputs are skipped, so callers can group optional ops without
// filtering first.
func Group(label string, ops ...*Op) *Op {
	g := &Op{label: label}
	return g.After(ops...)
}

// After adds deps as prerequisites of the op and returns the op.
//
// This is the mechanism behind sequential averaging: the average op is
// constructed independently and then ordered after the train op.
func (o *Op) After(deps ...*Op) *Op {
	for _, d := range deps {
		if d != nil {
			o.deps = append(o.deps, d)
		}
	}
	return o
}

// Label returns the op's diagnostic label.
func (o *Op) Label() string {
	return o.label
}

// Deps returns the op's direct dependencies. The slice must not be mutated.
func (o *Op) Deps() []*Op {
	return o.deps
}

// DependsOn reports whether target is reachable from o's dependencies.
func (o *Op) DependsOn(target *Op) bool {
	seen := make(map[*Op]bool)
	var walk func(op *Op) bool
	walk = func(op *Op) bool {
		for _, d := range op.deps {
			if d == target {
				return true
			}
			if !seen[d] {
				seen[d] = true
				if walk(d) {
					return true
				}
			}
		}
		return false
	}
	return walk(o)
}
