// Package optim implements gradient-descent optimizers and the averaged
// shadow-weight machinery built on top of them.
//
// This package provides:
//   - Optimizer: the wrappable optimizer capability interface
//   - SGD, Adam: concrete base optimizers
//   - AveragedOptimizer: decorator that maintains an "average" slot per
//     variable, updated after every step
//   - MovingAverage, SWA: averaged optimizers with concrete averaging rules
//   - A name registry with config serialization/deserialization
//
// Optimizer methods build deferred graph.Op values instead of mutating state
// directly; a graph.Engine executes them. See package graph.
//
// Example usage:
//
//	w, _ := tensor.FromSlice([]float64{10}, tensor.Shape{1})
//	v := variable.New("w", w)
//
//	opt, _ := optim.NewSWA("sgd", optim.SWAConfig{AveragePeriod: 1})
//	step, _ := opt.ApplyGradients([]optim.GradAndVar{{Grad: g, Var: v}})
//	engine := graph.NewEngine()
//	_ = engine.Run(ctx, step)
//
//	// Swap live weights for their averages before saving.
//	swap, _ := opt.AssignAverageVars([]*variable.Variable{v})
//	_ = engine.Run(ctx, swap)
package optim

import (
	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
	"github.com/pkg/errors"
)

// Optimizer is the capability set every optimizer exposes, including the
// averaged wrappers. It is deliberately wide enough for a decorator to
// intercept every gradient-application entry point, so any Optimizer can be
// wrapped without reaching into its private state.
type Optimizer interface {
	// Name returns the optimizer's display name, used in op labels.
	Name() string

	// CreateSlots allocates per-variable state for the given variables.
	// Must be idempotent per variable: repeated calls never reset a slot
	// that already exists.
	CreateSlots(vars []*variable.Variable)

	// CreateHypers materializes hyperparameters. Optimizers that set their
	// hypers at construction time implement this as a no-op.
	CreateHypers()

	// Prepare snapshots hyperparameter state for a step over vars.
	Prepare(vars []*variable.Variable) *PrepareContext

	// ApplyDense builds the update op for a dense gradient.
	ApplyDense(grad *tensor.RawTensor, v *variable.Variable) *graph.Op

	// ApplySparse builds the update op for a sparse gradient whose indices
	// are unique. grad holds len(indices) rows along dimension 0.
	ApplySparse(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op

	// ApplySparseDuplicateIndices is ApplySparse for gradients whose
	// indices may repeat; duplicate rows are accumulated by the optimizer.
	ApplySparseDuplicateIndices(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op

	// ApplyGradients builds the combined update op for a batch of
	// (gradient, variable) pairs, incrementing the iteration counter once.
	ApplyGradients(pairs []GradAndVar) (*graph.Op, error)

	// GetHyper returns a named hyperparameter.
	GetHyper(name string) (float64, error)

	// SetHyper creates or updates a named hyperparameter.
	SetHyper(name string, value float64)

	// Iterations returns the number of completed apply-gradients steps.
	Iterations() int64

	// SetIterations overwrites the step counter. Wrappers use this to keep
	// their counter and the wrapped optimizer's counter identical.
	SetIterations(n int64)

	// Weights returns the optimizer's state tensors: the step counter
	// first, then slot tensors in creation order.
	Weights() []*tensor.RawTensor

	// Config returns the serializable configuration.
	Config() Config
}

// GradAndVar pairs a gradient with the variable it applies to.
//
// A nil Indices slice marks a dense gradient. For sparse gradients the
// tensor holds len(Indices) rows along dimension 0, and HasDuplicates
// declares whether an index may appear more than once.
type GradAndVar struct {
	Grad          *tensor.RawTensor
	Var           *variable.Variable
	Indices       []int
	HasDuplicates bool
}

// PrepareContext carries per-step hyperparameter snapshots.
type PrepareContext struct {
	Hypers map[string]float64
}

// applyGradients is the shared apply-gradients control flow: validate the
// pairs, make sure slots and hypers exist, dispatch each pair to the
// optimizer's dense or sparse handler, and append a single
// iteration-counter increment ordered after every update.
func applyGradients(o Optimizer, pairs []GradAndVar) (*graph.Op, error) {
	if len(pairs) == 0 {
		return nil, errors.Wrapf(ErrEmptyGradients, "%s: apply_gradients", o.Name())
	}
	vars := make([]*variable.Variable, 0, len(pairs))
	for i, p := range pairs {
		if p.Var == nil {
			return nil, errors.Errorf("%s: pair %d has nil variable", o.Name(), i)
		}
		if p.Grad == nil {
			return nil, errors.Errorf("%s: pair %d has nil gradient for variable %q", o.Name(), i, p.Var.Name())
		}
		vars = append(vars, p.Var)
	}

	o.CreateSlots(vars)
	o.CreateHypers()
	o.Prepare(vars)

	updates := make([]*graph.Op, 0, len(pairs))
	for _, p := range pairs {
		switch {
		case p.Indices == nil:
			updates = append(updates, o.ApplyDense(p.Grad, p.Var))
		case p.HasDuplicates:
			updates = append(updates, o.ApplySparseDuplicateIndices(p.Grad, p.Var, p.Indices))
		default:
			updates = append(updates, o.ApplySparse(p.Grad, p.Var, p.Indices))
		}
	}

	step := graph.NewOp(o.Name()+"/increment_iterations", func() error {
		o.SetIterations(o.Iterations() + 1)
		return nil
	}, updates...)

	return graph.Group(o.Name()+"/apply_gradients", append(updates, step)...), nil
}

// checkSparse validates a sparse gradient against its variable.
func checkSparse(name string, grad *tensor.RawTensor, v *variable.Variable, indices []int) error {
	rowSize := v.Value().Shape().RowSize()
	if grad.NumElements() != len(indices)*rowSize {
		return errors.Errorf("%s: sparse gradient for %q has %d elements, want %d (%d indices x row size %d)",
			name, v.Name(), grad.NumElements(), len(indices)*rowSize, len(indices), rowSize)
	}
	rows := v.Value().Shape().NumElements() / rowSize
	for _, idx := range indices {
		if idx < 0 || idx >= rows {
			return errors.Errorf("%s: sparse index %d for %q out of range [0, %d)", name, idx, v.Name(), rows)
		}
	}
	return nil
}

// sumDuplicateRows accumulates gradient rows that share an index, returning
// a deduplicated gradient buffer and the unique indices in first-seen order.
func sumDuplicateRows(grad *tensor.RawTensor, indices []int, rowSize int) ([]float64, []int) {
	pos := make(map[int]int, len(indices))
	var unique []int
	var data []float64
	src := grad.Data()
	for k, idx := range indices {
		at, ok := pos[idx]
		if !ok {
			at = len(unique)
			pos[idx] = at
			unique = append(unique, idx)
			data = append(data, make([]float64, rowSize)...)
		}
		for j := 0; j < rowSize; j++ {
			data[at*rowSize+j] += src[k*rowSize+j]
		}
	}
	return data, unique
}
