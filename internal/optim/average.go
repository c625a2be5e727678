package optim

import (
	"fmt"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
	"github.com/pkg/errors"
)

// AveragingRule computes the update for a variable's shadow average.
//
// AverageOp receives the variable, its average slot, and an accessor for
// the optimizer's step counter; the accessor must be read when the returned
// op executes, not when it is built, so schedule-based rules observe the
// step the engine is actually running. The rule builds the op without
// dependencies; the wrapper orders it after the train update when
// sequential updates are requested.
type AveragingRule interface {
	AverageOp(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op
}

// AveragedOptimizer decorates a base optimizer with a shadow copy of every
// trainable variable, updated after each optimizer step.
//
// The wrapper satisfies the full Optimizer interface, so it can stand in
// anywhere a plain optimizer is expected. It owns one "average" slot per
// variable, seeded with the variable's value at slot-creation time, and an
// iteration counter that is copied into the wrapped optimizer before every
// apply so that both counters stay numerically identical.
//
// The averaging rule is the single extension point: MovingAverage and SWA
// supply concrete rules, and callers can inject their own.
type AveragedOptimizer struct {
	base
	opt        Optimizer
	rule       AveragingRule
	sequential bool
}

// AveragedConfig configures an AveragedOptimizer.
type AveragedConfig struct {
	// Concurrent drops the ordering edge between the train update and the
	// average update, letting the engine run them in either order or in
	// parallel. The default (sequential) orders the average update strictly
	// after the train update for each variable.
	Concurrent bool

	// Name is the optimizer display name (default: "AverageOptimizer").
	Name string
}

// NewAveraged creates an averaged decorator around a base optimizer.
//
// The optimizer argument may be an Optimizer instance or a registered name
// string; anything else is a TypeError. The rule must be non-nil.
func NewAveraged(optimizer any, rule AveragingRule, config AveragedConfig) (*AveragedOptimizer, error) {
	opt, err := Get(optimizer)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, errors.WithStack(&TypeError{
			Argument: "rule",
			Value:    rule,
			Expected: "optim.AveragingRule",
		})
	}
	if config.Name == "" {
		config.Name = "AverageOptimizer"
	}
	return &AveragedOptimizer{
		base:       newBase(config.Name),
		opt:        opt,
		rule:       rule,
		sequential: !config.Concurrent,
	}, nil
}

// Wrapped returns the wrapped base optimizer.
func (a *AveragedOptimizer) Wrapped() Optimizer {
	return a.opt
}

// SequentialUpdate reports whether average updates are ordered after train
// updates.
func (a *AveragedOptimizer) SequentialUpdate() bool {
	return a.sequential
}

// CreateSlots delegates slot creation to the wrapped optimizer, then
// allocates one "average" slot per variable, seeded with the variable's
// current value. Existing slots are left untouched.
func (a *AveragedOptimizer) CreateSlots(vars []*variable.Variable) {
	a.opt.CreateSlots(vars)
	for _, v := range vars {
		a.AddSlot(v, "average", v.Value())
	}
}

// CreateHypers delegates to the wrapped optimizer; the wrapper has no
// hyperparameters of its own.
func (a *AveragedOptimizer) CreateHypers() {
	a.opt.CreateHypers()
}

// Prepare delegates to the wrapped optimizer.
func (a *AveragedOptimizer) Prepare(vars []*variable.Variable) *PrepareContext {
	return a.opt.Prepare(vars)
}

// GetHyper delegates to the wrapped optimizer.
func (a *AveragedOptimizer) GetHyper(name string) (float64, error) {
	return a.opt.GetHyper(name)
}

// SetHyper delegates to the wrapped optimizer.
func (a *AveragedOptimizer) SetHyper(name string, value float64) {
	a.opt.SetHyper(name, value)
}

// SetIterations overwrites both the wrapper's counter and the wrapped
// optimizer's counter, preserving the invariant that they are equal around
// every apply-gradients call.
func (a *AveragedOptimizer) SetIterations(n int64) {
	a.base.SetIterations(n)
	a.opt.SetIterations(n)
}

// ApplyGradients copies the wrapper's iteration counter into the wrapped
// optimizer, then runs the standard apply-gradients control flow. The
// wrapped optimizer therefore sees the same step count as the wrapper,
// which matters for iteration-keyed schedules such as learning-rate decay.
func (a *AveragedOptimizer) ApplyGradients(pairs []GradAndVar) (*graph.Op, error) {
	a.opt.SetIterations(a.base.Iterations())
	return applyGradients(a, pairs)
}

// ApplyDense chains the averaging update after the wrapped optimizer's
// dense update.
func (a *AveragedOptimizer) ApplyDense(grad *tensor.RawTensor, v *variable.Variable) *graph.Op {
	return a.withAverage(a.opt.ApplyDense(grad, v), v)
}

// ApplySparse chains the averaging update after the wrapped optimizer's
// sparse update. Index handling, including deduplication, stays with the
// wrapped optimizer.
func (a *AveragedOptimizer) ApplySparse(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	return a.withAverage(a.opt.ApplySparse(grad, v, indices), v)
}

// ApplySparseDuplicateIndices chains the averaging update after the wrapped
// optimizer's duplicate-indices sparse update.
func (a *AveragedOptimizer) ApplySparseDuplicateIndices(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	return a.withAverage(a.opt.ApplySparseDuplicateIndices(grad, v, indices), v)
}

// withAverage pairs a train update with the averaging update for the same
// variable. In sequential mode the average op gains a dependency on the
// train op; otherwise the two ops stay unordered.
func (a *AveragedOptimizer) withAverage(train *graph.Op, v *variable.Variable) *graph.Op {
	average := a.AddSlot(v, "average", v.Value())
	avgOp := a.rule.AverageOp(v, average, a.base.Iterations)
	if a.sequential {
		avgOp.After(train)
	}
	return graph.Group(fmt.Sprintf("%s/%s/update", a.name, v.Name()), train, avgOp)
}

// AssignAverageVars builds an op that overwrites each trainable variable in
// vars with the contents of its average slot. Non-trainable variables are
// silently skipped. The per-variable assignments carry no ordering between
// each other.
//
// Typical use is swapping live weights for their averages just before
// persisting a trained model:
//
//	swap, err := opt.AssignAverageVars(model.Variables())
//	if err != nil { ... }
//	if err := engine.Run(ctx, swap); err != nil { ... }
//	saveModel(model)
func (a *AveragedOptimizer) AssignAverageVars(vars []*variable.Variable) (*graph.Op, error) {
	assigns := make([]*graph.Op, 0, len(vars))
	for _, v := range vars {
		if !v.Trainable() {
			continue
		}
		average, ok := a.Slot(v, "average")
		if !ok {
			return nil, errors.Wrapf(ErrMissingSlot, "%s: no average slot for variable %q", a.name, v.Name())
		}
		assigns = append(assigns, graph.NewOp(
			fmt.Sprintf("%s/%s/assign_average", a.name, v.Name()),
			func() error { return v.Assign(average) },
		))
	}
	return graph.Group(a.name+"/assign_average_vars", assigns...), nil
}

// Weights returns the wrapper's own state (iteration counter, then average
// slots) followed by the wrapped optimizer's weights.
func (a *AveragedOptimizer) Weights() []*tensor.RawTensor {
	return append(a.base.Weights(), a.opt.Weights()...)
}

// LearningRate reads the wrapped optimizer's learning rate. The value is
// never cached by the wrapper.
func (a *AveragedOptimizer) LearningRate() (float64, error) {
	return a.opt.GetHyper("learning_rate")
}

// SetLearningRate writes the wrapped optimizer's learning rate directly.
func (a *AveragedOptimizer) SetLearningRate(lr float64) {
	a.opt.SetHyper("learning_rate", lr)
}

// Config nests the wrapped optimizer's configuration alongside the
// sequential-update flag. Concrete averaged optimizers extend this with
// their rule parameters under their own registered class name.
func (a *AveragedOptimizer) Config() Config {
	return Config{
		ClassName: "averaged",
		Params:    a.wrapperParams(),
	}
}

func (a *AveragedOptimizer) wrapperParams() map[string]any {
	return map[string]any{
		"optimizer":         a.opt.Config(),
		"sequential_update": a.sequential,
		"name":              a.name,
	}
}

// averagedFromParams rebuilds the wrapper portion of a config: the nested
// optimizer, the sequential_update flag and the name.
func averagedFromParams(params map[string]any, rule AveragingRule, defName string) (*AveragedOptimizer, error) {
	opt, err := nestedOptimizer(params, "optimizer", "sgd")
	if err != nil {
		return nil, err
	}
	sequential, err := boolParam(params, "sequential_update", true)
	if err != nil {
		return nil, err
	}
	name, err := stringParam(params, "name", defName)
	if err != nil {
		return nil, err
	}
	return NewAveraged(opt, rule, AveragedConfig{Concurrent: !sequential, Name: name})
}
