package optim

import (
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
	"github.com/pkg/errors"
)

// slotKey identifies one optimizer slot: per-variable auxiliary state such
// as momentum buffers or shadow averages.
type slotKey struct {
	v    *variable.Variable
	name string
}

// base carries the bookkeeping shared by every optimizer: the display name,
// the hyperparameter table, the iteration counter and the slot table.
//
// The iteration counter lives in a one-element tensor so it can be reported
// through Weights alongside the slot tensors.
type base struct {
	name       string
	hypers     map[string]float64
	iterations *tensor.RawTensor
	slots      map[slotKey]*tensor.RawTensor
	slotOrder  []slotKey
}

func newBase(name string) base {
	return base{
		name:       name,
		hypers:     make(map[string]float64),
		iterations: tensor.Scalar(0),
		slots:      make(map[slotKey]*tensor.RawTensor),
	}
}

// Name returns the optimizer's display name.
func (b *base) Name() string {
	return b.name
}

// CreateHypers is a no-op: optimizers in this package materialize their
// hyperparameters at construction time.
func (b *base) CreateHypers() {}

// Prepare snapshots the current hyperparameter values.
func (b *base) Prepare(vars []*variable.Variable) *PrepareContext {
	snapshot := make(map[string]float64, len(b.hypers))
	for k, v := range b.hypers {
		snapshot[k] = v
	}
	return &PrepareContext{Hypers: snapshot}
}

// GetHyper returns a named hyperparameter.
func (b *base) GetHyper(name string) (float64, error) {
	v, ok := b.hypers[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHyper, "%s: %q", b.name, name)
	}
	return v, nil
}

// SetHyper creates or updates a named hyperparameter.
func (b *base) SetHyper(name string, value float64) {
	b.hypers[name] = value
}

// hyper reads a hyperparameter without an existence check. Update ops use
// it on the hot path; constructors guarantee the keys exist.
func (b *base) hyper(name string) float64 {
	return b.hypers[name]
}

// Iterations returns the number of completed apply-gradients steps.
func (b *base) Iterations() int64 {
	return int64(b.iterations.At(0))
}

// SetIterations overwrites the step counter.
func (b *base) SetIterations(n int64) {
	b.iterations.Set(0, float64(n))
}

// AddSlot returns the slot named name for v, creating it on first use.
//
// A freshly created slot is a copy of init, or zeros shaped like the
// variable when init is nil. An existing slot is returned untouched, which
// makes repeated slot-creation calls safe.
func (b *base) AddSlot(v *variable.Variable, name string, init *tensor.RawTensor) *tensor.RawTensor {
	key := slotKey{v: v, name: name}
	if slot, ok := b.slots[key]; ok {
		return slot
	}
	var slot *tensor.RawTensor
	if init != nil {
		slot = init.Clone()
	} else {
		slot = tensor.ZerosLike(v.Value())
	}
	b.slots[key] = slot
	b.slotOrder = append(b.slotOrder, key)
	return slot
}

// Slot returns the slot named name for v, if it has been created.
func (b *base) Slot(v *variable.Variable, name string) (*tensor.RawTensor, bool) {
	slot, ok := b.slots[slotKey{v: v, name: name}]
	return slot, ok
}

// Weights returns the optimizer state: the iteration counter first, then
// slot tensors in creation order.
func (b *base) Weights() []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, 0, 1+len(b.slotOrder))
	out = append(out, b.iterations)
	for _, key := range b.slotOrder {
		out = append(out, b.slots[key])
	}
	return out
}
