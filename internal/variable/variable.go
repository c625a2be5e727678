// Package variable provides named, trainable tensors tracked by optimizers.
package variable

import (
	"sync"

	"github.com/gongdu/addons/internal/tensor"
)

// Variable represents a model parameter tracked by an optimizer.
//
// Variables are tensors with a stable identity: optimizer slots are keyed by
// the *Variable pointer, so the same Variable must be passed to every
// optimizer call that refers to the same parameter.
//
// Example:
//
//	w, _ := tensor.FromSlice([]float64{0.1, -0.2}, tensor.Shape{2})
//	weight := variable.New("linear.weight", w)
type Variable struct {
	name      string            // Variable name (e.g., "linear.weight")
	value     *tensor.RawTensor // Live parameter value
	trainable bool              // Frozen variables are skipped by AssignAverageVars
	mu        sync.Mutex        // Serializes update ops touching the live value
}

// New creates a trainable variable.
func New(name string, value *tensor.RawTensor) *Variable {
	return &Variable{name: name, value: value, trainable: true}
}

// NewFrozen creates a non-trainable variable.
//
// Frozen variables can appear in variable lists handed to optimizers, but
// they never receive updates and average assignment skips them.
func NewFrozen(name string, value *tensor.RawTensor) *Variable {
	return &Variable{name: name, value: value, trainable: false}
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.name
}

// Value returns the live value tensor.
//
// The returned tensor is the variable's actual storage, not a copy.
func (v *Variable) Value() *tensor.RawTensor {
	return v.value
}

// Trainable reports whether the variable receives gradient updates.
func (v *Variable) Trainable() bool {
	return v.trainable
}

// Assign overwrites the variable's live value with the contents of src.
//
// Returns an error if the shapes differ.
func (v *Variable) Assign(src *tensor.RawTensor) error {
	return v.Locked(func() error {
		return v.value.CopyFrom(src)
	})
}

// Locked runs fn while holding the variable's update lock.
//
// Update ops that touch the live value run under this lock, so two ops on
// the same variable with no declared ordering never race; their order
// remains unspecified.
func (v *Variable) Locked(fn func() error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fn()
}
