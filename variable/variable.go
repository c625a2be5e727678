// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package variable provides named, trainable tensors tracked by optimizers.
package variable

import (
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
)

// Variable represents a model parameter tracked by an optimizer.
type Variable = variable.Variable

// New creates a trainable variable.
//
// Example:
//
//	w, _ := tensor.FromSlice([]float64{0.1, -0.2}, tensor.Shape{2})
//	weight := variable.New("linear.weight", w)
func New(name string, value *tensor.RawTensor) *Variable {
	return variable.New(name, value)
}

// NewFrozen creates a non-trainable variable.
func NewFrozen(name string, value *tensor.RawTensor) *Variable {
	return variable.NewFrozen(name, value)
}
