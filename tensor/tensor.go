// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/gongdu/addons/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float64 = tensor.Float64
)

// RawTensor is a dense tensor backed by a flat float64 buffer.
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *RawTensor {
	return tensor.Zeros(shape)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64) *RawTensor {
	return tensor.Full(shape, value)
}

// Scalar creates a one-element tensor holding value.
func Scalar(value float64) *RawTensor {
	return tensor.Scalar(value)
}

// ZerosLike creates a zero-filled tensor with the same shape as t.
func ZerosLike(t *RawTensor) *RawTensor {
	return tensor.ZerosLike(t)
}

// FromSlice creates a tensor from a flat data slice and a shape.
func FromSlice(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}
