// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensor storage used by the optimizers.
//
// # Overview
//
// Tensors are flat float64 buffers with a shape. This package provides:
//   - RawTensor: dense storage with zero-copy gonum vector views
//   - Shape: dimension bookkeeping
//   - Creation helpers (Zeros, Full, FromSlice, ...)
//
// # Basic Usage
//
//	import "github.com/gongdu/addons/tensor"
//
//	func main() {
//	    w, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Arithmetic runs on gonum views of the backing buffer.
//	    v := w.Vec()
//	    v.ScaleVec(0.5, v)
//	}
//
// # Memory Model
//
// Vec returns a gonum VecDense sharing the tensor's buffer, so vector
// arithmetic mutates the tensor in place. Clone produces an independent
// copy; CopyFrom overwrites contents with an exact shape check.
package tensor
