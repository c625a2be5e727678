package tensor

import "fmt"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *RawTensor {
	t, err := NewRaw(shape)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return t
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(tensor.Shape{3, 3}, 3.14)
func Full(shape Shape, value float64) *RawTensor {
	t := Zeros(shape)
	t.Fill(value)
	return t
}

// Scalar creates a one-element tensor holding value.
func Scalar(value float64) *RawTensor {
	return Full(Shape{1}, value)
}

// ZerosLike creates a zero-filled tensor with the same shape as t.
func ZerosLike(t *RawTensor) *RawTensor {
	return Zeros(t.Shape())
}

// FromSlice creates a tensor from a flat data slice and a shape.
//
// The data is copied, so the caller keeps ownership of the input slice.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float64, shape Shape) (*RawTensor, error) {
	t, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	copy(t.data, data)
	return t, nil
}
