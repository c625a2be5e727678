package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RawTensor is a dense tensor backed by a flat float64 buffer.
//
// The buffer is laid out in row-major order. RawTensor is the unit of
// storage for variables, gradients and optimizer slots; update arithmetic
// runs on gonum vector views of the buffer, so no copies are made on the
// hot path.
//
// RawTensor is not safe for concurrent mutation. The optimizers never issue
// two update operations that touch the same tensor without an explicit
// dependency between them.
type RawTensor struct {
	shape Shape
	dtype DataType
	data  []float64
}

// NewRaw creates a zero-filled tensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape %v: %w", shape, err)
	}
	return &RawTensor{
		shape: shape.Clone(),
		dtype: Float64,
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// Shape returns the tensor shape. The returned slice must not be mutated.
func (t *RawTensor) Shape() Shape {
	return t.shape
}

// DType returns the element type.
func (t *RawTensor) DType() DataType {
	return t.dtype
}

// NumElements returns the number of elements in the buffer.
func (t *RawTensor) NumElements() int {
	return len(t.data)
}

// Data returns the flat backing buffer. Mutations are visible to every
// view of the tensor.
func (t *RawTensor) Data() []float64 {
	return t.data
}

// Vec returns a gonum vector view sharing the backing buffer.
//
// Writing through the view writes through to the tensor.
func (t *RawTensor) Vec() *mat.VecDense {
	return mat.NewVecDense(len(t.data), t.data)
}

// At returns the element at flat index i.
func (t *RawTensor) At(i int) float64 {
	return t.data[i]
}

// Set stores v at flat index i.
func (t *RawTensor) Set(i int, v float64) {
	t.data[i] = v
}

// Fill sets every element to v.
func (t *RawTensor) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Clone returns a deep copy with its own buffer.
func (t *RawTensor) Clone() *RawTensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &RawTensor{shape: t.shape.Clone(), dtype: t.dtype, data: data}
}

// CopyFrom overwrites the tensor contents with those of src.
//
// The shapes must match exactly; no broadcasting is performed.
func (t *RawTensor) CopyFrom(src *RawTensor) error {
	if !t.shape.Equal(src.shape) {
		return fmt.Errorf("shape mismatch: cannot copy %v into %v", src.shape, t.shape)
	}
	copy(t.data, src.data)
	return nil
}

// Equal reports whether two tensors have identical shape and contents.
func (t *RawTensor) Equal(other *RawTensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
