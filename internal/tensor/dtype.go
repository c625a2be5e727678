// Package tensor provides the dense tensor storage used by the optimizers.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// Optimizer state is kept in float64 so that update arithmetic can run
// directly on gonum vectors. Additional types can be added once a typed
// backend lands.
const (
	Float64 DataType = iota
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
