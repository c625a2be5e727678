package optim_test

import (
	"context"
	"testing"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/optim"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
	"github.com/stretchr/testify/require"
)

// scalarVar creates a trainable one-element variable.
func scalarVar(t *testing.T, name string, val float64) *variable.Variable {
	t.Helper()
	raw, err := tensor.FromSlice([]float64{val}, tensor.Shape{1})
	require.NoError(t, err)
	return variable.New(name, raw)
}

// vecVar creates a trainable variable from flat data.
func vecVar(t *testing.T, name string, data []float64, shape tensor.Shape) *variable.Variable {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return variable.New(name, raw)
}

// grad creates a gradient tensor from flat data.
func grad(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

// run executes ops on a fresh engine and fails the test on error.
func run(t *testing.T, ops ...*graph.Op) {
	t.Helper()
	require.NoError(t, graph.NewEngine().Run(context.Background(), ops...))
}

// runErr executes ops on a fresh engine and returns the error.
func runErr(t *testing.T, ops ...*graph.Op) error {
	t.Helper()
	return graph.NewEngine().Run(context.Background(), ops...)
}

// step applies one (gradient, variable) batch and runs it.
func step(t *testing.T, o optim.Optimizer, pairs ...optim.GradAndVar) {
	t.Helper()
	op, err := o.ApplyGradients(pairs)
	require.NoError(t, err)
	run(t, op)
}
