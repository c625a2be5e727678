package optim_test

import (
	"testing"

	"github.com/gongdu/addons/internal/optim"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSGD_SimpleUpdate(t *testing.T) {
	v := scalarVar(t, "x", 2.0)
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	step(t, o, optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v})

	// x_new = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, v.Value().At(0), 1e-9)
}

func TestSGD_WithMomentum(t *testing.T) {
	v := scalarVar(t, "x", 1.0)
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// First step:
	// v_1 = 0.9 * 0 + 1.0 = 1.0
	// x_1 = 1.0 - 0.1 * 1.0 = 0.9
	step(t, o, optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v})
	assert.InDelta(t, 0.9, v.Value().At(0), 1e-9)

	// Second step:
	// v_2 = 0.9 * 1.0 + 1.0 = 1.9
	// x_2 = 0.9 - 0.1 * 1.9 = 0.71
	step(t, o, optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v})
	assert.InDelta(t, 0.71, v.Value().At(0), 1e-9)
}

func TestSGD_Sparse(t *testing.T) {
	v := vecVar(t, "emb", []float64{1, 1, 2, 2, 3, 3}, tensor.Shape{3, 2})
	o := optim.NewSGD(optim.SGDConfig{LR: 0.5})

	g := grad(t, []float64{2, 4, 6, 8}, tensor.Shape{2, 2})
	step(t, o, optim.GradAndVar{Grad: g, Var: v, Indices: []int{0, 2}})

	// Row 0: [1,1] - 0.5*[2,4] = [0,-1]; row 1 untouched; row 2: [3,3]-0.5*[6,8] = [0,-1]
	assert.Equal(t, []float64{0, -1, 2, 2, 0, -1}, v.Value().Data())
}

func TestSGD_SparseDuplicateIndices(t *testing.T) {
	v := vecVar(t, "emb", []float64{10, 20}, tensor.Shape{2})
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	// Index 1 appears twice; its gradient rows accumulate.
	g := grad(t, []float64{1, 3}, tensor.Shape{2})
	step(t, o, optim.GradAndVar{Grad: g, Var: v, Indices: []int{1, 1}, HasDuplicates: true})

	assert.InDelta(t, 10.0, v.Value().At(0), 1e-9)
	// 20 - 0.1*(1+3) = 19.6
	assert.InDelta(t, 19.6, v.Value().At(1), 1e-9)
}

func TestSGD_SparseIndexOutOfRange(t *testing.T) {
	v := vecVar(t, "emb", []float64{1, 2}, tensor.Shape{2})
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	op, err := o.ApplyGradients([]optim.GradAndVar{{
		Grad:    grad(t, []float64{1}, tensor.Shape{1}),
		Var:     v,
		Indices: []int{5},
	}})
	require.NoError(t, err)

	engineErr := runErr(t, op)
	assert.Error(t, engineErr)
	assert.Contains(t, engineErr.Error(), "out of range")
}

func TestSGD_IterationsIncrementOncePerApply(t *testing.T) {
	v1 := scalarVar(t, "a", 1.0)
	v2 := scalarVar(t, "b", 2.0)
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	for i := 1; i <= 3; i++ {
		step(t, o,
			optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v1},
			optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v2},
		)
		assert.Equal(t, int64(i), o.Iterations())
	}
}

func TestSGD_HyperReadAtExecution(t *testing.T) {
	v := scalarVar(t, "x", 1.0)
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	op, err := o.ApplyGradients([]optim.GradAndVar{{
		Grad: grad(t, []float64{1}, tensor.Shape{1}),
		Var:  v,
	}})
	require.NoError(t, err)

	// The op was built with lr=0.1, but ops read hypers when they execute.
	o.SetHyper("learning_rate", 0.5)
	run(t, op)

	assert.InDelta(t, 0.5, v.Value().At(0), 1e-9)
}

func TestSGD_GetHyper(t *testing.T) {
	o := optim.NewSGD(optim.SGDConfig{LR: 0.01})

	lr, err := o.GetHyper("learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 0.01, lr)

	_, err = o.GetHyper("nope")
	assert.ErrorIs(t, err, optim.ErrUnknownHyper)
}

func TestSGD_ConfigRoundTrip(t *testing.T) {
	o := optim.NewSGD(optim.SGDConfig{LR: 0.3, Momentum: 0.5})

	restored, err := optim.Deserialize(optim.Serialize(o))
	require.NoError(t, err)

	sgd, ok := restored.(*optim.SGD)
	require.True(t, ok)
	lr, err := sgd.GetHyper("learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 0.3, lr)
	momentum, err := sgd.GetHyper("momentum")
	require.NoError(t, err)
	assert.Equal(t, 0.5, momentum)
}

func TestSGD_ApplyGradientsValidation(t *testing.T) {
	o := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	_, err := o.ApplyGradients(nil)
	assert.Error(t, err)

	v := scalarVar(t, "x", 1.0)
	_, err = o.ApplyGradients([]optim.GradAndVar{{Grad: nil, Var: v}})
	assert.Error(t, err)

	_, err = o.ApplyGradients([]optim.GradAndVar{{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: nil}})
	assert.Error(t, err)
}
