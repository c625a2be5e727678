package optim

import (
	"fmt"
	"math"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
)

func init() {
	Register("adam", func(params map[string]any) (Optimizer, error) {
		lr, err := floatParam(params, "learning_rate", 0.001)
		if err != nil {
			return nil, err
		}
		beta1, err := floatParam(params, "beta_1", 0.9)
		if err != nil {
			return nil, err
		}
		beta2, err := floatParam(params, "beta_2", 0.999)
		if err != nil {
			return nil, err
		}
		eps, err := floatParam(params, "epsilon", 1e-8)
		if err != nil {
			return nil, err
		}
		return NewAdam(AdamConfig{LR: lr, Betas: [2]float64{beta1, beta2}, Eps: eps}), nil
	})
}

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	base
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for the moment running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer with defaults for unset fields.
func NewAdam(config AdamConfig) *Adam {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	a := &Adam{base: newBase("Adam")}
	a.SetHyper("learning_rate", config.LR)
	a.SetHyper("beta_1", config.Betas[0])
	a.SetHyper("beta_2", config.Betas[1])
	a.SetHyper("epsilon", config.Eps)
	return a
}

// CreateSlots allocates the first- and second-moment buffers.
func (a *Adam) CreateSlots(vars []*variable.Variable) {
	for _, v := range vars {
		a.AddSlot(v, "m", nil)
		a.AddSlot(v, "v", nil)
	}
}

// ApplyDense builds the dense update op for one variable.
//
// The bias-correction timestep is the iteration counter plus one, read when
// the op executes; all updates within one apply-gradients call observe the
// same timestep because the counter increments after them.
func (a *Adam) ApplyDense(grad *tensor.RawTensor, v *variable.Variable) *graph.Op {
	m := a.AddSlot(v, "m", nil)
	sv := a.AddSlot(v, "v", nil)
	label := fmt.Sprintf("%s/%s/dense", a.name, v.Name())
	return graph.NewOp(label, func() error {
		return v.Locked(func() error {
			a.updateRows(grad.Data(), v, m.Data(), sv.Data(), nil)
			return nil
		})
	})
}

// ApplySparse builds the sparse update op for one variable, updating the
// moment buffers and parameters only at the touched rows.
func (a *Adam) ApplySparse(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	m := a.AddSlot(v, "m", nil)
	sv := a.AddSlot(v, "v", nil)
	label := fmt.Sprintf("%s/%s/sparse", a.name, v.Name())
	return graph.NewOp(label, func() error {
		if err := checkSparse(a.name, grad, v, indices); err != nil {
			return err
		}
		return v.Locked(func() error {
			a.updateRows(grad.Data(), v, m.Data(), sv.Data(), indices)
			return nil
		})
	})
}

// ApplySparseDuplicateIndices accumulates duplicate rows before updating.
func (a *Adam) ApplySparseDuplicateIndices(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	m := a.AddSlot(v, "m", nil)
	sv := a.AddSlot(v, "v", nil)
	label := fmt.Sprintf("%s/%s/sparse_dup", a.name, v.Name())
	return graph.NewOp(label, func() error {
		if err := checkSparse(a.name, grad, v, indices); err != nil {
			return err
		}
		summed, unique := sumDuplicateRows(grad, indices, v.Value().Shape().RowSize())
		return v.Locked(func() error {
			a.updateRows(summed, v, m.Data(), sv.Data(), unique)
			return nil
		})
	})
}

// updateRows performs the Adam update. A nil indices slice means dense: the
// gradient covers every row of the variable.
func (a *Adam) updateRows(grad []float64, v *variable.Variable, m, sv []float64, indices []int) {
	lr := a.hyper("learning_rate")
	beta1 := a.hyper("beta_1")
	beta2 := a.hyper("beta_2")
	eps := a.hyper("epsilon")

	t := float64(a.Iterations() + 1)
	biasCorrection1 := 1.0 - math.Pow(beta1, t)
	biasCorrection2 := 1.0 - math.Pow(beta2, t)

	p := v.Value().Data()
	rowSize := v.Value().Shape().RowSize()

	update := func(i int, g float64) {
		m[i] = beta1*m[i] + (1.0-beta1)*g
		sv[i] = beta2*sv[i] + (1.0-beta2)*g*g
		mHat := m[i] / biasCorrection1
		vHat := sv[i] / biasCorrection2
		p[i] -= lr * mHat / (math.Sqrt(vHat) + eps)
	}

	if indices == nil {
		for i, g := range grad {
			update(i, g)
		}
		return
	}
	for k, idx := range indices {
		for j := 0; j < rowSize; j++ {
			update(idx*rowSize+j, grad[k*rowSize+j])
		}
	}
}

// ApplyGradients applies a batch of gradients and increments the step
// counter once.
func (a *Adam) ApplyGradients(pairs []GradAndVar) (*graph.Op, error) {
	return applyGradients(a, pairs)
}

// Config returns the serializable configuration.
func (a *Adam) Config() Config {
	return Config{
		ClassName: "adam",
		Params: map[string]any{
			"learning_rate": a.hyper("learning_rate"),
			"beta_1":        a.hyper("beta_1"),
			"beta_2":        a.hyper("beta_2"),
			"epsilon":       a.hyper("epsilon"),
		},
	}
}
