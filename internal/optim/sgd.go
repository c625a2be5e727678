package optim

import (
	"fmt"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
)

func init() {
	Register("sgd", func(params map[string]any) (Optimizer, error) {
		lr, err := floatParam(params, "learning_rate", 0.01)
		if err != nil {
			return nil, err
		}
		momentum, err := floatParam(params, "momentum", 0)
		if err != nil {
			return nil, err
		}
		return NewSGD(SGDConfig{LR: lr, Momentum: momentum}), nil
	})
}

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//	step, _ := opt.ApplyGradients(pairs)
//	_ = engine.Run(ctx, step)
type SGD struct {
	base
	momentum float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}

	s := &SGD{base: newBase("SGD"), momentum: config.Momentum}
	s.SetHyper("learning_rate", config.LR)
	s.SetHyper("momentum", config.Momentum)
	return s
}

// CreateSlots allocates momentum buffers when momentum is enabled.
func (s *SGD) CreateSlots(vars []*variable.Variable) {
	if s.momentum == 0 {
		return
	}
	for _, v := range vars {
		s.AddSlot(v, "momentum", nil)
	}
}

// ApplyDense builds the dense update op for one variable.
//
// The learning rate is read when the op executes, so hyperparameter changes
// between construction and execution take effect.
func (s *SGD) ApplyDense(grad *tensor.RawTensor, v *variable.Variable) *graph.Op {
	label := fmt.Sprintf("%s/%s/dense", s.name, v.Name())
	if s.momentum == 0 {
		return graph.NewOp(label, func() error {
			return v.Locked(func() error {
				p := v.Value().Vec()
				p.AddScaledVec(p, -s.hyper("learning_rate"), grad.Vec())
				return nil
			})
		})
	}
	vel := s.AddSlot(v, "momentum", nil)
	return graph.NewOp(label, func() error {
		return v.Locked(func() error {
			velVec := vel.Vec()
			// velocity = momentum * velocity + grad
			velVec.AddScaledVec(grad.Vec(), s.hyper("momentum"), velVec)
			p := v.Value().Vec()
			p.AddScaledVec(p, -s.hyper("learning_rate"), velVec)
			return nil
		})
	})
}

// ApplySparse builds the sparse update op for one variable. Indices select
// rows along dimension 0 and must be unique.
func (s *SGD) ApplySparse(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	label := fmt.Sprintf("%s/%s/sparse", s.name, v.Name())
	return graph.NewOp(label, func() error {
		if err := checkSparse(s.name, grad, v, indices); err != nil {
			return err
		}
		return v.Locked(func() error {
			return s.applySparseRows(grad.Data(), v, indices)
		})
	})
}

// ApplySparseDuplicateIndices accumulates duplicate rows before updating, so
// an index that appears k times contributes the sum of its k gradient rows.
func (s *SGD) ApplySparseDuplicateIndices(grad *tensor.RawTensor, v *variable.Variable, indices []int) *graph.Op {
	label := fmt.Sprintf("%s/%s/sparse_dup", s.name, v.Name())
	return graph.NewOp(label, func() error {
		if err := checkSparse(s.name, grad, v, indices); err != nil {
			return err
		}
		summed, unique := sumDuplicateRows(grad, indices, v.Value().Shape().RowSize())
		return v.Locked(func() error {
			return s.applySparseRows(summed, v, unique)
		})
	})
}

// applySparseRows applies one gradient row per index.
func (s *SGD) applySparseRows(grad []float64, v *variable.Variable, indices []int) error {
	rowSize := v.Value().Shape().RowSize()
	lr := s.hyper("learning_rate")
	p := v.Value().Data()

	if s.momentum == 0 {
		for k, idx := range indices {
			for j := 0; j < rowSize; j++ {
				p[idx*rowSize+j] -= lr * grad[k*rowSize+j]
			}
		}
		return nil
	}

	vel := s.AddSlot(v, "momentum", nil).Data()
	m := s.hyper("momentum")
	for k, idx := range indices {
		for j := 0; j < rowSize; j++ {
			i := idx*rowSize + j
			vel[i] = m*vel[i] + grad[k*rowSize+j]
			p[i] -= lr * vel[i]
		}
	}
	return nil
}

// ApplyGradients applies a batch of gradients and increments the step
// counter once.
func (s *SGD) ApplyGradients(pairs []GradAndVar) (*graph.Op, error) {
	return applyGradients(s, pairs)
}

// Config returns the serializable configuration.
func (s *SGD) Config() Config {
	return Config{
		ClassName: "sgd",
		Params: map[string]any{
			"learning_rate": s.hyper("learning_rate"),
			"momentum":      s.hyper("momentum"),
		},
	}
}
