package optim

import (
	"fmt"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
)

func init() {
	Register("moving_average", func(params map[string]any) (Optimizer, error) {
		decay, err := floatParam(params, "average_decay", 0.99)
		if err != nil {
			return nil, err
		}
		warmup, err := boolParam(params, "dynamic_decay", false)
		if err != nil {
			return nil, err
		}
		m := &MovingAverage{decay: decay, dynamicDecay: warmup}
		m.AveragedOptimizer, err = averagedFromParams(params, m, "MovingAverage")
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// MovingAverage keeps an exponential moving average of each trainable
// variable and exposes it through the averaged-optimizer machinery.
//
// After every step the shadow slot is updated as
//
//	average -= (1 - decay) * (average - param)
//
// With dynamic decay enabled, early steps use the smaller of the configured
// decay and (1+t)/(10+t), which keeps the average responsive while few
// updates have been seen.
//
// Example:
//
//	opt, err := optim.NewMovingAverage("sgd", optim.MovingAverageConfig{
//	    AverageDecay: 0.999,
//	})
type MovingAverage struct {
	*AveragedOptimizer
	decay        float64
	dynamicDecay bool
}

// MovingAverageConfig configures a MovingAverage optimizer.
type MovingAverageConfig struct {
	AverageDecay float64 // EMA decay factor (default: 0.99)
	DynamicDecay bool    // Warm up the decay over early steps
	Averaged     AveragedConfig
}

// NewMovingAverage creates a MovingAverage decorator around a base
// optimizer (an Optimizer instance or registered name string).
func NewMovingAverage(optimizer any, config MovingAverageConfig) (*MovingAverage, error) {
	// Set defaults
	if config.AverageDecay == 0 {
		config.AverageDecay = 0.99
	}
	if config.Averaged.Name == "" {
		config.Averaged.Name = "MovingAverage"
	}

	m := &MovingAverage{decay: config.AverageDecay, dynamicDecay: config.DynamicDecay}
	wrapped, err := NewAveraged(optimizer, m, config.Averaged)
	if err != nil {
		return nil, err
	}
	m.AveragedOptimizer = wrapped
	return m, nil
}

// AverageOp implements the EMA rule.
func (m *MovingAverage) AverageOp(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op {
	return graph.NewOp(fmt.Sprintf("moving_average/%s/average", v.Name()), func() error {
		return v.Locked(func() error {
			decay := m.decay
			if m.dynamicDecay {
				t := float64(iterations() + 1)
				if warm := (1 + t) / (10 + t); warm < decay {
					decay = warm
				}
			}
			avg := average.Data()
			p := v.Value().Data()
			for i := range avg {
				avg[i] -= (1 - decay) * (avg[i] - p[i])
			}
			return nil
		})
	})
}

// Config returns the serializable configuration, nesting the wrapped
// optimizer's config.
func (m *MovingAverage) Config() Config {
	params := m.wrapperParams()
	params["average_decay"] = m.decay
	params["dynamic_decay"] = m.dynamicDecay
	return Config{ClassName: "moving_average", Params: params}
}
