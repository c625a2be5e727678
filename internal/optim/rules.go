package optim

import (
	"fmt"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
)

// RunningMean is an averaging rule keeping the arithmetic mean of the
// slot's seed value and every post-step parameter value.
//
// With the slot seeded to the variable's initial value, after step t the
// slot holds mean{p_0, p_1, ..., p_t}. It is the schedule-free special case
// of SWA (start 0, period 1).
type RunningMean struct{}

// NewRunningMean creates the arithmetic running-mean rule.
func NewRunningMean() *RunningMean {
	return &RunningMean{}
}

// AverageOp folds the variable's current value into the running mean:
//
//	average += (param - average) / (iterations + 2)
//
// iterations is read pre-increment, so step t (1-based) divides by t+1 —
// the seed value plus t samples.
func (r *RunningMean) AverageOp(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op {
	return graph.NewOp(fmt.Sprintf("running_mean/%s/average", v.Name()), func() error {
		return v.Locked(func() error {
			samples := float64(iterations() + 2)
			avg := average.Data()
			p := v.Value().Data()
			for i := range avg {
				avg[i] += (p[i] - avg[i]) / samples
			}
			return nil
		})
	})
}

// RuleFunc adapts a function to the AveragingRule interface.
type RuleFunc func(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op

// AverageOp calls the function.
func (f RuleFunc) AverageOp(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op {
	return f(v, average, iterations)
}
