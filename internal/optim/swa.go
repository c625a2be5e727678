package optim

import (
	"fmt"

	"github.com/gongdu/addons/internal/graph"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/gongdu/addons/internal/variable"
	"github.com/pkg/errors"
)

func init() {
	Register("swa", func(params map[string]any) (Optimizer, error) {
		start, err := intParam(params, "start_averaging", 0)
		if err != nil {
			return nil, err
		}
		period, err := intParam(params, "average_period", 10)
		if err != nil {
			return nil, err
		}
		s := &SWA{startAveraging: start, averagePeriod: period}
		if err := s.validate(); err != nil {
			return nil, err
		}
		s.AveragedOptimizer, err = averagedFromParams(params, s, "SWA")
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// SWA implements Stochastic Weight Averaging.
//
// Starting at step StartAveraging, every AveragePeriod steps the current
// parameter value is folded into an arithmetic mean kept in the "average"
// slot. The slot's seed value (the parameter at slot creation) counts as
// the first sample.
//
// Reference: "Averaging Weights Leads to Wider Optima and Better
// Generalization" (Izmailov et al., 2018)
//
// Example:
//
//	opt, err := optim.NewSWA("sgd", optim.SWAConfig{
//	    StartAveraging: 100,
//	    AveragePeriod:  10,
//	})
type SWA struct {
	*AveragedOptimizer
	startAveraging int64
	averagePeriod  int64
}

// SWAConfig configures an SWA optimizer.
type SWAConfig struct {
	StartAveraging int64 // First step to snapshot at (default: 0)
	AveragePeriod  int64 // Steps between snapshots (default: 10, minimum 1)
	Averaged       AveragedConfig
}

// NewSWA creates an SWA decorator around a base optimizer (an Optimizer
// instance or registered name string).
func NewSWA(optimizer any, config SWAConfig) (*SWA, error) {
	// Set defaults
	if config.AveragePeriod == 0 {
		config.AveragePeriod = 10
	}
	if config.Averaged.Name == "" {
		config.Averaged.Name = "SWA"
	}

	s := &SWA{startAveraging: config.StartAveraging, averagePeriod: config.AveragePeriod}
	if err := s.validate(); err != nil {
		return nil, err
	}
	wrapped, err := NewAveraged(optimizer, s, config.Averaged)
	if err != nil {
		return nil, err
	}
	s.AveragedOptimizer = wrapped
	return s, nil
}

func (s *SWA) validate() error {
	if s.averagePeriod < 1 {
		return errors.Errorf("swa: average_period must be >= 1, got %d", s.averagePeriod)
	}
	if s.startAveraging < 0 {
		return errors.Errorf("swa: start_averaging must be >= 0, got %d", s.startAveraging)
	}
	return nil
}

// AverageOp snapshots the parameter into the running mean when the current
// step falls on the schedule, and is a no-op otherwise.
func (s *SWA) AverageOp(v *variable.Variable, average *tensor.RawTensor, iterations func() int64) *graph.Op {
	return graph.NewOp(fmt.Sprintf("swa/%s/average", v.Name()), func() error {
		step := iterations()
		if step < s.startAveraging || (step-s.startAveraging)%s.averagePeriod != 0 {
			return nil
		}
		return v.Locked(func() error {
			// Snapshots taken before this one, plus the seed value.
			snapshots := (step - s.startAveraging) / s.averagePeriod
			samples := float64(snapshots + 2)
			avg := average.Data()
			p := v.Value().Data()
			for i := range avg {
				avg[i] += (p[i] - avg[i]) / samples
			}
			return nil
		})
	})
}

// Config returns the serializable configuration, nesting the wrapped
// optimizer's config.
func (s *SWA) Config() Config {
	params := s.wrapperParams()
	params["start_averaging"] = s.startAveraging
	params["average_period"] = s.averagePeriod
	return Config{ClassName: "swa", Params: params}
}
