package optim_test

import (
	"encoding/json"
	"testing"

	"github.com/gongdu/addons/internal/optim"
	"github.com/gongdu/addons/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSWA_Validation(t *testing.T) {
	_, err := optim.NewSWA("sgd", optim.SWAConfig{AveragePeriod: -1})
	assert.Error(t, err)

	_, err = optim.NewSWA("sgd", optim.SWAConfig{StartAveraging: -1, AveragePeriod: 1})
	assert.Error(t, err)
}

func TestSWA_Schedule(t *testing.T) {
	// lr = 1 and gradient 1 decrement the variable by exactly 1 per step.
	v := scalarVar(t, "x", 5)
	s, err := optim.NewSWA(
		optim.NewSGD(optim.SGDConfig{LR: 1}),
		optim.SWAConfig{StartAveraging: 1, AveragePeriod: 2},
	)
	require.NoError(t, err)

	// Step counter (pre-increment) per step: 0, 1, 2, 3.
	// Snapshots happen at counters 1 and 3; the slot is seeded with 5.
	//
	//   step 1: counter 0 -> skip,                    x: 5 -> 4
	//   step 2: counter 1 -> avg = 5 + (3-5)/2 = 4,   x: 4 -> 3
	//   step 3: counter 2 -> skip,                    x: 3 -> 2
	//   step 4: counter 3 -> avg = 4 + (1-4)/3 = 3,   x: 2 -> 1
	for i := 0; i < 4; i++ {
		step(t, s, optim.GradAndVar{Grad: grad(t, []float64{1}, tensor.Shape{1}), Var: v})
	}

	assert.InDelta(t, 1.0, v.Value().At(0), 1e-9)
	slot, ok := s.Slot(v, "average")
	require.True(t, ok)
	assert.InDelta(t, 3.0, slot.At(0), 1e-9)
}

func TestSWA_PeriodOneMatchesRunningMean(t *testing.T) {
	// SWA with start 0 and period 1 degenerates to the arithmetic running
	// mean: the end-to-end scenario from the averaged wrapper applies.
	v := scalarVar(t, "x", 10)
	s, err := optim.NewSWA(
		optim.NewSGD(optim.SGDConfig{LR: 0.1}),
		optim.SWAConfig{AveragePeriod: 1},
	)
	require.NoError(t, err)

	step(t, s, optim.GradAndVar{Grad: grad(t, []float64{2}, tensor.Shape{1}), Var: v})

	assert.InDelta(t, 9.8, v.Value().At(0), 1e-9)
	slot, ok := s.Slot(v, "average")
	require.True(t, ok)
	assert.InDelta(t, 9.9, slot.At(0), 1e-9)
}

func TestSWA_ConfigRoundTrip(t *testing.T) {
	s, err := optim.NewSWA(
		optim.NewAdam(optim.AdamConfig{LR: 0.002}),
		optim.SWAConfig{StartAveraging: 100, AveragePeriod: 10},
	)
	require.NoError(t, err)

	cfg := optim.Serialize(s)
	assert.Equal(t, "swa", cfg.ClassName)

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	var decoded optim.Config
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := optim.Deserialize(decoded)
	require.NoError(t, err)

	s2, ok := restored.(*optim.SWA)
	require.True(t, ok)
	assert.True(t, s2.SequentialUpdate())
	assert.IsType(t, &optim.Adam{}, s2.Wrapped())

	cfg2 := optim.Serialize(s2)
	assert.EqualValues(t, 100, cfg2.Params["start_averaging"])
	assert.EqualValues(t, 10, cfg2.Params["average_period"])
}
