package optim_test

import (
	"testing"

	"github.com/gongdu/addons/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_RegisteredName(t *testing.T) {
	o, err := optim.Get("sgd")
	require.NoError(t, err)
	assert.IsType(t, &optim.SGD{}, o)

	o, err = optim.Get("adam")
	require.NoError(t, err)
	assert.IsType(t, &optim.Adam{}, o)
}

func TestGet_InstancePassesThrough(t *testing.T) {
	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	o, err := optim.Get(sgd)
	require.NoError(t, err)
	assert.Same(t, sgd, o)
}

func TestGet_UnknownName(t *testing.T) {
	_, err := optim.Get("definitely-not-registered")
	assert.ErrorIs(t, err, optim.ErrUnknownOptimizer)
}

func TestGet_WrongType(t *testing.T) {
	_, err := optim.Get(1)
	require.Error(t, err)

	var typeErr *optim.TypeError
	assert.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "optimizer", typeErr.Argument)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	optim.Register("registry-test-dup", func(map[string]any) (optim.Optimizer, error) {
		return optim.NewSGD(optim.SGDConfig{}), nil
	})
	assert.Panics(t, func() {
		optim.Register("registry-test-dup", func(map[string]any) (optim.Optimizer, error) {
			return optim.NewSGD(optim.SGDConfig{}), nil
		})
	})
}

func TestDeserialize_UnknownClass(t *testing.T) {
	_, err := optim.Deserialize(optim.Config{ClassName: "nope"})
	assert.ErrorIs(t, err, optim.ErrUnknownOptimizer)
}

func TestDeserialize_DefaultParams(t *testing.T) {
	o, err := optim.Deserialize(optim.Config{ClassName: "sgd"})
	require.NoError(t, err)

	lr, err := o.GetHyper("learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 0.01, lr)
}
