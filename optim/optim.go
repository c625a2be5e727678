// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/gongdu/addons/internal/optim"
)

// Optimizer is the capability interface every optimizer satisfies,
// including the averaged wrappers.
type Optimizer = optim.Optimizer

// GradAndVar pairs a gradient with the variable it applies to.
type GradAndVar = optim.GradAndVar

// PrepareContext carries per-step hyperparameter snapshots.
type PrepareContext = optim.PrepareContext

// Config is a serializable optimizer configuration.
type Config = optim.Config

// Factory builds an optimizer from deserialized config params.
type Factory = optim.Factory

// TypeError reports a constructor or registry argument of the wrong type.
type TypeError = optim.TypeError

// Common errors.
var (
	ErrUnknownOptimizer = optim.ErrUnknownOptimizer
	ErrUnknownHyper     = optim.ErrUnknownHyper
	ErrMissingSlot      = optim.ErrMissingSlot
	ErrEmptyGradients   = optim.ErrEmptyGradients
)

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.01, Momentum: 0.9})
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	opt := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// Averaged optimizers

// AveragingRule computes the update for a variable's shadow average.
type AveragingRule = optim.AveragingRule

// RuleFunc adapts a function to the AveragingRule interface.
type RuleFunc = optim.RuleFunc

// AveragedOptimizer decorates a base optimizer with a shadow average of
// every trainable variable.
type AveragedOptimizer = optim.AveragedOptimizer

// AveragedConfig configures an AveragedOptimizer.
type AveragedConfig = optim.AveragedConfig

// NewAveraged creates an averaged decorator around a base optimizer.
//
// The optimizer argument may be an Optimizer instance or a registered name
// string such as "sgd".
func NewAveraged(optimizer any, rule AveragingRule, config AveragedConfig) (*AveragedOptimizer, error) {
	return optim.NewAveraged(optimizer, rule, config)
}

// RunningMean is the arithmetic running-mean averaging rule.
type RunningMean = optim.RunningMean

// NewRunningMean creates the arithmetic running-mean rule.
func NewRunningMean() *RunningMean {
	return optim.NewRunningMean()
}

// MovingAverage keeps an exponential moving average of each trainable
// variable.
type MovingAverage = optim.MovingAverage

// MovingAverageConfig configures a MovingAverage optimizer.
type MovingAverageConfig = optim.MovingAverageConfig

// NewMovingAverage creates a MovingAverage decorator around a base
// optimizer.
//
// Example:
//
//	opt, err := optim.NewMovingAverage("sgd", optim.MovingAverageConfig{
//	    AverageDecay: 0.999,
//	})
func NewMovingAverage(optimizer any, config MovingAverageConfig) (*MovingAverage, error) {
	return optim.NewMovingAverage(optimizer, config)
}

// SWA implements Stochastic Weight Averaging.
type SWA = optim.SWA

// SWAConfig configures an SWA optimizer.
type SWAConfig = optim.SWAConfig

// NewSWA creates an SWA decorator around a base optimizer.
//
// Example:
//
//	opt, err := optim.NewSWA("sgd", optim.SWAConfig{
//	    StartAveraging: 100,
//	    AveragePeriod:  10,
//	})
func NewSWA(optimizer any, config SWAConfig) (*SWA, error) {
	return optim.NewSWA(optimizer, config)
}

// Registry

// Register adds an optimizer factory under name.
func Register(name string, factory Factory) {
	optim.Register(name, factory)
}

// Get resolves an optimizer identifier: an Optimizer is returned as-is, a
// string is resolved through the registry, anything else is a TypeError.
func Get(identifier any) (Optimizer, error) {
	return optim.Get(identifier)
}

// Serialize returns the optimizer's configuration.
func Serialize(o Optimizer) Config {
	return optim.Serialize(o)
}

// Deserialize reconstructs an optimizer from its configuration.
func Deserialize(cfg Config) (Optimizer, error) {
	return optim.Deserialize(cfg)
}
