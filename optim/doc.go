// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers and averaged
// shadow-weight decorators.
//
// # Overview
//
// This package contains:
//   - SGD, Adam: base optimizers
//   - AveragedOptimizer: a decorator that maintains an "average" slot per
//     trainable variable, updated after every optimizer step
//   - MovingAverage, SWA: averaged optimizers with concrete rules
//   - A name registry with config serialization
//
// Optimizer methods build deferred graph ops; a graph.Engine executes them.
//
// # Basic Usage
//
//	import (
//	    "github.com/gongdu/addons/graph"
//	    "github.com/gongdu/addons/optim"
//	    "github.com/gongdu/addons/tensor"
//	    "github.com/gongdu/addons/variable"
//	)
//
//	func main() {
//	    w, _ := tensor.FromSlice([]float64{10}, tensor.Shape{1})
//	    v := variable.New("w", w)
//
//	    opt, err := optim.NewSWA("sgd", optim.SWAConfig{AveragePeriod: 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    engine := graph.NewEngine()
//	    for step := 0; step < 100; step++ {
//	        g := computeGradient(v)
//	        update, err := opt.ApplyGradients([]optim.GradAndVar{{Grad: g, Var: v}})
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        if err := engine.Run(ctx, update); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    // Swap live weights for their averages before saving.
//	    swap, _ := opt.AssignAverageVars([]*variable.Variable{v})
//	    _ = engine.Run(ctx, swap)
//	}
//
// # Sequential vs Concurrent Averaging
//
// By default the average update for a variable carries a dependency on that
// variable's train update, so the engine never starts it early. Setting
// AveragedConfig.Concurrent drops the edge; the two updates may then run in
// either order, trading a one-step staleness in the average for less
// synchronization.
//
// # Custom Averaging Rules
//
// AveragedOptimizer takes any AveragingRule:
//
//	rule := optim.RuleFunc(func(v *variable.Variable, avg *tensor.RawTensor, iter func() int64) *graph.Op {
//	    return graph.NewOp("my_rule/"+v.Name(), func() error {
//	        // update avg from v.Value()
//	        return nil
//	    })
//	})
//	opt, err := optim.NewAveraged("adam", rule, optim.AveragedConfig{})
package optim
