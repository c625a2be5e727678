// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph implements the deferred-execution graph the optimizers
// build their updates on.
//
// # Overview
//
// Optimizer methods return Op values describing work instead of performing
// it. An Engine executes a set of ops while honoring declared dependencies:
// ops whose prerequisites have completed run concurrently, everything else
// waits. Ordering contracts — such as "the average update runs only after
// the train update" — are therefore expressed as graph edges, not call
// order.
//
// # Basic Usage
//
//	a := graph.NewOp("a", func() error { ...; return nil })
//	b := graph.NewOp("b", func() error { ...; return nil }, a) // b after a
//	c := graph.Group("both", a, b)
//
//	engine := graph.NewEngine()
//	if err := engine.Run(ctx, c); err != nil {
//	    log.Fatal(err)
//	}
//
// The first op error cancels outstanding work and is returned from Run.
// Dependency cycles are rejected with ErrCycle before anything executes.
package graph
