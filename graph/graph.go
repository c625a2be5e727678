// Copyright 2026 Gongdu Addons. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/gongdu/addons/internal/graph"
)

// Op is a deferred unit of work with explicit dependencies.
type Op = graph.Op

// Engine executes deferred ops, running ready ops concurrently.
type Engine = graph.Engine

// Option configures an Engine.
type Option = graph.Option

// ErrCycle is returned when submitted ops contain a dependency cycle.
var ErrCycle = graph.ErrCycle

// NewOp creates an op running fn after all deps have completed.
func NewOp(label string, fn func() error, deps ...*Op) *Op {
	return graph.NewOp(label, fn, deps...)
}

// NoOp creates an op with no work and no dependencies.
func NoOp(label string) *Op {
	return graph.NoOp(label)
}

// Group creates a join op that completes once every input op has completed.
func Group(label string, ops ...*Op) *Op {
	return graph.Group(label, ops...)
}

// NewEngine creates an execution engine.
func NewEngine(opts ...Option) *Engine {
	return graph.NewEngine(opts...)
}

// WithMaxWorkers bounds the number of ops executing concurrently.
func WithMaxWorkers(n int) Option {
	return graph.WithMaxWorkers(n)
}

// WithTrace installs a callback invoked after each op completes.
func WithTrace(fn func(label string)) Option {
	return graph.WithTrace(fn)
}
