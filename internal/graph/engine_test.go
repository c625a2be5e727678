package graph_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/gongdu/addons/internal/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DependencyOrder(t *testing.T) {
	var order []string
	engine := graph.NewEngine(graph.WithTrace(func(label string) {
		order = append(order, label)
	}))

	a := graph.NewOp("a", func() error { return nil })
	b := graph.NewOp("b", func() error { return nil }, a)
	c := graph.NewOp("c", func() error { return nil }, b)

	require.NoError(t, engine.Run(context.Background(), c))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestEngine_IndependentOpsAllRun(t *testing.T) {
	var ran [3]atomic.Int32
	ops := make([]*graph.Op, 3)
	for i := range ops {
		ops[i] = graph.NewOp("op", func() error {
			ran[i].Add(1)
			return nil
		})
	}

	engine := graph.NewEngine()
	require.NoError(t, engine.Run(context.Background(), ops...))
	for i := range ran {
		assert.Equal(t, int32(1), ran[i].Load())
	}
}

func TestEngine_DiamondRunsOnce(t *testing.T) {
	var count atomic.Int32
	a := graph.NewOp("a", func() error { count.Add(1); return nil })
	b := graph.NewOp("b", func() error { return nil }, a)
	c := graph.NewOp("c", func() error { return nil }, a)
	d := graph.Group("d", b, c)

	engine := graph.NewEngine()
	require.NoError(t, engine.Run(context.Background(), d, b, c))
	assert.Equal(t, int32(1), count.Load())
}

func TestEngine_ErrorStopsDependents(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Bool

	a := graph.NewOp("a", func() error { return boom })
	b := graph.NewOp("b", func() error { ran.Store(true); return nil }, a)

	engine := graph.NewEngine()
	err := engine.Run(context.Background(), b)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `op "a"`)
	assert.False(t, ran.Load())
}

func TestEngine_CycleRejected(t *testing.T) {
	a := graph.NewOp("a", func() error { return nil })
	b := graph.NewOp("b", func() error { return nil }, a)
	a.After(b)

	engine := graph.NewEngine()
	err := engine.Run(context.Background(), a)
	assert.ErrorIs(t, err, graph.ErrCycle)
}

func TestEngine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := graph.NewEngine()
	op := graph.NewOp("a", func() error { return nil })
	assert.ErrorIs(t, engine.Run(ctx, op), context.Canceled)
}

func TestGroup_SkipsNil(t *testing.T) {
	var ran atomic.Bool
	a := graph.NewOp("a", func() error { ran.Store(true); return nil })
	g := graph.Group("g", nil, a, nil)

	engine := graph.NewEngine()
	require.NoError(t, engine.Run(context.Background(), g))
	assert.True(t, ran.Load())
	assert.Len(t, g.Deps(), 1)
}

func TestOp_DependsOn(t *testing.T) {
	a := graph.NoOp("a")
	b := graph.NewOp("b", nil, a)
	c := graph.NewOp("c", nil, b)

	assert.True(t, c.DependsOn(a))
	assert.True(t, c.DependsOn(b))
	assert.False(t, a.DependsOn(c))
}

func TestEngine_MaxWorkers(t *testing.T) {
	var running, peak atomic.Int32
	mk := func() *graph.Op {
		return graph.NewOp("op", func() error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
			return nil
		})
	}

	engine := graph.NewEngine(graph.WithMaxWorkers(1))
	require.NoError(t, engine.Run(context.Background(), mk(), mk(), mk(), mk()))
	assert.Equal(t, int32(1), peak.Load())
}
