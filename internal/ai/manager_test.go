package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/testutil"
)

type countingController struct {
	started atomic.Bool
	ticks   atomic.Int32
	elapsed atomic.Int64
}

func (c *countingController) Start()             { c.started.Store(true) }
func (c *countingController) Stop()              { c.started.Store(false) }
func (c *countingController) State() model.State { return model.StatePatrolling }
func (c *countingController) Tick(dt time.Duration) {
	c.ticks.Add(1)
	c.elapsed.Add(int64(dt))
}

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager(tick)
	c := &countingController{}

	mgr.Register(1, c)
	assert.True(t, c.started.Load(), "Register starts the controller")
	assert.Equal(t, 1, mgr.Count())

	got, err := mgr.GetController(1)
	require.NoError(t, err)
	assert.Same(t, c, got)

	// re-registering the same id does not inflate the count
	mgr.Register(1, c)
	assert.Equal(t, 1, mgr.Count())

	mgr.Unregister(1)
	assert.False(t, c.started.Load(), "Unregister stops the controller")
	assert.Zero(t, mgr.Count())

	_, err = mgr.GetController(1)
	assert.Error(t, err)

	mgr.Unregister(1) // no-op
	assert.Zero(t, mgr.Count())
}

func TestTickManager_TickAll(t *testing.T) {
	mgr := NewTickManager(tick)
	controllers := make([]*countingController, 5)
	for i := range controllers {
		controllers[i] = &countingController{}
		mgr.Register(uint32(i+1), controllers[i])
	}

	mgr.TickAll(tick)
	mgr.TickAll(tick)

	for i, c := range controllers {
		assert.Equal(t, int32(2), c.ticks.Load(), "controller %d", i)
		assert.Equal(t, int64(2*tick), c.elapsed.Load())
	}
}

func TestTickManager_ForEach(t *testing.T) {
	mgr := NewTickManager(tick)
	b := NewBrain(testutil.NewAgent(t, 7, testutil.GuardTemplate(), 0, 0, 0), nil, nil)
	mgr.Register(7, b)

	seen := 0
	mgr.ForEach(func(id uint32, c Controller) bool {
		seen++
		assert.Equal(t, uint32(7), id)
		assert.Equal(t, model.StatePatrolling, c.State())
		return true
	})
	assert.Equal(t, 1, seen)
}

func TestTickManager_StartRunsStepFunc(t *testing.T) {
	mgr := NewTickManager(5 * time.Millisecond)

	var steps atomic.Int32
	mgr.SetStepFunc(func(dt time.Duration) {
		assert.Equal(t, 5*time.Millisecond, dt)
		steps.Add(1)
	})

	ctx := testutil.ContextWithTimeout(t, 200*time.Millisecond)
	err := mgr.Start(ctx)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Positive(t, steps.Load())
}

func TestTickManager_Stop(t *testing.T) {
	mgr := NewTickManager(time.Hour)
	c := &countingController{}
	mgr.Register(1, c)

	done := make(chan error, 1)
	go func() { done <- mgr.Start(context.Background()) }()

	mgr.Stop()
	mgr.Stop() // idempotent

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.Zero(t, c.ticks.Load())
}

func TestTickManager_InvalidInterval(t *testing.T) {
	mgr := NewTickManager(0)
	assert.Error(t, mgr.Start(context.Background()))
}
