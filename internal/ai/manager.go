package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// StepFunc advances the whole simulation by dt.
type StepFunc func(dt time.Duration)

// TickManager manages AI ticks for all registered agents
type TickManager struct {
	controllers     sync.Map // map[uint32]Controller: objectID → controller
	interval        time.Duration
	stepFunc        StepFunc
	stopCh          chan struct{}
	stopOnce        sync.Once
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)
}

// NewTickManager creates new AI tick manager with a fixed timestep
func NewTickManager(interval time.Duration) *TickManager {
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// SetStepFunc replaces what Start runs every interval.
// By default only controllers are ticked.
func (m *TickManager) SetStepFunc(fn StepFunc) {
	m.stepFunc = fn
}

// Interval returns the fixed timestep
func (m *TickManager) Interval() time.Duration {
	return m.interval
}

// Register registers AI controller for agent
func (m *TickManager) Register(objectID uint32, controller Controller) {
	if _, loaded := m.controllers.Swap(objectID, controller); !loaded {
		m.controllerCount.Add(1)
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.State())
}

// Unregister unregisters AI controller
func (m *TickManager) Unregister(objectID uint32) {
	value, ok := m.controllers.LoadAndDelete(objectID)
	if !ok {
		return
	}

	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// Start runs the fixed-timestep loop (blocks until context is canceled)
func (m *TickManager) Start(ctx context.Context) error {
	if m.interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", m.interval)
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	step := m.stepFunc
	if step == nil {
		step = m.TickAll
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			step(m.interval)
		}
	}
}

// Stop stops AI tick loop
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll ticks all registered controllers. Order is unspecified.
func (m *TickManager) TickAll(dt time.Duration) {
	count := 0

	m.controllers.Range(func(key, value any) bool {
		controller := value.(Controller)
		controller.Tick(dt)
		count++
		return true
	})

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", count, "dt", dt)
	}
}

// ForEach calls fn for every registered controller. If fn returns false,
// iteration stops.
func (m *TickManager) ForEach(fn func(objectID uint32, c Controller) bool) {
	m.controllers.Range(func(key, value any) bool {
		return fn(key.(uint32), value.(Controller))
	})
}

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for agent
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	value, ok := m.controllers.Load(objectID)
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return value.(Controller), nil
}
