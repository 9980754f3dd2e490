package mission

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Counter tracks defeats toward an optional goal.
// With a kind filter only defeats of that kind are counted.
type Counter struct {
	kind     string
	required int64

	count      atomic.Int64
	completed  atomic.Bool
	onComplete func()
	once       sync.Once
}

// NewCounter creates a counter. required <= 0 means no goal.
func NewCounter(required int, kind string) *Counter {
	return &Counter{kind: kind, required: int64(required)}
}

// SetOnComplete sets the callback fired once the goal is reached.
func (c *Counter) SetOnComplete(fn func()) {
	c.onComplete = fn
}

// AgentDefeated implements Sink.
func (c *Counter) AgentDefeated(ev DefeatEvent) {
	if c.kind != "" && ev.Kind != c.kind {
		return
	}
	n := c.count.Add(1)
	if c.required <= 0 || n < c.required {
		return
	}

	c.once.Do(func() {
		c.completed.Store(true)
		slog.Info("mission goal reached", "kind", c.kind, "defeats", n)
		if c.onComplete != nil {
			c.onComplete()
		}
	})
}

// Count returns number of counted defeats
func (c *Counter) Count() int {
	return int(c.count.Load())
}

// Required returns the goal (0 if none)
func (c *Counter) Required() int {
	return int(c.required)
}

// Completed reports whether the goal was reached
func (c *Counter) Completed() bool {
	return c.completed.Load()
}
