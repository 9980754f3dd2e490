// Package mission collects defeat events raised by the combat resolver.
package mission

import (
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// DefeatEvent is raised once for every agent that reaches zero health.
type DefeatEvent struct {
	AgentID  uint32
	Kind     string
	KillerID uint32
	Location model.Location
	At       time.Duration // simulation clock
	Loot     string        // dropped loot kind, empty if nothing dropped
}

// Sink receives defeat events. Implementations must not block the caller.
type Sink interface {
	AgentDefeated(ev DefeatEvent)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ev DefeatEvent)

// AgentDefeated calls f(ev).
func (f SinkFunc) AgentDefeated(ev DefeatEvent) {
	f(ev)
}

// Fanout delivers every event to each sink in order. Nil sinks are skipped.
type Fanout []Sink

// AgentDefeated implements Sink.
func (fo Fanout) AgentDefeated(ev DefeatEvent) {
	for _, s := range fo {
		if s != nil {
			s.AgentDefeated(ev)
		}
	}
}
