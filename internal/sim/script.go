package sim

import (
	"time"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/model"
)

const arrivalDistance = 0.05

type leg struct {
	dest     model.Location
	gait     model.Gait
	runBlend float64
	speed    float64
	pause    time.Duration
}

// TargetScript walks the target along a looping list of legs for headless runs.
// Each leg sets gait and speed until arrival, then idles for its pause.
type TargetScript struct {
	legs    []leg
	index   int
	waiting time.Duration
}

// NewTargetScript builds a script from config legs. Unknown gaits default to walk.
func NewTargetScript(route []config.RouteLeg) *TargetScript {
	s := &TargetScript{legs: make([]leg, 0, len(route))}
	for _, r := range route {
		g, ok := model.ParseGait(r.Gait)
		if !ok {
			g = model.GaitWalk
		}
		s.legs = append(s.legs, leg{
			dest:     model.NewLocation(r.X, r.Y, 0),
			gait:     g,
			runBlend: r.RunBlend,
			speed:    r.Speed,
			pause:    r.Pause,
		})
	}
	return s
}

// Len returns number of legs
func (s *TargetScript) Len() int {
	return len(s.legs)
}

// Leg returns index of the current leg
func (s *TargetScript) Leg() int {
	return s.index
}

// Advance moves t along the script by dt and updates its gait and moving flag.
// A dead target or an empty script stands still.
func (s *TargetScript) Advance(t *model.Target, dt time.Duration) {
	t.SetMoving(false)
	if len(s.legs) == 0 || t.IsDead() || dt <= 0 {
		t.SetGait(model.GaitIdle, 0)
		return
	}

	if s.waiting > 0 {
		s.waiting -= dt
		t.SetGait(model.GaitIdle, 0)
		return
	}

	l := s.legs[s.index]
	loc := t.Location()
	next, arrived := loc.Step(l.dest, l.speed*dt.Seconds())
	if next.DistanceSquared(loc) > 0 {
		t.SetLocation(next)
		t.SetMoving(true)
		t.SetGait(l.gait, l.runBlend)
	}

	if arrived || next.Distance(l.dest) <= arrivalDistance {
		s.waiting = l.pause
		s.index = (s.index + 1) % len(s.legs)
	}
}
