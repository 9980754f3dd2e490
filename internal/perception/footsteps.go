package perception

import (
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// Footsteps maps the target's gait to how loud it is.
type Footsteps struct {
	Walk     float64
	Run      float64
	Crouch   float64
	MaxRange float64
	Decay    float64 // intensity lost per second once the target stops
}

// DefaultFootsteps returns the stock footstep loudness.
func DefaultFootsteps() Footsteps {
	return Footsteps{
		Walk:     1.0,
		Run:      2.5,
		Crouch:   0.3,
		MaxRange: 25,
		Decay:    2,
	}
}

// Intensity returns loudness for a gait. Walk and run blend linearly.
func (f Footsteps) Intensity(g model.Gait, runBlend float64) float64 {
	switch g {
	case model.GaitCrouch:
		return f.Crouch
	case model.GaitWalk, model.GaitRun:
		if g == model.GaitRun && runBlend == 0 {
			runBlend = 1
		}
		return f.Walk + (f.Run-f.Walk)*min(max(runBlend, 0), 1)
	default:
		return 0
	}
}

// Emitter tracks the sound a moving entity is currently making.
// The level follows the gait while moving and trails off after it stops.
type Emitter struct {
	steps   Footsteps
	current float64
}

// NewEmitter creates a silent emitter
func NewEmitter(steps Footsteps) *Emitter {
	return &Emitter{steps: steps}
}

// Update recomputes the level for this tick.
func (e *Emitter) Update(dt time.Duration, moving bool, g model.Gait, runBlend float64) {
	if moving {
		e.current = e.steps.Intensity(g, runBlend)
		return
	}
	e.current = max(0, e.current-e.steps.Decay*dt.Seconds())
}

// Current returns the current level
func (e *Emitter) Current() float64 {
	return e.current
}

// Emit returns this tick's sound event, or false when silent.
func (e *Emitter) Emit(sourceID uint32, origin model.Location) (SoundEvent, bool) {
	if e.current <= 0 {
		return SoundEvent{}, false
	}
	return SoundEvent{
		SourceID:  sourceID,
		Origin:    origin,
		Intensity: e.current,
		MaxRange:  e.steps.MaxRange,
	}, true
}
