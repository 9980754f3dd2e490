package perception

import (
	"math"

	"github.com/udisondev/sentinel/internal/model"
)

// OcclusionFactor scales sound that passes through geometry.
const OcclusionFactor = 0.2

// SoundEvent is emitted once per tick by a noisy entity and consumed in the same tick.
type SoundEvent struct {
	SourceID  uint32
	Origin    model.Location
	Intensity float64
	MaxRange  float64
}

// IntensityAt returns the loudness of a sound at the listener position:
// base·exp(−2·d/maxRange), reduced to a fifth when geometry lies between
// origin and listener.
func IntensityAt(origin model.Location, base, maxRange float64, listener model.Location, occ Occluder) float64 {
	if base <= 0 || maxRange <= 0 {
		return 0
	}
	d := origin.Distance(listener)
	intensity := base * math.Exp(-2*d/maxRange)
	if occ != nil && occ.Occluded(origin, listener) {
		intensity *= OcclusionFactor
	}
	return intensity
}

// At evaluates the event at a listener position.
func (e SoundEvent) At(listener model.Location, occ Occluder) float64 {
	return IntensityAt(e.Origin, e.Intensity, e.MaxRange, listener, occ)
}

// Reacts reports whether a listener with the given threshold notices the sound.
// The attenuated intensity must strictly exceed the threshold.
func Reacts(intensity, threshold float64) bool {
	return intensity > threshold
}
