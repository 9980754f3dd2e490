// Package perception implements the vision cone sensor and the sound
// propagation model agents react to.
package perception

import (
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// Detection is the result of a single vision check.
type Detection uint8

const (
	// DetectionNone - target out of range, out of cone or occluded
	DetectionNone Detection = iota
	// DetectionPeripheral - target noticed at the edge of vision
	DetectionPeripheral
	// DetectionCentral - target clearly seen
	DetectionCentral
)

// String returns detection name
func (d Detection) String() string {
	switch d {
	case DetectionPeripheral:
		return "peripheral"
	case DetectionCentral:
		return "central"
	default:
		return "none"
	}
}

// PeripheralIntensity is the sound-equivalent loudness of a peripheral glimpse.
const PeripheralIntensity = 2.0

// Occluder answers line-of-sight queries against static geometry.
type Occluder interface {
	Occluded(from, to model.Location) bool
}

// VisionParams is the cone an agent sees with.
type VisionParams struct {
	SightRange      float64
	ViewAngle       float64 // full central cone, degrees
	PeripheralAngle float64 // maximum off-forward angle, degrees
}

// Detect checks whether eye sees target.
//
// Range, central half-angle and peripheral angle all use strict less-than,
// so a target sitting exactly on a boundary is not detected. A candidate
// inside the cone must also have an unobstructed line; occlusion blocks
// detection regardless of angle. Detect is pure: identical inputs give
// identical results.
func Detect(eye, target model.Location, p VisionParams, occ Occluder) Detection {
	if eye.Distance(target) >= p.SightRange {
		return DetectionNone
	}

	angle := eye.AngleTo(target)
	central := angle < p.ViewAngle/2
	if !central && angle >= p.PeripheralAngle {
		return DetectionNone
	}

	if occ != nil && occ.Occluded(eye, target) {
		return DetectionNone
	}

	if central {
		return DetectionCentral
	}
	return DetectionPeripheral
}

// Result is what the sensor tells the state machine during one update.
type Result struct {
	Detection  Detection
	LastKnown  model.Location
	LastSeenAt time.Duration // simulation clock of the sighting
}

// Visible reports a clear central sighting
func (r Result) Visible() bool {
	return r.Detection == DetectionCentral
}

// Detected reports any sighting, central or peripheral
func (r Result) Detected() bool {
	return r.Detection != DetectionNone
}
