package model

import "time"

// Gait is how the target is moving; it decides footstep loudness.
type Gait uint8

const (
	GaitIdle Gait = iota
	GaitCrouch
	GaitWalk
	GaitRun
)

// String returns gait name
func (g Gait) String() string {
	switch g {
	case GaitCrouch:
		return "crouch"
	case GaitWalk:
		return "walk"
	case GaitRun:
		return "run"
	default:
		return "idle"
	}
}

// ParseGait converts a config name into a Gait.
func ParseGait(name string) (Gait, bool) {
	switch name {
	case "", "idle":
		return GaitIdle, true
	case "crouch":
		return GaitCrouch, true
	case "walk":
		return GaitWalk, true
	case "run":
		return GaitRun, true
	default:
		return GaitIdle, false
	}
}

// Target is the player entity. The AI only reads it through a lookup;
// the combat resolver is its single writer of health.
type Target struct {
	id       uint32
	name     string
	location Location
	health   Health

	gait     Gait
	runBlend float64 // 0 = walk, 1 = full run
	moving   bool
}

// NewTarget creates a target with full health
func NewTarget(id uint32, name string, loc Location, maxHealth int32, recovery time.Duration) *Target {
	return &Target{
		id:       id,
		name:     name,
		location: loc,
		health:   NewHealth(maxHealth, recovery),
	}
}

// ID returns target object ID
func (t *Target) ID() uint32 {
	return t.id
}

// Name returns target name
func (t *Target) Name() string {
	return t.name
}

// Location returns current location
func (t *Target) Location() Location {
	return t.location
}

// SetLocation moves the target
func (t *Target) SetLocation(loc Location) {
	t.location = loc
}

// Health returns mutable health
func (t *Target) Health() *Health {
	return &t.health
}

// IsDead reports whether the target died
func (t *Target) IsDead() bool {
	return t.health.IsDead()
}

// Gait returns current gait and run blend
func (t *Target) Gait() (Gait, float64) {
	return t.gait, t.runBlend
}

// SetGait sets gait; blend is clamped to [0, 1]
func (t *Target) SetGait(g Gait, blend float64) {
	t.gait = g
	t.runBlend = min(max(blend, 0), 1)
}

// Moving reports whether the target moved this tick
func (t *Target) Moving() bool {
	return t.moving
}

// SetMoving sets moving flag
func (t *Target) SetMoving(v bool) {
	t.moving = v
}
