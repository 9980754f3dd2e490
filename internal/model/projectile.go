package model

import "time"

// Projectile is an arrow, spear or rock in flight.
// It homes on the live position of its target until it hits, times out
// or flies past its range.
type Projectile struct {
	ID       uint32
	OwnerID  uint32
	TargetID uint32
	Spec     ProjectileSpec
	Origin   Location
	Location Location
	Age      time.Duration
}

// Travelled returns distance from the launch point
func (p *Projectile) Travelled() float64 {
	return p.Origin.Distance(p.Location)
}

// Expired reports whether the projectile outlived its lifetime or range
func (p *Projectile) Expired() bool {
	return p.Age >= p.Spec.Lifetime || p.Travelled() >= p.Spec.MaxRange
}

// Loot is an item dropped by a defeated agent.
type Loot struct {
	ID       uint32
	Kind     string
	SourceID uint32
	Location Location
}
