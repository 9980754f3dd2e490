package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/world"
)

type flight struct {
	model.Projectile
	owner  Combatant
	target Combatant
}

// Projectiles moves arrows, spears and rocks. Each one homes on the live
// position of its target, applies its damage on contact and is destroyed
// on contact, timeout or when it flies past its range.
type Projectiles struct {
	resolver *Resolver
	ids      *world.IDGenerator
	flights  []*flight
}

// NewProjectiles creates an empty projectile set that deals damage through r.
func NewProjectiles(r *Resolver, ids *world.IDGenerator) *Projectiles {
	return &Projectiles{resolver: r, ids: ids}
}

// Fire launches a projectile from owner toward target.
func (p *Projectiles) Fire(owner, target Combatant, spec model.ProjectileSpec) model.Projectile {
	origin := owner.Location()
	origin = origin.WithHeading(origin.HeadingTo(target.Location()))

	f := &flight{
		Projectile: model.Projectile{
			ID:       p.ids.NextProjectileID(),
			OwnerID:  owner.ID(),
			TargetID: target.ID(),
			Spec:     spec,
			Origin:   origin,
			Location: origin,
		},
		owner:  owner,
		target: target,
	}
	p.flights = append(p.flights, f)

	slog.Debug("projectile fired",
		"objectID", f.ID,
		"kind", spec.Kind,
		"owner", owner.Name())
	return f.Projectile
}

// LaunchFunc returns the launch callback for agent brains.
func (p *Projectiles) LaunchFunc() func(a *model.Agent, t *model.Target, spec model.ProjectileSpec) {
	return func(a *model.Agent, t *model.Target, spec model.ProjectileSpec) {
		p.Fire(a, t, spec)
	}
}

// Advance moves every projectile by dt. Returns number of hits.
func (p *Projectiles) Advance(dt time.Duration) int {
	if dt <= 0 {
		return 0
	}

	hits := 0
	alive := p.flights[:0]
	for _, f := range p.flights {
		if p.step(f, dt) {
			hits++
			continue
		}
		if f.target.IsDead() || f.Expired() {
			continue
		}
		alive = append(alive, f)
	}
	clear(p.flights[len(alive):])
	p.flights = alive
	return hits
}

// step moves f toward its target and reports whether it hit.
func (p *Projectiles) step(f *flight, dt time.Duration) bool {
	f.Age += dt
	if f.target.IsDead() {
		return false
	}

	aim := f.target.Location()
	f.Location, _ = f.Location.Step(aim, f.Spec.Speed*dt.Seconds())
	if f.Location.Distance(aim) > f.Spec.HitRadius {
		return false
	}

	p.resolver.ApplyDamage(f.owner, f.target, f.Spec.Damage)
	slog.Debug("projectile hit",
		"objectID", f.ID,
		"kind", f.Spec.Kind,
		"target", f.target.Name(),
		"damage", f.Spec.Damage)
	return true
}

// Active returns a copy of projectiles in flight
func (p *Projectiles) Active() []model.Projectile {
	out := make([]model.Projectile, len(p.flights))
	for i, f := range p.flights {
		out[i] = f.Projectile
	}
	return out
}

// Len returns number of projectiles in flight
func (p *Projectiles) Len() int {
	return len(p.flights)
}
