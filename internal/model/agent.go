package model

import (
	"fmt"
	"time"
)

// Agent is an AI-controlled enemy.
// All mutation happens on the simulation goroutine; the agent has no locks.
type Agent struct {
	id       uint32
	name     string
	template *AgentTemplate
	location Location
	health   Health
	state    State

	route *PatrolRoute
	spawn *Spawn

	lastKnown    Location
	hasLastKnown bool
	lastSeenAt   time.Duration // simulation clock of the last central sighting

	enraged bool
}

// NewAgent validates the template and creates an agent in Patrolling state.
func NewAgent(id uint32, name string, template *AgentTemplate, loc Location) (*Agent, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: nil template for agent %q", ErrInvalidTemplate, name)
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return &Agent{
		id:       id,
		name:     name,
		template: template,
		location: loc,
		health:   NewHealth(template.MaxHealth, template.HitRecovery),
		state:    StatePatrolling,
	}, nil
}

// ID returns agent object ID
func (a *Agent) ID() uint32 {
	return a.id
}

// Name returns agent name
func (a *Agent) Name() string {
	return a.name
}

// Kind returns template kind
func (a *Agent) Kind() string {
	return a.template.Kind
}

// Template returns current tuning
func (a *Agent) Template() *AgentTemplate {
	return a.template
}

// SetTemplate swaps tuning of a live agent (hot reload).
// Health keeps its current value; only the maximum is bounded by the old one.
func (a *Agent) SetTemplate(t *AgentTemplate) error {
	if t == nil {
		return fmt.Errorf("%w: nil template for agent %q", ErrInvalidTemplate, a.name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Kind != a.template.Kind {
		return fmt.Errorf("%w: agent %q is %q, got %q", ErrInvalidTemplate, a.name, a.template.Kind, t.Kind)
	}
	a.template = t
	a.health.recovery = t.HitRecovery
	return nil
}

// Capabilities returns capability set of the kind
func (a *Agent) Capabilities() Capabilities {
	return a.template.Capabilities
}

// Location returns current location
func (a *Agent) Location() Location {
	return a.location
}

// SetLocation updates location. The world index is not touched; use world.MoveAgent.
func (a *Agent) SetLocation(loc Location) {
	a.location = loc
}

// Health returns mutable health
func (a *Agent) Health() *Health {
	return &a.health
}

// IsDead reports whether the agent entered the terminal state
func (a *Agent) IsDead() bool {
	return a.state == StateDead
}

// State returns current behaviour state
func (a *Agent) State() State {
	return a.state
}

// SetState switches behaviour state. Dead is terminal: any attempt to
// leave it is ignored and reported as false.
func (a *Agent) SetState(s State) bool {
	if a.state == StateDead || a.state == s {
		return false
	}
	a.state = s
	return true
}

// Route returns patrol route (nil for posted agents)
func (a *Agent) Route() *PatrolRoute {
	return a.route
}

// SetRoute assigns patrol route
func (a *Agent) SetRoute(r *PatrolRoute) {
	a.route = r
}

// Spawn returns the spawn point the agent belongs to
func (a *Agent) Spawn() *Spawn {
	return a.spawn
}

// SetSpawn sets spawn back-reference
func (a *Agent) SetSpawn(s *Spawn) {
	a.spawn = s
}

// LastKnown returns the last position the target was perceived at
func (a *Agent) LastKnown() (Location, bool) {
	return a.lastKnown, a.hasLastKnown
}

// LastSeenAt returns the simulation time of the last sighting
func (a *Agent) LastSeenAt() time.Duration {
	return a.lastSeenAt
}

// Remember records a perceived target position at simulation time now.
func (a *Agent) Remember(loc Location, now time.Duration) {
	a.lastKnown = loc
	a.hasLastKnown = true
	a.lastSeenAt = now
}

// Forget drops the last-known target position.
func (a *Agent) Forget() {
	a.hasLastKnown = false
}

// Enraged reports whether enrage ranges apply
func (a *Agent) Enraged() bool {
	return a.enraged
}

// CheckEnrage latches enrage once health falls to the template threshold.
// Returns true only on the tick enrage starts.
func (a *Agent) CheckEnrage() bool {
	t := a.template
	if a.enraged || t.EnrageHealth <= 0 || a.health.current > t.EnrageHealth {
		return false
	}
	a.enraged = true
	return true
}

// SightRange returns sight range with enrage applied
func (a *Agent) SightRange() float64 {
	return a.scaled(a.template.SightRange)
}

// AttackRange returns attack range with enrage applied
func (a *Agent) AttackRange() float64 {
	return a.scaled(a.template.AttackRange)
}

func (a *Agent) scaled(v float64) float64 {
	if a.enraged {
		return v * a.template.EnrageMultiplier
	}
	return v
}

// RemovalDelay returns how long the body stays after death
func (a *Agent) RemovalDelay() time.Duration {
	return a.template.DeathRemovalDelay
}
