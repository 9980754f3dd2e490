package ai

import (
	"log/slog"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/perception"
	"github.com/udisondev/sentinel/internal/world"
)

// Alerter delivers alerts and sounds to the listeners of agents around a point.
// Listeners are resolved through the tick manager registry.
type Alerter struct {
	world   *world.World
	manager *TickManager
}

// NewAlerter creates an alerter over the world index and controller registry.
func NewAlerter(w *world.World, m *TickManager) *Alerter {
	return &Alerter{world: w, manager: m}
}

// AlertNearby forces every live agent within radius of origin, except
// origin itself and agents already Chasing or Attacking, to investigate pos.
// Fire-and-forget: repeated calls in the same tick simply overwrite the
// investigation target. Returns the number of agents that reacted.
func (al *Alerter) AlertNearby(origin *model.Agent, pos model.Location, radius float64) int {
	if origin.IsDead() || radius <= 0 {
		return 0
	}

	alerted := 0
	al.world.AgentsWithinRadius(origin.Location(), radius, func(a *model.Agent) bool {
		if a.ID() == origin.ID() || a.State().Engaged() {
			return true
		}
		listener, ok := al.listener(a.ID())
		if !ok {
			return true
		}
		if listener.OnAlerted(pos) {
			alerted++
		}
		return true
	})

	if alerted > 0 && IsDebugEnabled() {
		slog.Debug("alert propagated",
			"origin", origin.Name(),
			"objectID", origin.ID(),
			"radius", radius,
			"alerted", alerted)
	}
	return alerted
}

// AlertFunc returns the callback brains use to alert allies within their
// template alert radius.
func (al *Alerter) AlertFunc() AlertFunc {
	return func(agent *model.Agent, pos model.Location) {
		al.AlertNearby(agent, pos, agent.Template().AlertRadius)
	}
}

// PropagateSound delivers ev to every live agent within its max range with
// the intensity attenuated by distance and occlusion. Returns the number of
// agents that reacted.
func (al *Alerter) PropagateSound(ev perception.SoundEvent, occ perception.Occluder) int {
	reacted := 0
	al.world.AgentsWithinRadius(ev.Origin, ev.MaxRange, func(a *model.Agent) bool {
		if a.ID() == ev.SourceID {
			return true
		}
		listener, ok := al.listener(a.ID())
		if !ok {
			return true
		}
		if listener.OnSoundHeard(ev.Origin, ev.At(a.Location(), occ)) {
			reacted++
		}
		return true
	})
	return reacted
}

func (al *Alerter) listener(id uint32) (Listener, bool) {
	c, err := al.manager.GetController(id)
	if err != nil {
		return nil, false
	}
	l, ok := c.(Listener)
	return l, ok
}
