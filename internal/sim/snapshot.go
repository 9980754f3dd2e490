package sim

import (
	"cmp"
	"slices"
	"time"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/world"
)

// AgentView is a read-only copy of one agent.
type AgentView struct {
	ID        uint32
	Name      string
	Kind      string
	Location  model.Location
	State     model.State
	Health    int32
	MaxHealth int32
	Flags     []string
}

// TargetView is a read-only copy of the target.
type TargetView struct {
	ID        uint32
	Name      string
	Location  model.Location
	Gait      model.Gait
	Health    int32
	MaxHealth int32
	Noise     float64 // current footstep level
}

// Snapshot is an immutable picture of the world after a tick.
// Viewers read it from other goroutines; nothing in it is shared with the simulation.
type Snapshot struct {
	Tick        uint64
	Time        time.Duration
	Bounds      world.Bounds
	Walls       []world.Wall
	Target      TargetView
	Agents      []AgentView
	Projectiles []model.Projectile
	Loot        []model.Loot
	Defeats     int
}

// Alive returns number of live agents
func (s *Snapshot) Alive() int {
	n := 0
	for i := range s.Agents {
		if s.Agents[i].State != model.StateDead {
			n++
		}
	}
	return n
}

// Agent returns view of agent id
func (s *Snapshot) Agent(id uint32) (AgentView, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentView{}, false
}

func (s *Simulation) buildSnapshot() *Snapshot {
	t := s.target
	gait, _ := t.Gait()

	snap := &Snapshot{
		Tick:   s.tick,
		Time:   s.now,
		Bounds: s.world.Bounds(),
		Walls:  s.walls,
		Target: TargetView{
			ID:        t.ID(),
			Name:      t.Name(),
			Location:  t.Location(),
			Gait:      gait,
			Health:    t.Health().Current(),
			MaxHealth: t.Health().Max(),
			Noise:     s.emitter.Current(),
		},
		Agents:      make([]AgentView, 0, s.world.Count()),
		Projectiles: s.projectiles.Active(),
		Loot:        make([]model.Loot, 0, len(s.loot)),
		Defeats:     s.defeats,
	}

	s.world.ForEachAgent(func(a *model.Agent) bool {
		snap.Agents = append(snap.Agents, AgentView{
			ID:        a.ID(),
			Name:      a.Name(),
			Kind:      a.Kind(),
			Location:  a.Location(),
			State:     a.State(),
			Health:    a.Health().Current(),
			MaxHealth: a.Health().Max(),
			Flags:     s.presenter.flagsOf(a.ID()),
		})
		return true
	})
	slices.SortFunc(snap.Agents, func(a, b AgentView) int { return cmp.Compare(a.ID, b.ID) })

	for _, l := range s.loot {
		snap.Loot = append(snap.Loot, l)
	}
	slices.SortFunc(snap.Loot, func(a, b model.Loot) int { return cmp.Compare(a.ID, b.ID) })

	return snap
}
