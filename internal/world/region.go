package world

import (
	"cmp"
	"slices"

	"github.com/udisondev/sentinel/internal/model"
)

// Region is a single grid cell holding the agents standing in it.
// Iteration goes through a snapshot slice rebuilt lazily after changes, so
// callbacks may move or remove agents while a query is running.
type Region struct {
	rx, ry int

	agents map[uint32]*model.Agent

	snapshot []*model.Agent
	dirty    bool
	version  uint64 // incremented on Add/Remove
}

// NewRegion creates a new region
func NewRegion(rx, ry int) *Region {
	return &Region{
		rx:     rx,
		ry:     ry,
		agents: make(map[uint32]*model.Agent),
	}
}

// Index returns region grid coordinates
func (r *Region) Index() (int, int) {
	return r.rx, r.ry
}

// Version returns current region version
func (r *Region) Version() uint64 {
	return r.version
}

// Len returns number of agents in the region
func (r *Region) Len() int {
	return len(r.agents)
}

// Add puts an agent into the region
func (r *Region) Add(a *model.Agent) {
	r.agents[a.ID()] = a
	r.version++
	r.dirty = true
}

// Remove drops an agent from the region
func (r *Region) Remove(id uint32) {
	if _, ok := r.agents[id]; !ok {
		return
	}
	delete(r.agents, id)
	r.version++
	r.dirty = true
}

// Snapshot returns agents of the region ordered by ID.
// IMPORTANT: Returned slice is shared, DO NOT modify.
func (r *Region) Snapshot() []*model.Agent {
	if !r.dirty && r.snapshot != nil {
		return r.snapshot
	}
	return r.rebuildSnapshot()
}

func (r *Region) rebuildSnapshot() []*model.Agent {
	agents := make([]*model.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	slices.SortFunc(agents, func(a, b *model.Agent) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	r.snapshot = agents
	r.dirty = false
	return agents
}
