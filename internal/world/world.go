package world

import (
	"fmt"

	"github.com/udisondev/sentinel/internal/model"
)

// World is the spatial index of live agents plus the static geometry.
// It is owned by the simulation goroutine and is not safe for concurrent use.
type World struct {
	grid     Grid
	regions  [][]*Region // [cols][rows]
	agents   map[uint32]*model.Agent
	regionOf map[uint32]*Region
	geometry *Geometry
}

// New creates a world with the given bounds and region size
func New(bounds Bounds, cellSize float64) (*World, error) {
	grid, err := NewGrid(bounds, cellSize)
	if err != nil {
		return nil, fmt.Errorf("creating world grid: %w", err)
	}

	cols, rows := grid.Size()
	regions := make([][]*Region, cols)
	for rx := range cols {
		regions[rx] = make([]*Region, rows)
		for ry := range rows {
			regions[rx][ry] = NewRegion(rx, ry)
		}
	}

	return &World{
		grid:     grid,
		regions:  regions,
		agents:   make(map[uint32]*model.Agent),
		regionOf: make(map[uint32]*Region),
		geometry: NewGeometry(),
	}, nil
}

// Bounds returns world bounds
func (w *World) Bounds() Bounds {
	return w.grid.Bounds()
}

// Geometry returns the static occluding geometry
func (w *World) Geometry() *Geometry {
	return w.geometry
}

// GetRegion returns region at world coordinates (x, y)
// Returns nil if coordinates are out of bounds
func (w *World) GetRegion(x, y float64) *Region {
	rx, ry := w.grid.CoordToRegionIndex(x, y)
	if !w.grid.IsValidRegionIndex(rx, ry) {
		return nil
	}
	return w.regions[rx][ry]
}

// AddAgent adds agent to world and its region
func (w *World) AddAgent(a *model.Agent) error {
	loc := a.Location()
	if !w.grid.Bounds().Contains(loc.X, loc.Y) {
		return fmt.Errorf("adding agent %d at (%.1f, %.1f): %w", a.ID(), loc.X, loc.Y, ErrOutOfBounds)
	}
	if _, exists := w.agents[a.ID()]; exists {
		return fmt.Errorf("agent %d already in world", a.ID())
	}

	region := w.GetRegion(loc.X, loc.Y)
	w.agents[a.ID()] = a
	w.regionOf[a.ID()] = region
	region.Add(a)
	return nil
}

// RemoveAgent removes agent from world and its region
func (w *World) RemoveAgent(id uint32) {
	if _, ok := w.agents[id]; !ok {
		return
	}
	if region := w.regionOf[id]; region != nil {
		region.Remove(id)
	}
	delete(w.agents, id)
	delete(w.regionOf, id)
}

// MoveAgent relocates an agent, clamping the position into bounds and
// handing it over to a new region when it crosses a cell border.
func (w *World) MoveAgent(a *model.Agent, loc model.Location) {
	loc.X, loc.Y = w.grid.Bounds().Clamp(loc.X, loc.Y)
	a.SetLocation(loc)

	old, tracked := w.regionOf[a.ID()]
	if !tracked {
		return
	}
	region := w.GetRegion(loc.X, loc.Y)
	if region == old {
		return
	}
	old.Remove(a.ID())
	region.Add(a)
	w.regionOf[a.ID()] = region
}

// Agent returns agent by ID
func (w *World) Agent(id uint32) (*model.Agent, bool) {
	a, ok := w.agents[id]
	return a, ok
}

// Count returns number of agents in the world (dead bodies included)
func (w *World) Count() int {
	return len(w.agents)
}

// AgentsWithinRadius calls fn for every live agent whose distance to center
// is at most radius. Dead agents are never reported. If fn returns false,
// iteration stops.
func (w *World) AgentsWithinRadius(center model.Location, radius float64, fn func(*model.Agent) bool) {
	if radius < 0 {
		return
	}
	radiusSq := radius * radius
	minRX, minRY, maxRX, maxRY := w.grid.RegionSpan(center.X, center.Y, radius)

	for rx := minRX; rx <= maxRX; rx++ {
		for ry := minRY; ry <= maxRY; ry++ {
			for _, a := range w.regions[rx][ry].Snapshot() {
				if a.IsDead() {
					continue
				}
				if center.DistanceSquared(a.Location()) > radiusSq {
					continue
				}
				if !fn(a) {
					return
				}
			}
		}
	}
}

// ForEachAgent iterates over all agents, dead bodies included.
// If fn returns false, iteration stops.
func (w *World) ForEachAgent(fn func(*model.Agent) bool) {
	cols, rows := w.grid.Size()
	for rx := range cols {
		for ry := range rows {
			for _, a := range w.regions[rx][ry].Snapshot() {
				if !fn(a) {
					return
				}
			}
		}
	}
}
