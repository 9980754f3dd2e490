package model

import "time"

// Spawn represents a spawn point for agents
type Spawn struct {
	spawnID      int64
	kind         string
	location     Location
	waypoints    []Location
	maximumCount int32
	doRespawn    bool
	respawnDelay time.Duration

	currentCount int32
	agents       []*Agent // currently spawned agents
}

// NewSpawn creates a new spawn point
func NewSpawn(
	spawnID int64,
	kind string,
	loc Location,
	maximumCount int32,
	doRespawn bool,
) *Spawn {
	return &Spawn{
		spawnID:      spawnID,
		kind:         kind,
		location:     loc,
		maximumCount: maximumCount,
		doRespawn:    doRespawn,
		agents:       make([]*Agent, 0, maximumCount),
	}
}

// SetRespawnDelay sets respawn delay after the body is removed
func (s *Spawn) SetRespawnDelay(d time.Duration) {
	s.respawnDelay = d
}

// RespawnDelay returns respawn delay
func (s *Spawn) RespawnDelay() time.Duration {
	return s.respawnDelay
}

// SetWaypoints assigns fixed patrol waypoints
func (s *Spawn) SetWaypoints(points []Location) {
	s.waypoints = append([]Location(nil), points...)
}

// Waypoints returns a copy of the assigned patrol waypoints
func (s *Spawn) Waypoints() []Location {
	return append([]Location(nil), s.waypoints...)
}

// SpawnID returns spawn ID
func (s *Spawn) SpawnID() int64 {
	return s.spawnID
}

// Kind returns agent kind spawned here
func (s *Spawn) Kind() string {
	return s.kind
}

// Location returns spawn location
func (s *Spawn) Location() Location {
	return s.location
}

// MaximumCount returns maximum number of agents alive at once
func (s *Spawn) MaximumCount() int32 {
	return s.maximumCount
}

// DoRespawn returns whether agents come back after removal
func (s *Spawn) DoRespawn() bool {
	return s.doRespawn
}

// CurrentCount returns current spawned count
func (s *Spawn) CurrentCount() int32 {
	return s.currentCount
}

// Full reports whether no more agents can be spawned
func (s *Spawn) Full() bool {
	return s.currentCount >= s.maximumCount
}

// AddAgent registers a spawned agent
func (s *Spawn) AddAgent(a *Agent) {
	s.agents = append(s.agents, a)
	s.currentCount++
}

// RemoveAgent forgets a removed agent
func (s *Spawn) RemoveAgent(a *Agent) {
	for i, n := range s.agents {
		if n == a {
			s.agents = append(s.agents[:i], s.agents[i+1:]...)
			s.currentCount--
			return
		}
	}
}

// Agents returns copy of spawned agents list
func (s *Spawn) Agents() []*Agent {
	agents := make([]*Agent, len(s.agents))
	copy(agents, s.agents)
	return agents
}
