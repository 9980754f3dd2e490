package model

// PatrolRoute is an ordered, cyclic list of waypoints.
type PatrolRoute struct {
	points []Location
	index  int
}

// NewPatrolRoute copies points into a new route starting at the first waypoint.
func NewPatrolRoute(points []Location) *PatrolRoute {
	cp := make([]Location, len(points))
	copy(cp, points)
	return &PatrolRoute{points: cp}
}

// Len returns number of waypoints
func (r *PatrolRoute) Len() int {
	return len(r.points)
}

// Index returns index of the waypoint the agent is heading to
func (r *PatrolRoute) Index() int {
	return r.index
}

// Current returns the waypoint the agent is heading to.
// ok is false for an empty route.
func (r *PatrolRoute) Current() (Location, bool) {
	if len(r.points) == 0 {
		return Location{}, false
	}
	return r.points[r.index], true
}

// Advance moves to the next waypoint, wrapping around.
func (r *PatrolRoute) Advance() {
	if len(r.points) == 0 {
		return
	}
	r.index = (r.index + 1) % len(r.points)
}

// Points returns a copy of the waypoints
func (r *PatrolRoute) Points() []Location {
	cp := make([]Location, len(r.points))
	copy(cp, r.points)
	return cp
}
