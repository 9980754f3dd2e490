package model

// State represents the behaviour state of an agent
type State int32

const (
	// StatePatrolling - agent walks its route or sweeps its post
	StatePatrolling State = iota
	// StateInvestigating - agent turns to and walks toward a heard or glimpsed position
	StateInvestigating
	// StateChasing - agent follows the live target position
	StateChasing
	// StateSearching - agent wanders around the last known target position
	StateSearching
	// StateAttacking - agent holds position and attacks the target
	StateAttacking
	// StateDead - terminal, no further processing
	StateDead
)

// String returns the presentation name of the state
func (s State) String() string {
	switch s {
	case StatePatrolling:
		return "Patrolling"
	case StateInvestigating:
		return "Investigating"
	case StateChasing:
		return "Chasing"
	case StateSearching:
		return "Searching"
	case StateAttacking:
		return "Attacking"
	case StateDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Engaged reports whether the state is an active pursuit of the target.
func (s State) Engaged() bool {
	return s == StateChasing || s == StateAttacking
}
