package model

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StatePatrolling, "Patrolling"},
		{StateInvestigating, "Investigating"},
		{StateChasing, "Chasing"},
		{StateSearching, "Searching"},
		{StateAttacking, "Attacking"},
		{StateDead, "Dead"},
		{State(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateEngaged(t *testing.T) {
	engaged := map[State]bool{
		StatePatrolling:    false,
		StateInvestigating: false,
		StateChasing:       true,
		StateSearching:     false,
		StateAttacking:     true,
		StateDead:          false,
	}
	for state, want := range engaged {
		if got := state.Engaged(); got != want {
			t.Errorf("%s.Engaged() = %v, want %v", state, got, want)
		}
	}
}
