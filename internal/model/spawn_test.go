package model

import (
	"testing"
	"time"
)

func TestNewSpawn(t *testing.T) {
	spawn := NewSpawn(
		1,                       // spawnID
		"guard",                 // kind
		NewLocation(17, -35, 0), // location
		3,                       // maximumCount
		true,                    // doRespawn
	)
	spawn.SetRespawnDelay(30 * time.Second)

	if spawn.SpawnID() != 1 {
		t.Errorf("SpawnID() = %d, want 1", spawn.SpawnID())
	}
	if spawn.Kind() != "guard" {
		t.Errorf("Kind() = %q, want guard", spawn.Kind())
	}
	if spawn.Location().X != 17 || spawn.Location().Y != -35 {
		t.Errorf("Location() = %+v", spawn.Location())
	}
	if spawn.MaximumCount() != 3 {
		t.Errorf("MaximumCount() = %d, want 3", spawn.MaximumCount())
	}
	if !spawn.DoRespawn() {
		t.Error("DoRespawn() = false, want true")
	}
	if spawn.RespawnDelay() != 30*time.Second {
		t.Errorf("RespawnDelay() = %v", spawn.RespawnDelay())
	}
	if spawn.CurrentCount() != 0 {
		t.Errorf("CurrentCount() = %d, want 0", spawn.CurrentCount())
	}
}

func TestSpawn_AgentBookkeeping(t *testing.T) {
	spawn := NewSpawn(1, "guard", Location{}, 2, false)
	a1, _ := NewAgent(1, "A", testTemplate(), Location{})
	a2, _ := NewAgent(2, "B", testTemplate(), Location{})

	spawn.AddAgent(a1)
	spawn.AddAgent(a2)
	if !spawn.Full() {
		t.Error("Full() = false with 2/2")
	}

	spawn.RemoveAgent(a1)
	if spawn.CurrentCount() != 1 {
		t.Errorf("CurrentCount() = %d, want 1", spawn.CurrentCount())
	}
	spawn.RemoveAgent(a1)
	if spawn.CurrentCount() != 1 {
		t.Errorf("double remove changed count to %d", spawn.CurrentCount())
	}

	agents := spawn.Agents()
	if len(agents) != 1 || agents[0] != a2 {
		t.Errorf("Agents() = %v", agents)
	}
}

func TestSpawn_WaypointsCopied(t *testing.T) {
	spawn := NewSpawn(1, "guard", Location{}, 1, false)
	points := []Location{{X: 1}, {X: 2}}
	spawn.SetWaypoints(points)
	points[0].X = 99

	if got := spawn.Waypoints(); got[0].X != 1 {
		t.Errorf("Waypoints()[0].X = %v, want 1", got[0].X)
	}
}
