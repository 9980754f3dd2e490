package spawn

import (
	"log/slog"
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// RespawnTask represents a scheduled respawn task
type RespawnTask struct {
	Spawn       *model.Spawn
	RespawnTime time.Duration // simulation time
}

// RespawnQueue holds respawns due at a simulation time.
// It is advanced by the simulation loop, so respawns happen between ticks
// and never on a wall-clock timer.
type RespawnQueue struct {
	spawnManager *Manager
	now          time.Duration
	tasks        []*RespawnTask
}

// NewRespawnQueue creates new respawn queue
func NewRespawnQueue(spawnManager *Manager) *RespawnQueue {
	return &RespawnQueue{spawnManager: spawnManager}
}

// ScheduleRespawn schedules one respawn at spawn after delay
func (q *RespawnQueue) ScheduleRespawn(spawn *model.Spawn, delay time.Duration) {
	task := &RespawnTask{
		Spawn:       spawn,
		RespawnTime: q.now + max(delay, 0),
	}
	q.tasks = append(q.tasks, task)

	slog.Debug("respawn scheduled",
		"spawnID", spawn.SpawnID(),
		"kind", spawn.Kind(),
		"delay", delay)
}

// CancelRespawn cancels every scheduled respawn of a spawn
func (q *RespawnQueue) CancelRespawn(spawnID int64) {
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.Spawn.SpawnID() != spawnID {
			kept = append(kept, t)
		}
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept

	slog.Debug("respawn cancelled", "spawnID", spawnID)
}

// Advance moves the queue clock by dt and executes due respawns.
// Returns number of agents respawned.
func (q *RespawnQueue) Advance(dt time.Duration) int {
	if dt > 0 {
		q.now += dt
	}

	var due []*RespawnTask
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.RespawnTime <= q.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept

	respawned := 0
	for _, task := range due {
		spawn := task.Spawn

		if spawn.Full() {
			slog.Debug("respawn skipped (spawn full)",
				"spawnID", spawn.SpawnID(),
				"currentCount", spawn.CurrentCount(),
				"maximumCount", spawn.MaximumCount())
			continue
		}

		agent, err := q.spawnManager.DoSpawn(spawn)
		if err != nil {
			slog.Error("respawn failed",
				"spawnID", spawn.SpawnID(),
				"kind", spawn.Kind(),
				"error", err)
			continue
		}
		respawned++

		slog.Info("agent respawned",
			"objectID", agent.ID(),
			"name", agent.Name(),
			"spawnID", spawn.SpawnID())
	}
	return respawned
}

// TaskCount returns number of scheduled respawn tasks
func (q *RespawnQueue) TaskCount() int {
	return len(q.tasks)
}

// Now returns the queue clock
func (q *RespawnQueue) Now() time.Duration {
	return q.now
}
