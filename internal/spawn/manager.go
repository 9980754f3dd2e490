package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/udisondev/sentinel/internal/ai"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/world"
)

// TemplateSource resolves agent kinds to their tuning.
type TemplateSource interface {
	Template(kind string) (*model.AgentTemplate, error)
}

// SpawnSource loads spawn points.
type SpawnSource interface {
	LoadAll(ctx context.Context) ([]*model.Spawn, error)
}

// ControllerFunc builds the AI controller for a freshly spawned agent.
type ControllerFunc func(a *model.Agent) ai.Controller

// reconfigurer is implemented by controllers that cache template values.
type reconfigurer interface {
	Reconfigure()
}

// Manager manages agent spawns and respawns.
// It runs on the simulation goroutine and is not safe for concurrent use.
type Manager struct {
	spawns    map[int64]*model.Spawn
	templates TemplateSource
	world     *world.World
	aiManager *ai.TickManager
	ids       *world.IDGenerator
	routes    *RouteGenerator
	respawns  *RespawnQueue

	controllerFunc ControllerFunc
	despawnFunc    func(a *model.Agent)
}

// NewManager creates new spawn manager
func NewManager(
	templates TemplateSource,
	w *world.World,
	aiManager *ai.TickManager,
	ids *world.IDGenerator,
	routes *RouteGenerator,
) *Manager {
	m := &Manager{
		spawns:    make(map[int64]*model.Spawn),
		templates: templates,
		world:     w,
		aiManager: aiManager,
		ids:       ids,
		routes:    routes,
	}
	m.respawns = NewRespawnQueue(m)
	return m
}

// SetControllerFunc sets the AI factory. Without it spawned agents have no AI.
func (m *Manager) SetControllerFunc(fn ControllerFunc) {
	m.controllerFunc = fn
}

// SetDespawnFunc sets a callback run after an agent leaves the world.
func (m *Manager) SetDespawnFunc(fn func(a *model.Agent)) {
	m.despawnFunc = fn
}

// Respawns returns the respawn queue
func (m *Manager) Respawns() *RespawnQueue {
	return m.respawns
}

// LoadSpawns loads all spawns from src, replacing nothing already loaded.
func (m *Manager) LoadSpawns(ctx context.Context, src SpawnSource) error {
	spawns, err := src.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}

	for _, s := range spawns {
		if _, err := m.templates.Template(s.Kind()); err != nil {
			return fmt.Errorf("spawn %d: %w", s.SpawnID(), err)
		}
		if _, dup := m.spawns[s.SpawnID()]; dup {
			return fmt.Errorf("spawn %d already loaded", s.SpawnID())
		}
		m.spawns[s.SpawnID()] = s
	}

	slog.Info("spawns loaded", "count", len(spawns))
	return nil
}

// DoSpawn spawns one agent at spawn point.
// Returns spawned agent or error
func (m *Manager) DoSpawn(spawn *model.Spawn) (*model.Agent, error) {
	if spawn.Full() {
		return nil, fmt.Errorf("spawn %d is full (%d/%d)", spawn.SpawnID(), spawn.CurrentCount(), spawn.MaximumCount())
	}

	tmpl, err := m.templates.Template(spawn.Kind())
	if err != nil {
		return nil, fmt.Errorf("loading template %q for spawn %d: %w", spawn.Kind(), spawn.SpawnID(), err)
	}

	objectID := m.ids.NextAgentID()
	name := fmt.Sprintf("%s-%d", spawn.Kind(), objectID&0x0FFFFFFF)

	agent, err := model.NewAgent(objectID, name, tmpl, spawn.Location())
	if err != nil {
		return nil, fmt.Errorf("creating agent for spawn %d: %w", spawn.SpawnID(), err)
	}
	agent.SetSpawn(spawn)

	if tmpl.Capabilities.CanPatrol {
		agent.SetRoute(m.route(spawn, tmpl))
	}

	if err := m.world.AddAgent(agent); err != nil {
		return nil, fmt.Errorf("adding agent to world: %w", err)
	}
	spawn.AddAgent(agent)

	if m.controllerFunc != nil {
		m.aiManager.Register(objectID, m.controllerFunc(agent))
	}

	slog.Info("agent spawned",
		"objectID", objectID,
		"name", name,
		"kind", spawn.Kind(),
		"spawnID", spawn.SpawnID(),
		"x", spawn.Location().X,
		"y", spawn.Location().Y)

	return agent, nil
}

// route returns fixed waypoints when the spawn has enough of them,
// otherwise a generated loop. Agents of one spawn start at different points.
func (m *Manager) route(spawn *model.Spawn, tmpl *model.AgentTemplate) *model.PatrolRoute {
	points := spawn.Waypoints()
	if len(points) < MinRoutePoints {
		points = m.routes.Generate(spawn.Location(), tmpl.PatrolRadius, MinRoutePoints+1)
	}

	r := model.NewPatrolRoute(points)
	for range int(spawn.CurrentCount()) % r.Len() {
		r.Advance()
	}
	return r
}

// Despawn removes agent from the world and AI registry and, if its spawn
// allows it, schedules a replacement.
func (m *Manager) Despawn(agent *model.Agent) {
	m.aiManager.Unregister(agent.ID())
	m.world.RemoveAgent(agent.ID())

	spawn := agent.Spawn()
	if spawn == nil {
		slog.Warn("despawning agent without spawn", "objectID", agent.ID())
	} else {
		spawn.RemoveAgent(agent)
		if spawn.DoRespawn() {
			m.respawns.ScheduleRespawn(spawn, spawn.RespawnDelay())
		}
	}

	if m.despawnFunc != nil {
		m.despawnFunc(agent)
	}

	slog.Info("agent despawned",
		"objectID", agent.ID(),
		"name", agent.Name())
}

// GetSpawn returns spawn by ID
func (m *Manager) GetSpawn(spawnID int64) (*model.Spawn, bool) {
	s, ok := m.spawns[spawnID]
	return s, ok
}

// SpawnCount returns number of loaded spawn points
func (m *Manager) SpawnCount() int {
	return len(m.spawns)
}

// SpawnAll fills every loaded spawn to its maximum count, in spawn ID order.
func (m *Manager) SpawnAll() error {
	count := 0
	var firstErr error

	for _, spawn := range m.sorted() {
		for !spawn.Full() {
			if _, err := m.DoSpawn(spawn); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				slog.Error("failed to spawn agent",
					"spawnID", spawn.SpawnID(),
					"kind", spawn.Kind(),
					"error", err)
				break // continue with next spawn
			}
			count++
		}
	}

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning all agents: %w", firstErr)
	}

	slog.Info("all agents spawned", "count", count)
	return nil
}

// ApplyTemplates switches to new kind tuning and updates every live agent.
// Agents whose kind is missing or rejected keep their old tuning.
// Returns number of agents updated.
func (m *Manager) ApplyTemplates(templates TemplateSource) int {
	m.templates = templates

	updated := 0
	for _, spawn := range m.sorted() {
		for _, a := range spawn.Agents() {
			if a.IsDead() {
				continue
			}
			tmpl, err := templates.Template(a.Kind())
			if err != nil {
				slog.Warn("template reload skipped", "agent", a.Name(), "error", err)
				continue
			}
			if err := a.SetTemplate(tmpl); err != nil {
				slog.Warn("template reload rejected", "agent", a.Name(), "error", err)
				continue
			}
			if c, err := m.aiManager.GetController(a.ID()); err == nil {
				if r, ok := c.(reconfigurer); ok {
					r.Reconfigure()
				}
			}
			updated++
		}
	}

	slog.Info("agent templates applied", "agents", updated)
	return updated
}

func (m *Manager) sorted() []*model.Spawn {
	out := make([]*model.Spawn, 0, len(m.spawns))
	for _, s := range m.spawns {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpawnID() < out[j].SpawnID() })
	return out
}
