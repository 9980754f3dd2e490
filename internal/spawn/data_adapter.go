package spawn

import (
	"context"
	"fmt"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/model"
)

// ConfigTemplates implements TemplateSource over built config templates.
type ConfigTemplates map[string]*model.AgentTemplate

// Template returns the template of kind.
func (t ConfigTemplates) Template(kind string) (*model.AgentTemplate, error) {
	tmpl, ok := t[kind]
	if !ok {
		return nil, fmt.Errorf("agent kind %q not found in config", kind)
	}
	return tmpl, nil
}

// ConfigSpawns implements SpawnSource over the spawns section of the config.
type ConfigSpawns []config.SpawnConfig

// LoadAll converts config entries into spawn points.
func (s ConfigSpawns) LoadAll(_ context.Context) ([]*model.Spawn, error) {
	spawns := make([]*model.Spawn, 0, len(s))

	for _, sc := range s {
		count := sc.Count
		if count <= 0 {
			count = 1
		}

		loc := model.NewLocation(sc.X, sc.Y, model.Radians(sc.Heading))
		spawn := model.NewSpawn(sc.ID, sc.Kind, loc, count, sc.Respawn)
		spawn.SetRespawnDelay(sc.RespawnDelay)

		if len(sc.Waypoints) > 0 {
			points := make([]model.Location, len(sc.Waypoints))
			for i, p := range sc.Waypoints {
				points[i] = model.NewLocation(p.X, p.Y, 0)
			}
			spawn.SetWaypoints(points)
		}
		spawns = append(spawns, spawn)
	}

	return spawns, nil
}
