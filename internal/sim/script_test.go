package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/model"
)

func TestTargetScript_Advance(t *testing.T) {
	target := model.NewTarget(1, "player", model.NewLocation(0, 0, 0), 100, 0)
	script := NewTargetScript([]config.RouteLeg{
		{X: 1, Y: 0, Gait: "walk", Speed: 2, Pause: 200 * time.Millisecond},
		{X: 0, Y: 0, Gait: "run", RunBlend: 0.5, Speed: 10},
	})

	script.Advance(target, 250*time.Millisecond)
	assert.InDelta(t, 0.5, target.Location().X, 1e-9)
	assert.True(t, target.Moving())
	g, _ := target.Gait()
	assert.Equal(t, model.GaitWalk, g)

	script.Advance(target, 250*time.Millisecond)
	assert.InDelta(t, 1.0, target.Location().X, 1e-9)
	assert.Equal(t, 1, script.Leg())

	// pausing at the waypoint
	script.Advance(target, 100*time.Millisecond)
	assert.False(t, target.Moving())
	script.Advance(target, 100*time.Millisecond)
	assert.False(t, target.Moving())

	script.Advance(target, 50*time.Millisecond)
	assert.True(t, target.Moving())
	g, blend := target.Gait()
	assert.Equal(t, model.GaitRun, g)
	assert.Equal(t, 0.5, blend)
	assert.InDelta(t, 0.5, target.Location().X, 1e-9)

	script.Advance(target, 50*time.Millisecond)
	assert.Equal(t, 0, script.Leg(), "route loops")
}

func TestTargetScript_DeadOrEmpty(t *testing.T) {
	target := model.NewTarget(1, "player", model.NewLocation(0, 0, 0), 10, 0)

	NewTargetScript(nil).Advance(target, time.Second)
	assert.False(t, target.Moving())

	script := NewTargetScript([]config.RouteLeg{{X: 5, Y: 0, Gait: "walk", Speed: 1}})
	target.Health().Damage(10)
	script.Advance(target, time.Second)
	assert.False(t, target.Moving())
	assert.Zero(t, target.Location().X)
}
