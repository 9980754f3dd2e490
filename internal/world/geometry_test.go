package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/model"
)

func TestGeometry_OccludedByWall(t *testing.T) {
	g := NewGeometry()
	g.AddWall(model.NewLocation(5, -10, 0), model.NewLocation(5, 10, 0), 0.5)

	assert.True(t, g.Occluded(model.NewLocation(0, 0, 0), model.NewLocation(10, 0, 0)))
	assert.False(t, g.Occluded(model.NewLocation(0, 0, 0), model.NewLocation(4, 0, 0)))
	assert.False(t, g.Occluded(model.NewLocation(0, 20, 0), model.NewLocation(10, 20, 0)), "ray passes above the wall")
}

func TestGeometry_OccludedByBox(t *testing.T) {
	g := NewGeometry()
	g.AddBox(2, -1, 4, 1)

	assert.True(t, g.Occluded(model.NewLocation(0, 0, 0), model.NewLocation(6, 0, 0)))
	assert.False(t, g.Occluded(model.NewLocation(0, 3, 0), model.NewLocation(6, 3, 0)))
	assert.Len(t, g.Walls(), 4)
}

func TestGeometry_Raycast(t *testing.T) {
	g := NewGeometry()
	g.AddWall(model.NewLocation(5, -10, 0), model.NewLocation(5, 10, 0), 0)

	hit, ok := g.Raycast(model.NewLocation(0, 0, 0), 2, 0, 20)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-6)
	assert.InDelta(t, 5.0, hit.Point.X, 1e-6)

	_, ok = g.Raycast(model.NewLocation(0, 0, 0), -1, 0, 20)
	assert.False(t, ok)

	_, ok = g.Raycast(model.NewLocation(0, 0, 0), 0, 0, 20)
	assert.False(t, ok, "zero direction")
}

func TestGeometry_Empty(t *testing.T) {
	g := NewGeometry()
	assert.False(t, g.Occluded(model.NewLocation(0, 0, 0), model.NewLocation(50, 50, 0)))
	assert.False(t, g.Occluded(model.NewLocation(1, 1, 0), model.NewLocation(1, 1, 0)))
}
