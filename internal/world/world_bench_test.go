package world_test

import (
	"testing"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/testutil"
)

// BenchmarkWorld_AgentsWithinRadius measures the alert-propagation query
// over 400 agents spread across the default test world.
func BenchmarkWorld_AgentsWithinRadius(b *testing.B) {
	w := testutil.NewWorld(b)
	tmpl := testutil.GuardTemplate()

	id := uint32(1)
	for x := -95.0; x < 95; x += 10 {
		for y := -95.0; y < 95; y += 10 {
			if err := w.AddAgent(testutil.NewAgent(b, id, tmpl, x, y, 0)); err != nil {
				b.Fatalf("AddAgent: %v", err)
			}
			id++
		}
	}

	center := model.NewLocation(0, 0, 0)
	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		n := 0
		w.AgentsWithinRadius(center, 30, func(*model.Agent) bool {
			n++
			return true
		})
	}
}

func BenchmarkGeometry_Occluded(b *testing.B) {
	w := testutil.NewWorld(b)
	g := w.Geometry()
	for x := -80.0; x <= 80; x += 20 {
		g.AddWall(model.NewLocation(x, -5, 0), model.NewLocation(x, 5, 0), 0.5)
	}
	from := model.NewLocation(-90, 0, 0)
	to := model.NewLocation(90, 1, 0)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = g.Occluded(from, to)
	}
}
