package spawn

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/world"
)

// MinRoutePoints is the smallest generated patrol loop.
const MinRoutePoints = 3

const routeNoiseFrequency = 0.35

// RouteGenerator lays out patrol loops around spawn points.
// Waypoints sit at evenly spaced bearings; their distance from the spawn
// follows simplex noise so neighbouring spawns get different shapes.
type RouteGenerator struct {
	noise  opensimplex.Noise
	bounds world.Bounds
}

// NewRouteGenerator creates a generator. The same seed yields the same routes.
func NewRouteGenerator(seed int64, bounds world.Bounds) *RouteGenerator {
	return &RouteGenerator{
		noise:  opensimplex.NewNormalized(seed),
		bounds: bounds,
	}
}

// Generate returns points waypoints (at least MinRoutePoints) within radius
// of center, clamped to the world bounds.
func (g *RouteGenerator) Generate(center model.Location, radius float64, points int) []model.Location {
	points = max(points, MinRoutePoints)
	if radius <= 0 {
		radius = 1
	}

	route := make([]model.Location, points)
	for i := range points {
		bearing := 2 * math.Pi * float64(i) / float64(points)
		dx, dy := math.Cos(bearing), math.Sin(bearing)

		// normalized noise in [0, 1]: keep every point between 40% and 100% of radius
		n := g.noise.Eval2(center.X*routeNoiseFrequency+dx, center.Y*routeNoiseFrequency+dy)
		r := radius * (0.4 + 0.6*n)

		x, y := g.bounds.Clamp(center.X+dx*r, center.Y+dy*r)
		route[i] = model.NewLocation(x, y, 0)
	}
	return route
}
