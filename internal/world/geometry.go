package world

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/udisondev/sentinel/internal/model"
)

// Wall is a solid occluder: a thick segment between A and B.
type Wall struct {
	A, B      model.Location
	Thickness float64
}

// RayHit describes the first geometry a ray touches.
type RayHit struct {
	Point    model.Location
	Distance float64
}

// Geometry holds static occluders in a chipmunk space and answers ray queries.
// The space is never stepped; it only serves as a spatial index.
type Geometry struct {
	space *cp.Space
	walls []Wall
}

// NewGeometry creates empty geometry
func NewGeometry() *Geometry {
	return &Geometry{space: cp.NewSpace()}
}

// AddWall adds an occluding segment. Thickness is the full width of the wall.
func (g *Geometry) AddWall(a, b model.Location, thickness float64) {
	radius := max(thickness, 0) / 2
	shape := cp.NewSegment(g.space.StaticBody, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, radius)
	g.space.AddShape(shape)
	g.walls = append(g.walls, Wall{A: a, B: b, Thickness: thickness})
}

// AddBox adds an axis-aligned solid block.
func (g *Geometry) AddBox(minX, minY, maxX, maxY float64) {
	bb := cp.BB{L: minX, B: minY, R: maxX, T: maxY}
	g.space.AddShape(cp.NewBox2(g.space.StaticBody, bb, 0))

	// keep the outline so the viewer can draw it
	corners := []model.Location{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}
	for i := range corners {
		g.walls = append(g.walls, Wall{A: corners[i], B: corners[(i+1)%len(corners)]})
	}
}

// Walls returns a copy of the occluder outlines
func (g *Geometry) Walls() []Wall {
	return append([]Wall(nil), g.walls...)
}

// Raycast casts a ray from origin along (dirX, dirY) up to maxDistance.
// The direction does not need to be normalized.
func (g *Geometry) Raycast(origin model.Location, dirX, dirY, maxDistance float64) (RayHit, bool) {
	length := math.Hypot(dirX, dirY)
	if length == 0 || maxDistance <= 0 {
		return RayHit{}, false
	}
	end := cp.Vector{
		X: origin.X + dirX/length*maxDistance,
		Y: origin.Y + dirY/length*maxDistance,
	}

	info := g.space.SegmentQueryFirst(cp.Vector{X: origin.X, Y: origin.Y}, end, 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return RayHit{}, false
	}
	return RayHit{
		Point:    model.Location{X: info.Point.X, Y: info.Point.Y},
		Distance: info.Alpha * maxDistance,
	}, true
}

// Occluded reports whether any geometry lies on the segment between from and to.
func (g *Geometry) Occluded(from, to model.Location) bool {
	dist := from.Distance(to)
	if dist == 0 {
		return false
	}
	_, hit := g.Raycast(from, to.X-from.X, to.Y-from.Y, dist)
	return hit
}
