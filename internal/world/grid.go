package world

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned when a position lies outside the world.
var ErrOutOfBounds = errors.New("position out of world bounds")

// Bounds is the rectangle of the playable area.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether (x, y) is inside bounds (max edges inclusive)
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Clamp pulls (x, y) inside bounds
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return min(max(x, b.MinX), b.MaxX), min(max(y, b.MinY), b.MaxY)
}

// Width returns extent along X
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns extent along Y
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Grid splits bounds into square regions of CellSize units.
type Grid struct {
	bounds   Bounds
	cellSize float64
	cols     int
	rows     int
}

// NewGrid validates bounds and cell size
func NewGrid(bounds Bounds, cellSize float64) (Grid, error) {
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return Grid{}, fmt.Errorf("empty world bounds %+v", bounds)
	}
	if cellSize <= 0 {
		return Grid{}, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	return Grid{
		bounds:   bounds,
		cellSize: cellSize,
		cols:     int(math.Ceil(bounds.Width()/cellSize)) + 1,
		rows:     int(math.Ceil(bounds.Height()/cellSize)) + 1,
	}, nil
}

// Bounds returns world bounds
func (g Grid) Bounds() Bounds {
	return g.bounds
}

// Size returns number of columns and rows
func (g Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// CoordToRegionIndex converts world coordinate to region index
func (g Grid) CoordToRegionIndex(x, y float64) (rx, ry int) {
	rx = int(math.Floor((x - g.bounds.MinX) / g.cellSize))
	ry = int(math.Floor((y - g.bounds.MinY) / g.cellSize))
	return rx, ry
}

// IsValidRegionIndex checks if region index is within valid bounds
func (g Grid) IsValidRegionIndex(rx, ry int) bool {
	return rx >= 0 && rx < g.cols && ry >= 0 && ry < g.rows
}

// RegionSpan returns the inclusive index range of regions a circle touches,
// clipped to the grid.
func (g Grid) RegionSpan(x, y, radius float64) (minRX, minRY, maxRX, maxRY int) {
	minRX, minRY = g.CoordToRegionIndex(x-radius, y-radius)
	maxRX, maxRY = g.CoordToRegionIndex(x+radius, y+radius)
	minRX = max(minRX, 0)
	minRY = max(minRY, 0)
	maxRX = min(maxRX, g.cols-1)
	maxRY = min(maxRY, g.rows-1)
	return minRX, minRY, maxRX, maxRY
}
