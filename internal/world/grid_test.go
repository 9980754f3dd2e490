package world

import "testing"

func testBounds() Bounds {
	return Bounds{MinX: -100, MinY: -50, MaxX: 100, MaxY: 50}
}

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		bounds   Bounds
		cellSize float64
	}{
		{"empty width", Bounds{MinX: 0, MinY: 0, MaxX: 0, MaxY: 10}, 10},
		{"inverted", Bounds{MinX: 10, MinY: 10, MaxX: 0, MaxY: 0}, 10},
		{"zero cell", testBounds(), 0},
		{"negative cell", testBounds(), -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.bounds, tt.cellSize); err == nil {
				t.Errorf("NewGrid(%+v, %v) error = nil, want error", tt.bounds, tt.cellSize)
			}
		})
	}
}

func TestCoordToRegionIndex(t *testing.T) {
	g, err := NewGrid(testBounds(), 10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	tests := []struct {
		name           string
		x, y           float64
		wantRX, wantRY int
	}{
		{"min corner", -100, -50, 0, 0},
		{"origin", 0, 0, 10, 5},
		{"inside first cell", -90.5, -40.5, 0, 0},
		{"max corner", 100, 50, 20, 10},
		{"left of bounds", -101, 0, -1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := g.CoordToRegionIndex(tt.x, tt.y)
			if rx != tt.wantRX || ry != tt.wantRY {
				t.Errorf("CoordToRegionIndex(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, rx, ry, tt.wantRX, tt.wantRY)
			}
		})
	}
}

func TestIsValidRegionIndex(t *testing.T) {
	g, err := NewGrid(testBounds(), 10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cols, rows := g.Size()

	tests := []struct {
		name   string
		rx, ry int
		want   bool
	}{
		{"valid min", 0, 0, true},
		{"valid max", cols - 1, rows - 1, true},
		{"negative x", -1, 0, false},
		{"negative y", 0, -1, false},
		{"x overflow", cols, 0, false},
		{"y overflow", 0, rows, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsValidRegionIndex(tt.rx, tt.ry); got != tt.want {
				t.Errorf("IsValidRegionIndex(%d, %d) = %v, want %v", tt.rx, tt.ry, got, tt.want)
			}
		})
	}
}

func TestRegionSpan_Clipped(t *testing.T) {
	g, err := NewGrid(testBounds(), 10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	minRX, minRY, maxRX, maxRY := g.RegionSpan(-100, -50, 25)
	if minRX != 0 || minRY != 0 {
		t.Errorf("RegionSpan min = (%d, %d), want (0, 0)", minRX, minRY)
	}
	if maxRX != 2 || maxRY != 2 {
		t.Errorf("RegionSpan max = (%d, %d), want (2, 2)", maxRX, maxRY)
	}
}

func TestBounds_Clamp(t *testing.T) {
	b := testBounds()

	x, y := b.Clamp(150, -70)
	if x != 100 || y != -50 {
		t.Errorf("Clamp(150, -70) = (%v, %v), want (100, -50)", x, y)
	}
	if !b.Contains(100, 50) {
		t.Error("Contains(max corner) = false, want true")
	}
	if b.Contains(100.1, 0) {
		t.Error("Contains(outside) = true, want false")
	}
}
