package model

import "math"

// Location представляет позицию и направление взгляда на плоскости мира.
// Value type, передаётся по значению (immutable).
// Heading в радианах: 0 смотрит вдоль +X, рост против часовой стрелки.
type Location struct {
	X       float64
	Y       float64
	Heading float64
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, heading float64) Location {
	return Location{X: x, Y: y, Heading: NormalizeAngle(heading)}
}

// WithHeading возвращает новый Location с обновлённым направлением (immutable pattern).
func (l Location) WithHeading(heading float64) Location {
	l.Heading = NormalizeAngle(heading)
	return l
}

// WithCoordinates возвращает новый Location с обновлёнными координатами (immutable pattern).
func (l Location) WithCoordinates(x, y float64) Location {
	l.X = x
	l.Y = y
	return l
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt).
func (l Location) DistanceSquared(other Location) float64 {
	dx := other.X - l.X
	dy := other.Y - l.Y
	return dx*dx + dy*dy
}

// Distance возвращает евклидово расстояние до другой точки.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(l.DistanceSquared(other))
}

// Forward returns the unit vector the location is facing.
func (l Location) Forward() (float64, float64) {
	return math.Cos(l.Heading), math.Sin(l.Heading)
}

// DirectionTo returns the unit vector toward other and the distance to it.
// A zero vector is returned when both points coincide.
func (l Location) DirectionTo(other Location) (dx, dy, dist float64) {
	dx = other.X - l.X
	dy = other.Y - l.Y
	dist = math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0, 0
	}
	return dx / dist, dy / dist, dist
}

// HeadingTo returns the heading that faces other.
func (l Location) HeadingTo(other Location) float64 {
	return math.Atan2(other.Y-l.Y, other.X-l.X)
}

// AngleTo returns the unsigned angle in degrees between the facing
// direction and the direction toward other, in [0, 180].
// Coincident points yield 0.
func (l Location) AngleTo(other Location) float64 {
	if l.X == other.X && l.Y == other.Y {
		return 0
	}
	diff := NormalizeAngle(l.HeadingTo(other) - l.Heading)
	return math.Abs(diff) * 180 / math.Pi
}

// Step moves toward target by at most maxStep and faces the movement
// direction. The second result reports whether target was reached.
func (l Location) Step(target Location, maxStep float64) (Location, bool) {
	dx, dy, dist := l.DirectionTo(target)
	if dist <= maxStep {
		next := l.WithCoordinates(target.X, target.Y)
		if dist > 0 {
			next.Heading = math.Atan2(dy, dx)
		}
		return next, true
	}
	return Location{
		X:       l.X + dx*maxStep,
		Y:       l.Y + dy*maxStep,
		Heading: math.Atan2(dy, dx),
	}, false
}

// Lerp interpolates coordinates between l and other by t in [0, 1].
// Heading is taken from l.
func (l Location) Lerp(other Location, t float64) Location {
	t = min(max(t, 0), 1)
	return Location{
		X:       l.X + (other.X-l.X)*t,
		Y:       l.Y + (other.Y-l.Y)*t,
		Heading: l.Heading,
	}
}

// NormalizeAngle wraps an angle in radians into (-π, π].
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	switch {
	case rad > math.Pi:
		rad -= 2 * math.Pi
	case rad <= -math.Pi:
		rad += 2 * math.Pi
	}
	return rad
}

// RotateToward turns current toward target by at most maxStep radians
// along the shorter arc.
func RotateToward(current, target, maxStep float64) float64 {
	diff := NormalizeAngle(target - current)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
