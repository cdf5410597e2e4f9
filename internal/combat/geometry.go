package combat

import "math"

// Vec2 is a point or displacement in the tower-centred plane.
type Vec2 struct {
	X float64
	Y float64
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Direction returns the unit vector pointing from a to b together with the
// distance between them. Coincident points yield a zero vector.
func Direction(from, to Vec2) (Vec2, float64) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || math.IsNaN(dist) {
		return Vec2{}, 0
	}
	return Vec2{X: dx / dist, Y: dy / dist}, dist
}

// StepToward moves pos toward target by step, never overshooting.
func StepToward(pos, target Vec2, step float64) Vec2 {
	dir, dist := Direction(pos, target)
	if dist == 0 || step <= 0 {
		return pos
	}
	if step > dist {
		step = dist
	}
	return Vec2{X: pos.X + dir.X*step, Y: pos.Y + dir.Y*step}
}
