package geometry

import "math"

// SignedArea returns the signed area of a closed polygon using the shoelace
// formula. Counter-clockwise winding is positive.
func SignedArea(points []Vector2) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area of a closed polygon
func Area(points []Vector2) float64 {
	return math.Abs(SignedArea(points))
}

// PathLength returns the summed length of consecutive segments of an open path
func PathLength(points []Vector2) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// Bounds2 returns the axis-aligned bounds of a point set
func Bounds2(points []Vector2) (min, max Vector2) {
	if len(points) == 0 {
		return Vector2{}, Vector2{}
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// BoundsCenter returns the center of the point set's bounding box
func BoundsCenter(points []Vector2) Vector2 {
	min, max := Bounds2(points)
	return Vector2{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}
}

// Recenter expresses every point relative to the bounding box center and
// returns the shifted copy together with that center.
func Recenter(points []Vector2) ([]Vector2, Vector2) {
	center := BoundsCenter(points)
	out := make([]Vector2, len(points))
	for i, p := range points {
		out[i] = p.Sub(center)
	}
	return out, center
}

// Reverse returns the points in reverse order
func Reverse(points []Vector2) []Vector2 {
	out := make([]Vector2, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
