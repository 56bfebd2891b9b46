package geometry

import "math"

// Vector2 is a point on the ground plane. Y maps to world Z.
type Vector2 struct {
	X, Y float64
}

// NewVector2 creates a new 2D vector
func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul multiplies the vector by a scalar
func (v Vector2) Mul(scalar float64) Vector2 {
	return Vector2{X: v.X * scalar, Y: v.Y * scalar}
}

// Dot returns the dot product of two vectors
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product
func (v Vector2) Cross(other Vector2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude of the vector
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length == 0 {
		return Vector2{}
	}
	return v.Mul(1.0 / length)
}

// Rotate rotates the vector counter-clockwise by angle radians
func (v Vector2) Rotate(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Lift places the point on the ground plane at height y
func (v Vector2) Lift(y float64) Vector3 {
	return Vector3{X: v.X, Y: y, Z: v.Y}
}

// IsFinite reports whether no component is NaN or infinite
func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}
