package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix4 is a row-major 4x4 affine matrix acting on column vectors.
type Matrix4 [16]float64

// Identity returns the identity matrix
func Identity() Matrix4 {
	return Matrix4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Translation returns a translation matrix
func Translation(v Vector3) Matrix4 {
	m := Identity()
	m[3], m[7], m[11] = v.X, v.Y, v.Z
	return m
}

// Scaling returns a non-uniform scale matrix
func Scaling(v Vector3) Matrix4 {
	return Matrix4{v.X, 0, 0, 0, 0, v.Y, 0, 0, 0, 0, v.Z, 0, 0, 0, 0, 1}
}

// RotationX returns a rotation about the X axis
func RotationX(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{1, 0, 0, 0, 0, c, -s, 0, 0, s, c, 0, 0, 0, 0, 1}
}

// RotationY returns a rotation about the Y axis
func RotationY(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{c, 0, s, 0, 0, 1, 0, 0, -s, 0, c, 0, 0, 0, 0, 1}
}

// RotationZ returns a rotation about the Z axis
func RotationZ(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{c, -s, 0, 0, s, c, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul returns m * other
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * other[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a point (w = 1)
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// Inverse returns the inverse matrix. ok is false for singular matrices
// such as a zero scale.
func (m Matrix4) Inverse() (Matrix4, bool) {
	src := mat.NewDense(4, 4, m[:])
	var inv mat.Dense
	if err := inv.Inverse(src); err != nil {
		return Matrix4{}, false
	}
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = inv.At(r, c)
		}
	}
	return out, out.IsFinite()
}

// IsFinite reports whether every element is a finite number
func (m Matrix4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Transpose returns the transposed matrix (column-major order for GPU upload)
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = m[r*4+c]
		}
	}
	return out
}

// Transform is the position/rotation/scale of an entity. Rotation holds
// Euler angles in radians applied in XYZ order.
type Transform struct {
	Position Vector3 `json:"position" yaml:"position"`
	Rotation Vector3 `json:"rotation" yaml:"rotation"`
	Scale    Vector3 `json:"scale" yaml:"scale"`
}

// NewTransform returns a transform at position with unit scale
func NewTransform(position Vector3) Transform {
	return Transform{Position: position, Scale: Vector3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the local-to-world matrix T * Rx * Ry * Rz * S
func (t Transform) Matrix() Matrix4 {
	r := RotationX(t.Rotation.X).Mul(RotationY(t.Rotation.Y)).Mul(RotationZ(t.Rotation.Z))
	return Translation(t.Position).Mul(r).Mul(Scaling(t.Scale))
}

// ToWorld converts a local ground point to world space
func (t Transform) ToWorld(p Vector2) Vector3 {
	return t.Matrix().TransformPoint(p.Lift(0))
}

// ToLocal converts a world point to the transform's local ground plane.
// ok is false when the transform cannot be inverted.
func (t Transform) ToLocal(p Vector3) (Vector2, bool) {
	inv, ok := t.Matrix().Inverse()
	if !ok {
		return Vector2{}, false
	}
	return inv.TransformPoint(p).Ground(), true
}
