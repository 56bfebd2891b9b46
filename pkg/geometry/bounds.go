package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box ready to be extended
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether nothing has been added to the box
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Expand grows (or with a negative margin shrinks) the box on every side
func (b BoundingBox) Expand(margin float64) BoundingBox {
	m := Vector3{X: margin, Y: margin, Z: margin}
	return BoundingBox{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Transform returns the world bounds of the eight transformed corners
func (b BoundingBox) Transform(m Matrix4) BoundingBox {
	out := NewBoundingBox()
	if b.IsEmpty() {
		return out
	}
	for i := 0; i < 8; i++ {
		corner := Vector3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out.Extend(m.TransformPoint(corner))
	}
	return out
}

// OverlapsFootprint reports whether two boxes overlap on the ground (XZ) plane
func (b BoundingBox) OverlapsFootprint(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X < other.Max.X && b.Max.X > other.Min.X &&
		b.Min.Z < other.Max.Z && b.Max.Z > other.Min.Z
}
