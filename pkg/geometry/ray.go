package geometry

import "math"

// Ray is a half line used for picking
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray with a normalized direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectGround intersects the ray with the horizontal plane y = height
func (r Ray) IntersectGround(height float64) (Vector3, bool) {
	if math.Abs(r.Direction.Y) < 1e-12 {
		return Vector3{}, false
	}
	t := (height - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return Vector3{}, false
	}
	return r.At(t), true
}

// IntersectBox returns the entry distance of the ray into an axis-aligned box
// using the slab method
func (r Ray) IntersectBox(box BoundingBox) (float64, bool) {
	tMin, tMax := 0.0, math.MaxFloat64
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectSphere returns the distance to the first hit with a sphere
func (r Ray) IntersectSphere(center Vector3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// DistanceToPoint returns the perpendicular distance from a point to the ray
func (r Ray) DistanceToPoint(p Vector3) float64 {
	toPoint := p.Sub(r.Origin)
	t := toPoint.Dot(r.Direction)
	if t < 0 {
		return toPoint.Length()
	}
	return p.Distance(r.At(t))
}
