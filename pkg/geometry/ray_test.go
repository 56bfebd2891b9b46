package geometry

import (
	"math"
	"testing"
)

func TestRayIntersectGround(t *testing.T) {
	ray := NewRay(NewVector3(0, 10, 0), NewVector3(1, -1, 0))
	hit, ok := ray.IntersectGround(0)
	if !ok {
		t.Fatalf("expected a ground hit")
	}
	if hit.Distance(NewVector3(10, 0, 0)) > 1e-9 {
		t.Errorf("hit failed: got %v", hit)
	}

	if _, ok := NewRay(NewVector3(0, 10, 0), NewVector3(0, 1, 0)).IntersectGround(0); ok {
		t.Errorf("ray pointing up must miss the ground")
	}
}

func TestRayIntersectBox(t *testing.T) {
	box := BoundingBox{Min: NewVector3(-1, 0, -1), Max: NewVector3(1, 2, 1)}
	ray := NewRay(NewVector3(-5, 1, 0), NewVector3(1, 0, 0))

	dist, ok := ray.IntersectBox(box)
	if !ok || math.Abs(dist-4) > 1e-9 {
		t.Errorf("expected hit at 4, got %v (%v)", dist, ok)
	}
	if _, ok := NewRay(NewVector3(-5, 5, 0), NewVector3(1, 0, 0)).IntersectBox(box); ok {
		t.Errorf("ray above the box must miss")
	}
}

func TestRayIntersectSphere(t *testing.T) {
	ray := NewRay(NewVector3(0, 0, -10), NewVector3(0, 0, 1))
	dist, ok := ray.IntersectSphere(NewVector3(0, 0, 0), 2)
	if !ok || math.Abs(dist-8) > 1e-9 {
		t.Errorf("expected hit at 8, got %v (%v)", dist, ok)
	}
}

func TestRayDistanceToPoint(t *testing.T) {
	ray := NewRay(NewVector3(0, 0, 0), NewVector3(1, 0, 0))
	if d := ray.DistanceToPoint(NewVector3(5, 3, 4)); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %v", d)
	}
}
