package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxOverlapsFootprint(t *testing.T) {
	a := BoundingBox{Min: NewVector3(0, 0, 0), Max: NewVector3(2, 1, 2)}
	b := BoundingBox{Min: NewVector3(1, 5, 1), Max: NewVector3(3, 6, 3)}
	c := BoundingBox{Min: NewVector3(2, 0, 0), Max: NewVector3(4, 1, 2)}

	if !a.OverlapsFootprint(b) {
		t.Errorf("boxes overlapping on XZ should overlap regardless of height")
	}
	if a.OverlapsFootprint(c) {
		t.Errorf("touching boxes should not overlap")
	}
	if a.OverlapsFootprint(NewBoundingBox()) {
		t.Errorf("empty box never overlaps")
	}
}

func TestBoundingBoxTransform(t *testing.T) {
	box := BoundingBox{Min: NewVector3(-1, 0, -1), Max: NewVector3(1, 1, 1)}
	moved := box.Transform(Translation(NewVector3(10, 0, 0)))

	if moved.Center().Distance(NewVector3(10, 0.5, 0)) > 1e-12 {
		t.Errorf("Transform failed: got center %v", moved.Center())
	}
}
