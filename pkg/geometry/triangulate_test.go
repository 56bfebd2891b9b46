package geometry

import (
	"math"
	"testing"
)

func triangulatedArea(points []Vector2, indices []int) float64 {
	total := 0.0
	for i := 0; i+2 < len(indices); i += 3 {
		total += SignedArea([]Vector2{points[indices[i]], points[indices[i+1]], points[indices[i+2]]})
	}
	return total
}

func TestTriangulateConvex(t *testing.T) {
	indices := Triangulate(rectangle)
	if len(indices) != 6 {
		t.Fatalf("expected 2 triangles, got %d indices", len(indices))
	}
	if area := triangulatedArea(rectangle, indices); math.Abs(area-12) > 1e-9 {
		t.Errorf("triangles should cover the polygon: got %v", area)
	}
}

func TestTriangulateConcaveClockwise(t *testing.T) {
	// L-shape, clockwise
	poly := Reverse([]Vector2{{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 3}, {0, 3}})
	indices := Triangulate(poly)

	if len(indices) != (len(poly)-2)*3 {
		t.Fatalf("expected %d indices, got %d", (len(poly)-2)*3, len(indices))
	}
	area := triangulatedArea(poly, indices)
	if math.Abs(area-Area(poly)) > 1e-9 {
		t.Errorf("expected CCW coverage of %v, got %v", Area(poly), area)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if got := Triangulate([]Vector2{{0, 0}, {1, 0}}); got != nil {
		t.Errorf("two points should not triangulate: %v", got)
	}
	if got := Triangulate([]Vector2{{0, 0}, {1, 0}, {2, 0}}); got != nil {
		t.Errorf("collinear points should not triangulate: %v", got)
	}
	if got := Triangulate([]Vector2{{0, 0}, {math.NaN(), 0}, {1, 1}}); got != nil {
		t.Errorf("NaN input should not triangulate: %v", got)
	}
}
