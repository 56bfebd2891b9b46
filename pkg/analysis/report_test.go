package analysis

import (
	"testing"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

func testScene() []scene.Entity {
	rect := []geometry.Vector2{{X: -2, Y: -1.5}, {X: 2, Y: -1.5}, {X: 2, Y: 1.5}, {X: -2, Y: 1.5}}
	path := []geometry.Vector2{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}
	return []scene.Entity{
		scene.NewFloor("rubber", "Rubber", geometry.NewVector3(2, 0, 1.5), rect, scene.FloorSpec{}),
		scene.NewFence("fence", "Fence", geometry.NewVector3(10, 0, 0), path, scene.FenceConfig{}),
		scene.NewModel("slide", "Slide", "slide.stl", 900, geometry.NewVector3(-3, 0, 8)),
	}
}

func TestAnalyzeScene(t *testing.T) {
	r := AnalyzeScene(testScene())

	if r.Entities != 3 {
		t.Errorf("Expected 3 entities, got %d", r.Entities)
	}
	if r.Counts[scene.KindFloor] != 1 || r.Counts[scene.KindFence] != 1 || r.Counts[scene.KindModel] != 1 {
		t.Errorf("Unexpected counts %v", r.Counts)
	}
	if r.FloorArea != 12 {
		t.Errorf("Expected floor area 12, got %f", r.FloorArea)
	}
	if r.FenceLength != 10 {
		t.Errorf("Expected fence length 10, got %f", r.FenceLength)
	}
	if r.Stats[0].Perimeter != 14 {
		t.Errorf("Expected perimeter 14, got %f", r.Stats[0].Perimeter)
	}

	want := geometry.BoundingBox{Min: geometry.NewVector3(-3, 0, 0), Max: geometry.NewVector3(15, 0, 8)}
	if r.Footprint != want {
		t.Errorf("Expected footprint %v, got %v", want, r.Footprint)
	}
	// 4 floor edges and 2 fence segments
	if len(r.Segments) != 6 {
		t.Errorf("Expected 6 segments, got %d", len(r.Segments))
	}
}

func TestLongestAndShortestSegments(t *testing.T) {
	r := AnalyzeScene(testScene())

	longest := LongestSegments(r, 2)
	if len(longest) != 2 || longest[0].Length != 5 {
		t.Errorf("Unexpected longest segments %v", longest)
	}
	shortest := ShortestSegments(r, 1)
	if len(shortest) != 1 || shortest[0].Length != 3 {
		t.Errorf("Unexpected shortest segments %v", shortest)
	}
	if got := len(LongestSegments(r, 100)); got != 6 {
		t.Errorf("Expected all 6 segments, got %d", got)
	}
}

func TestEmptyScene(t *testing.T) {
	r := AnalyzeScene(nil)
	if r.Entities != 0 || r.Footprint != (geometry.BoundingBox{}) {
		t.Errorf("Unexpected report for empty scene: %+v", r)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatMeasurement(1.23456, ""); got != "1.235 m" {
		t.Errorf("Unexpected format %q", got)
	}
	if got := FormatVector(geometry.NewVector3(1, 2, 3)); got != "(1.000, 2.000, 3.000)" {
		t.Errorf("Unexpected format %q", got)
	}
}
