package measurement

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Segment is a labelled line drawn on top of the scene
type Segment struct {
	Start    geometry.Vector3
	End      geometry.Vector3
	Color    rl.Color
	Label    string
	Priority int
}

// Marker is a point drawn as a filled circle
type Marker struct {
	Position  geometry.Vector3
	Color     rl.Color
	Radius    float32
	Highlight bool
	Label     string
}

// Arc marks the angle at Pivot between the rays to From and To
type Arc struct {
	Pivot geometry.Vector3
	From  geometry.Vector3
	To    geometry.Vector3
	Color rl.Color
	Label string
}

// Frame is everything the overlay draws for one frame
type Frame struct {
	Segments []Segment
	Markers  []Marker
	Arcs     []Arc
}

// IsEmpty reports whether there is nothing to draw
func (f Frame) IsEmpty() bool {
	return len(f.Segments) == 0 && len(f.Markers) == 0 && len(f.Arcs) == 0
}

// Merge appends the contents of other
func (f *Frame) Merge(other Frame) {
	f.Segments = append(f.Segments, other.Segments...)
	f.Markers = append(f.Markers, other.Markers...)
	f.Arcs = append(f.Arcs, other.Arcs...)
}
