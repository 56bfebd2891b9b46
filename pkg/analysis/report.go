package analysis

import (
	"fmt"
	"sort"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Segment is one world-space edge of a floor outline or fence path
type Segment struct {
	Start    geometry.Vector3 `json:"start"`
	End      geometry.Vector3 `json:"end"`
	Length   float64          `json:"length"`
	EntityID string           `json:"entityId"`
	Index    int              `json:"index"`
}

// EntityStat holds the measurements of one entity
type EntityStat struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      scene.Kind `json:"type"`
	Area      float64    `json:"area,omitempty"`
	Perimeter float64    `json:"perimeter,omitempty"`
	Length    float64    `json:"length,omitempty"`
	Points    int        `json:"points,omitempty"`
}

// Report summarizes a scene
type Report struct {
	Counts      map[scene.Kind]int   `json:"counts"`
	Entities    int                  `json:"entities"`
	FloorArea   float64              `json:"floorArea"`
	FenceLength float64              `json:"fenceLength"`
	Footprint   geometry.BoundingBox `json:"footprint"`
	Stats       []EntityStat         `json:"stats"`
	Segments    []Segment            `json:"-"`
}

// AnalyzeScene measures every entity of a scene
func AnalyzeScene(items []scene.Entity) *Report {
	r := &Report{
		Counts:    make(map[scene.Kind]int),
		Entities:  len(items),
		Footprint: geometry.NewBoundingBox(),
	}

	for _, e := range items {
		r.Counts[e.Kind]++
		stat := EntityStat{ID: e.ID, Name: e.Name, Kind: e.Kind, Points: len(e.Points)}
		world := e.WorldPoints()

		switch e.Kind {
		case scene.KindFloor:
			stat.Area = geometry.Area(e.Points)
			if len(e.Points) > 0 {
				closed := append(append([]geometry.Vector2(nil), e.Points...), e.Points[0])
				stat.Perimeter = geometry.PathLength(closed)
			}
			r.FloorArea += stat.Area
			r.Segments = append(r.Segments, segments(e.ID, world, true)...)
		case scene.KindFence:
			stat.Length = geometry.PathLength(e.Points)
			r.FenceLength += stat.Length
			r.Segments = append(r.Segments, segments(e.ID, world, false)...)
		default:
			world = []geometry.Vector3{e.Transform.Position}
		}
		for _, p := range world {
			r.Footprint.Extend(p)
		}
		r.Stats = append(r.Stats, stat)
	}
	if r.Footprint.IsEmpty() {
		r.Footprint = geometry.BoundingBox{}
	}
	return r
}

func segments(id string, world []geometry.Vector3, closed bool) []Segment {
	n := len(world)
	if n < 2 {
		return nil
	}
	count := n - 1
	if closed {
		count = n
	}
	out := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		a, b := world[i], world[(i+1)%n]
		out = append(out, Segment{Start: a, End: b, Length: a.Distance(b), EntityID: id, Index: i})
	}
	return out
}

// LongestSegments returns the n longest edges of the scene
func LongestSegments(r *Report, n int) []Segment {
	out := append([]Segment(nil), r.Segments...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Length > out[j].Length
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// ShortestSegments returns the n shortest edges, useful to spot drawing slips
func ShortestSegments(r *Report, n int) []Segment {
	out := append([]Segment(nil), r.Segments...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Length < out[j].Length
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "m"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
