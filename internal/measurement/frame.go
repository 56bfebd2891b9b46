package measurement

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/internal/markers"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

const markerRadius = 4

var (
	colorDraft   = rl.NewColor(100, 200, 255, 255)
	colorClosing = rl.NewColor(100, 200, 255, 120)
	colorMeasure = rl.Yellow
	colorStart   = rl.NewColor(0, 255, 0, 255)
	colorCollide = rl.NewColor(255, 120, 80, 255)
)

func rgba(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func lengthLabel(d float64) string {
	return fmt.Sprintf("%.2f m", d)
}

// DrawFrame renders the preview polyline of a drawing tool. For a closed
// preview the last segment is the implicit closing edge.
func DrawFrame(preview []geometry.Vector3, closed bool) Frame {
	var f Frame
	for i := 0; i+1 < len(preview); i++ {
		a, b := preview[i], preview[i+1]
		seg := Segment{Start: a, End: b, Color: colorDraft, Label: lengthLabel(a.Distance(b)), Priority: 1}
		if closed && i == len(preview)-2 {
			seg.Color = colorClosing
			seg.Priority = 0
		}
		f.Segments = append(f.Segments, seg)
	}

	points := preview
	if closed && len(points) > 1 {
		points = points[:len(points)-1]
	}
	for i, p := range points {
		m := Marker{Position: p, Color: colorDraft, Radius: markerRadius}
		if i == 0 {
			m.Color = colorStart
			m.Radius = markerRadius + 2
		}
		f.Markers = append(f.Markers, m)
	}
	return f
}

// MeasureFrame renders the measurement tool line with its live length
func MeasureFrame(points []geometry.Vector3, distance float64) Frame {
	var f Frame
	for _, p := range points {
		f.Markers = append(f.Markers, Marker{Position: p, Color: colorMeasure, Radius: markerRadius})
	}
	if len(points) == 2 {
		f.Segments = append(f.Segments, Segment{
			Start: points[0], End: points[1],
			Color: colorMeasure, Label: lengthLabel(distance), Priority: 3,
		})
	}
	return f
}

// HandleFrame renders edit markers and the CAD readouts of the selection:
// the distance between the first two selected handles and the angle at
// the second when three are selected
func HandleFrame(handles []markers.Handle, selected []int) Frame {
	var f Frame
	for _, h := range handles {
		m := Marker{Position: h.Position, Color: rgba(h.Color), Radius: markerRadius}
		if h.Order > 0 {
			m.Radius = markerRadius + 2
			m.Highlight = true
			m.Label = fmt.Sprint(h.Order)
		}
		f.Markers = append(f.Markers, m)
	}

	pos := func(i int) (geometry.Vector3, bool) {
		if i < 0 || i >= len(handles) {
			return geometry.Vector3{}, false
		}
		return handles[i].Position, true
	}

	if len(selected) >= 2 {
		a, okA := pos(selected[0])
		b, okB := pos(selected[1])
		if okA && okB {
			f.Segments = append(f.Segments, Segment{
				Start: a, End: b,
				Color: rgba(markers.ColorA), Label: lengthLabel(a.Distance(b)), Priority: 3,
			})
		}
	}
	if len(selected) == 3 {
		a, _ := pos(selected[0])
		pivot, okP := pos(selected[1])
		c, okC := pos(selected[2])
		if okP && okC {
			f.Segments = append(f.Segments, Segment{
				Start: pivot, End: c,
				Color: rgba(markers.ColorC), Label: lengthLabel(pivot.Distance(c)), Priority: 2,
			})
			f.Arcs = append(f.Arcs, Arc{
				Pivot: pivot, From: a, To: c,
				Color: rgba(markers.ColorB),
				Label: fmt.Sprintf("%.1f°", geometry.AngleAt(a, pivot, c)),
			})
		}
	}
	return f
}

// FromController collects the overlay for the controller's current mode
func FromController(c *interaction.Controller) Frame {
	var f Frame
	switch c.Mode() {
	case interaction.ModeDrawingFloor:
		p := c.FloorTool().Preview()
		f.Merge(DrawFrame(p, len(p) >= 4))
	case interaction.ModeDrawingFence:
		f.Merge(DrawFrame(c.FenceTool().Preview(), false))
	case interaction.ModeMeasuring:
		f.Merge(MeasureFrame(c.MeasureTool().Preview()))
	}

	mk := c.Markers()
	if mk.Active() {
		f.Merge(HandleFrame(mk.Handles(), mk.Selected()))
	}
	if c.Colliding() {
		if n, ok := c.View().Node(c.Attached()); ok {
			b := n.WorldBounds()
			f.Merge(footprint(b, colorCollide))
		}
	}
	return f
}

// footprint outlines the ground rectangle of a bounding box
func footprint(b geometry.BoundingBox, c rl.Color) Frame {
	corners := []geometry.Vector3{
		{X: b.Min.X, Z: b.Min.Z},
		{X: b.Max.X, Z: b.Min.Z},
		{X: b.Max.X, Z: b.Max.Z},
		{X: b.Min.X, Z: b.Max.Z},
	}
	var f Frame
	for i := range corners {
		f.Segments = append(f.Segments, Segment{Start: corners[i], End: corners[(i+1)%4], Color: c})
	}
	return f
}
