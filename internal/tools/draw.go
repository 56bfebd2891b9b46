// Package tools implements the point-accumulating drawing tools: floor and
// fence outlines and the transient measuring tape.
package tools

import (
	"errors"
	"fmt"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// ErrNotEnoughPoints is returned when finalizing a draft below its minimum
var ErrNotEnoughPoints = errors.New("tools: not enough points")

// DefaultEpsilon is the minimum spacing between consecutive points
const DefaultEpsilon = 0.1

// Draft carries the product data stamped onto a finalized entity
type Draft struct {
	ProductID string
	Name      string
	Rate      float64
	Floor     scene.FloorSpec
	Fence     scene.FenceConfig
}

// DrawTool accumulates ground points into a floor or fence outline
type DrawTool struct {
	kind    scene.Kind
	epsilon float64
	points  []geometry.Vector3
	cursor  *geometry.Vector3
}

// NewFloorTool returns a tool drawing closed floor outlines
func NewFloorTool(epsilon float64) *DrawTool {
	return newDrawTool(scene.KindFloor, epsilon)
}

// NewFenceTool returns a tool drawing open fence paths
func NewFenceTool(epsilon float64) *DrawTool {
	return newDrawTool(scene.KindFence, epsilon)
}

func newDrawTool(kind scene.Kind, epsilon float64) *DrawTool {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &DrawTool{kind: kind, epsilon: epsilon}
}

// Kind returns the entity kind the tool produces
func (t *DrawTool) Kind() scene.Kind {
	return t.kind
}

// AddPoint appends a ground point. Points closer than epsilon to the
// previous one are rejected.
func (t *DrawTool) AddPoint(p geometry.Vector3) bool {
	if !p.IsFinite() {
		return false
	}
	p.Y = 0
	if n := len(t.points); n > 0 && t.points[n-1].Distance(p) < t.epsilon {
		return false
	}
	t.points = append(t.points, p)
	return true
}

// SetCursor updates the live preview end point
func (t *DrawTool) SetCursor(p geometry.Vector3) {
	p.Y = 0
	t.cursor = &p
}

// Points returns the accepted points; each has a marker
func (t *DrawTool) Points() []geometry.Vector3 {
	return append([]geometry.Vector3(nil), t.points...)
}

// Len returns the number of accepted points
func (t *DrawTool) Len() int {
	return len(t.points)
}

// Preview returns the polyline to draw: the accepted points, the cursor,
// and for floors the closing edge back to the first point
func (t *DrawTool) Preview() []geometry.Vector3 {
	line := t.Points()
	if len(line) == 0 {
		return nil
	}
	if t.cursor != nil {
		line = append(line, *t.cursor)
	}
	if t.kind == scene.KindFloor && len(line) >= 3 {
		line = append(line, line[0])
	}
	return line
}

// Finalize turns the draft into an entity positioned at the bounding box
// center of its points, with points stored relative to that center. The
// tool is reset on success and keeps its points on failure.
func (t *DrawTool) Finalize(d Draft) (scene.Entity, error) {
	if min := t.kind.MinPoints(); len(t.points) < min {
		return scene.Entity{}, fmt.Errorf("%s needs %d points, has %d: %w", t.kind, min, len(t.points), ErrNotEnoughPoints)
	}
	ground := make([]geometry.Vector2, len(t.points))
	for i, p := range t.points {
		ground[i] = p.Ground()
	}
	local, center := geometry.Recenter(ground)
	if t.kind == scene.KindFloor && geometry.Area(local) < 1e-9 {
		return scene.Entity{}, fmt.Errorf("floor outline has no area: %w", scene.ErrInvalidGeometry)
	}

	var e scene.Entity
	if t.kind == scene.KindFloor {
		e = scene.NewFloor(d.ProductID, d.Name, center.Lift(0), local, d.Floor)
	} else {
		e = scene.NewFence(d.ProductID, d.Name, center.Lift(0), local, d.Fence)
	}
	e.Rate = d.Rate
	if err := e.Validate(); err != nil {
		return scene.Entity{}, err
	}
	t.Reset()
	return e, nil
}

// Reset removes all points and the preview
func (t *DrawTool) Reset() {
	t.points = nil
	t.cursor = nil
}
