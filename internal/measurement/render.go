package measurement

import (
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

const (
	lineThickness = 2
	arcRadius     = 28
	arcSteps      = 24
	labelPadding  = 4
)

// Renderer draws overlay frames in 2D screen space on top of the 3D scene
type Renderer struct {
	Font     rl.Font
	FontSize float32
}

// NewRenderer creates a renderer using the given font
func NewRenderer(font rl.Font, fontSize float32) *Renderer {
	return &Renderer{Font: font, FontSize: fontSize}
}

func toScreen(p geometry.Vector3, camera rl.Camera3D) rl.Vector2 {
	return rl.GetWorldToScreen(rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}, camera)
}

// Draw renders a frame. Lines and markers go first so labels stay on top;
// labels are drawn by priority and skipped where they would overlap.
func (r *Renderer) Draw(f Frame, camera rl.Camera3D) {
	segments := append([]Segment(nil), f.Segments...)
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Priority > segments[j].Priority
	})

	for _, s := range segments {
		rl.DrawLineEx(toScreen(s.Start, camera), toScreen(s.End, camera), lineThickness, s.Color)
	}
	for _, a := range f.Arcs {
		r.drawArc(a, camera)
	}
	for _, m := range f.Markers {
		p := toScreen(m.Position, camera)
		if m.Highlight {
			rl.DrawCircleLines(int32(p.X), int32(p.Y), m.Radius+3, rl.White)
		}
		rl.DrawCircle(int32(p.X), int32(p.Y), m.Radius, m.Color)
	}

	var drawn []rl.Rectangle
	for _, s := range segments {
		if s.Label == "" {
			continue
		}
		a, b := toScreen(s.Start, camera), toScreen(s.End, camera)
		drawn = r.drawLabel(Label{
			Text:       s.Label,
			ScreenPos:  offsetMidpoint(a, b, 14),
			BaseColor:  s.Color,
			IsSelected: s.Priority >= 3,
		}, drawn)
	}
	for _, a := range f.Arcs {
		p := toScreen(a.Pivot, camera)
		drawn = r.drawLabel(Label{
			Text:      a.Label,
			ScreenPos: rl.Vector2{X: p.X, Y: p.Y + arcRadius},
			BaseColor: a.Color,
		}, drawn)
	}
	for _, m := range f.Markers {
		if m.Label == "" {
			continue
		}
		p := toScreen(m.Position, camera)
		rl.DrawTextEx(r.Font, m.Label, rl.Vector2{X: p.X + m.Radius + 2, Y: p.Y - r.FontSize}, r.FontSize, 1, m.Color)
	}
}

func (r *Renderer) drawLabel(l Label, drawn []rl.Rectangle) []rl.Rectangle {
	if overlapsAny(l.Bounds(r.Font, r.FontSize, labelPadding), drawn) {
		return drawn
	}
	return append(drawn, l.Draw(r.Font, r.FontSize, labelPadding))
}

func (r *Renderer) drawArc(a Arc, camera rl.Camera3D) {
	pivot := toScreen(a.Pivot, camera)
	from := toScreen(a.From, camera)
	to := toScreen(a.To, camera)

	start, sweep := arcSweep(pivot, from, to)
	prev := arcPoint(pivot, start)
	for i := 1; i <= arcSteps; i++ {
		next := arcPoint(pivot, start+sweep*float32(i)/arcSteps)
		rl.DrawLineEx(prev, next, lineThickness, a.Color)
		prev = next
	}
}

// arcSweep returns the start angle and the signed sweep of the smaller
// arc from the pivot→from ray to the pivot→to ray
func arcSweep(pivot, from, to rl.Vector2) (float32, float32) {
	start := math32.Atan2(from.Y-pivot.Y, from.X-pivot.X)
	end := math32.Atan2(to.Y-pivot.Y, to.X-pivot.X)
	sweep := end - start
	for sweep > math32.Pi {
		sweep -= 2 * math32.Pi
	}
	for sweep < -math32.Pi {
		sweep += 2 * math32.Pi
	}
	return start, sweep
}

func arcPoint(pivot rl.Vector2, angle float32) rl.Vector2 {
	sin, cos := math32.Sincos(angle)
	return rl.Vector2{X: pivot.X + cos*arcRadius, Y: pivot.Y + sin*arcRadius}
}

// offsetMidpoint returns the midpoint of a screen segment pushed off the
// line along its normal
func offsetMidpoint(a, b rl.Vector2, offset float32) rl.Vector2 {
	mid := rl.Vector2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math32.Hypot(dx, dy)
	if l == 0 {
		return rl.Vector2{X: mid.X, Y: mid.Y - offset}
	}
	nx, ny := -dy/l, dx/l
	// keep labels above the line
	if ny > 0 {
		nx, ny = -nx, -ny
	}
	return rl.Vector2{X: mid.X + nx*offset, Y: mid.Y + ny*offset}
}
