package viewer

import (
	"math"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

// View maps the ground plane to image pixels from straight above. World X
// grows to the right and world Z grows downwards.
type View struct {
	Center geometry.Vector2
	// Scale is the number of pixels per metre
	Scale  float64
	Width  int
	Height int
}

// NewView fits bbox into a width x height image, leaving margin pixels on
// every side. An empty box centers the origin at one pixel per centimetre.
func NewView(bbox geometry.BoundingBox, width, height, margin int) View {
	v := View{Width: width, Height: height, Scale: 100}
	if bbox.IsEmpty() {
		return v
	}
	c := bbox.Center()
	v.Center = geometry.NewVector2(c.X, c.Z)

	size := bbox.Size()
	w := float64(width - 2*margin)
	h := float64(height - 2*margin)
	if w <= 0 || h <= 0 {
		return v
	}
	sx, sz := math.Inf(1), math.Inf(1)
	if size.X > 0 {
		sx = w / size.X
	}
	if size.Z > 0 {
		sz = h / size.Z
	}
	if s := math.Min(sx, sz); !math.IsInf(s, 1) {
		v.Scale = s
	}
	return v
}

// Project returns the pixel position of a world point
func (v View) Project(p geometry.Vector3) (float64, float64) {
	x := (p.X-v.Center.X)*v.Scale + float64(v.Width)/2
	y := (p.Z-v.Center.Y)*v.Scale + float64(v.Height)/2
	return x, y
}

// Unproject returns the ground point under a pixel
func (v View) Unproject(x, y float64) geometry.Vector2 {
	return geometry.NewVector2(
		(x-float64(v.Width)/2)/v.Scale+v.Center.X,
		(y-float64(v.Height)/2)/v.Scale+v.Center.Y,
	)
}

// Zoom scales the view around its center
func (v View) Zoom(factor float64) View {
	v.Scale *= factor
	if v.Scale < 1 {
		v.Scale = 1
	}
	return v
}
