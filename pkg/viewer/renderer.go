// Package viewer draws layouts as top-down plan images.
package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Options controls plan rendering
type Options struct {
	Background color.RGBA
	GridColor  color.RGBA
	// GridStep is the grid spacing in metres, 0 disables the grid
	GridStep float64
	// FenceWidth is the drawn thickness of fences in metres
	FenceWidth float64
	// ModelRadius is the drawn radius of equipment markers in metres
	ModelRadius float64
	ModelColor  color.RGBA
	Highlight   color.RGBA
	// Selected is drawn with the highlight colour
	Selected string
}

// DefaultOptions returns the plan style used by the quote viewer
func DefaultOptions() Options {
	return Options{
		Background:  color.RGBA{R: 245, G: 245, B: 240, A: 255},
		GridColor:   color.RGBA{R: 220, G: 220, B: 215, A: 255},
		GridStep:    1,
		FenceWidth:  0.08,
		ModelRadius: 0.5,
		ModelColor:  color.RGBA{R: 40, G: 90, B: 170, A: 255},
		Highlight:   color.RGBA{R: 255, G: 160, B: 0, A: 255},
	}
}

// Footprint returns the ground bounds of all floors, fences and model
// positions
func Footprint(items []scene.Entity) geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	for _, e := range items {
		if e.Kind == scene.KindModel {
			box.Extend(e.Transform.Position)
			continue
		}
		for _, p := range e.WorldPoints() {
			box.Extend(p)
		}
	}
	return box
}

// Render draws items into a new image. Floors are drawn first, then fences,
// then models.
func Render(items []scene.Entity, view View, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, view.Width, view.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)
	if opts.GridStep > 0 {
		drawGrid(img, view, opts.GridStep, opts.GridColor)
	}

	for _, kind := range []scene.Kind{scene.KindFloor, scene.KindFence, scene.KindModel} {
		for _, e := range items {
			if e.Kind != kind {
				continue
			}
			selected := e.ID == opts.Selected && opts.Selected != ""
			switch kind {
			case scene.KindFloor:
				drawFloor(img, view, e, selected, opts)
			case scene.KindFence:
				drawFence(img, view, e, selected, opts)
			case scene.KindModel:
				col := opts.ModelColor
				if selected {
					col = opts.Highlight
				}
				x, y := view.Project(e.Transform.Position)
				fillDisc(img, x, y, math.Max(3, opts.ModelRadius*view.Scale), col)
			}
		}
	}
	return img
}

func drawGrid(img *image.RGBA, view View, step float64, col color.RGBA) {
	if step*view.Scale < 4 {
		return
	}
	topLeft := view.Unproject(0, 0)
	bottomRight := view.Unproject(float64(view.Width), float64(view.Height))
	for x := math.Ceil(topLeft.X/step) * step; x <= bottomRight.X; x += step {
		px, _ := view.Project(geometry.NewVector3(x, 0, 0))
		drawLine(img, int(px), 0, int(px), view.Height-1, col)
	}
	for z := math.Ceil(topLeft.Y/step) * step; z <= bottomRight.Y; z += step {
		_, py := view.Project(geometry.NewVector3(0, 0, z))
		drawLine(img, 0, int(py), view.Width-1, int(py), col)
	}
}

func drawFloor(img *image.RGBA, view View, e scene.Entity, selected bool, opts Options) {
	world := e.WorldPoints()
	ground := make([]geometry.Vector2, len(world))
	for i, p := range world {
		ground[i] = p.Ground()
	}
	col := scene.MaterialGrass.Color()
	if e.Floor != nil && e.Floor.Material != "" {
		col = e.Floor.Material.Color()
	}
	idx := geometry.Triangulate(ground)
	for i := 0; i+2 < len(idx); i += 3 {
		ax, ay := view.Project(world[idx[i]])
		bx, by := view.Project(world[idx[i+1]])
		cx, cy := view.Project(world[idx[i+2]])
		fillTriangle(img, ax, ay, bx, by, cx, cy, col)
	}
	if !selected {
		return
	}
	for i := range world {
		ax, ay := view.Project(world[i])
		bx, by := view.Project(world[(i+1)%len(world)])
		drawThickLine(img, ax, ay, bx, by, 3, opts.Highlight)
	}
}

func drawFence(img *image.RGBA, view View, e scene.Entity, selected bool, opts Options) {
	col := color.RGBA{R: 107, G: 79, B: 58, A: 255}
	if e.Fence != nil {
		col = e.Fence.PostColor.RGBA()
	}
	if selected {
		col = opts.Highlight
	}
	width := math.Max(2, opts.FenceWidth*view.Scale)
	world := e.WorldPoints()
	for i := 0; i+1 < len(world); i++ {
		ax, ay := view.Project(world[i])
		bx, by := view.Project(world[i+1])
		drawThickLine(img, ax, ay, bx, by, width, col)
	}
}

// Hit returns the id of the topmost entity under a pixel, or "" if none.
// Models win over fences, fences over floors.
func Hit(items []scene.Entity, view View, x, y float64, opts Options) string {
	p := view.Unproject(x, y)
	tolerance := math.Max(opts.FenceWidth, 4/view.Scale)
	for _, kind := range []scene.Kind{scene.KindModel, scene.KindFence, scene.KindFloor} {
		for i := len(items) - 1; i >= 0; i-- {
			e := items[i]
			if e.Kind != kind {
				continue
			}
			switch kind {
			case scene.KindModel:
				if e.Transform.Position.Ground().Distance(p) <= math.Max(opts.ModelRadius, 3/view.Scale) {
					return e.ID
				}
			case scene.KindFence:
				world := e.WorldPoints()
				for j := 0; j+1 < len(world); j++ {
					if distanceToSegment(p, world[j].Ground(), world[j+1].Ground()) <= tolerance {
						return e.ID
					}
				}
			case scene.KindFloor:
				world := e.WorldPoints()
				ground := make([]geometry.Vector2, len(world))
				for j, w := range world {
					ground[j] = w.Ground()
				}
				if pointInPolygon(p, ground) {
					return e.ID
				}
			}
		}
	}
	return ""
}

func distanceToSegment(p, a, b geometry.Vector2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Distance(a.Add(ab.Mul(t)))
}

// pointInPolygon uses the even-odd rule
func pointInPolygon(p geometry.Vector2, poly []geometry.Vector2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
