package viewer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

func testScene() []scene.Entity {
	floor := scene.NewFloor("floor", "Lawn", geometry.NewVector3(5, 0, 5),
		[]geometry.Vector2{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}},
		scene.FloorSpec{Material: scene.MaterialSand})
	floor.ID = "floor"
	fence := scene.NewFence("fence", "Fence", geometry.NewVector3(5, 0, 0),
		[]geometry.Vector2{{X: -5, Y: 0}, {X: 5, Y: 0}},
		scene.FenceConfig{Preset: "classic", PostColor: "#ff0000"})
	fence.ID = "fence"
	model := scene.NewModel("swing", "Swing", "swing.stl", 900, geometry.NewVector3(5, 0, 5))
	model.ID = "swing"
	return []scene.Entity{floor, fence, model}
}

func TestNewViewFitsFootprint(t *testing.T) {
	box := Footprint(testScene())
	v := NewView(box, 220, 120, 10)

	assert.InDelta(t, 10.0, v.Scale, 1e-9) // limited by height: 100px / 10m
	x, y := v.Project(geometry.NewVector3(0, 0, 0))
	assert.InDelta(t, 60.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)

	p := v.Unproject(x, y)
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
}

func TestNewViewEmptyBox(t *testing.T) {
	v := NewView(geometry.NewBoundingBox(), 100, 100, 10)
	assert.Equal(t, 100.0, v.Scale)
	x, y := v.Project(geometry.Vector3{})
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 50.0, y)
}

func TestZoomClamps(t *testing.T) {
	v := View{Scale: 10}
	assert.Equal(t, 20.0, v.Zoom(2).Scale)
	assert.Equal(t, 1.0, v.Zoom(0.01).Scale)
}

func TestRenderLayers(t *testing.T) {
	items := testScene()
	v := NewView(Footprint(items), 120, 120, 10)
	opts := DefaultOptions()
	opts.GridStep = 0
	img := Render(items, v, opts)

	require.Equal(t, image.Rect(0, 0, 120, 120), img.Bounds())
	// floor interior away from the fence and model
	assert.Equal(t, scene.MaterialSand.Color(), img.RGBAAt(30, 80))
	// fence along z = 0 at the top edge of the floor
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(60, 10))
	// model marker at the floor center
	assert.Equal(t, opts.ModelColor, img.RGBAAt(60, 60))
	// outside everything
	assert.Equal(t, opts.Background, img.RGBAAt(2, 2))
}

func TestRenderSelectedModel(t *testing.T) {
	items := testScene()
	v := NewView(Footprint(items), 120, 120, 10)
	opts := DefaultOptions()
	opts.Selected = "swing"
	img := Render(items, v, opts)
	assert.Equal(t, opts.Highlight, img.RGBAAt(60, 60))
}

func TestHit(t *testing.T) {
	items := testScene()
	v := NewView(Footprint(items), 120, 120, 10)
	opts := DefaultOptions()

	assert.Equal(t, "swing", Hit(items, v, 60, 60, opts))
	assert.Equal(t, "fence", Hit(items, v, 40, 10, opts))
	assert.Equal(t, "floor", Hit(items, v, 30, 80, opts))
	assert.Equal(t, "", Hit(items, v, 2, 2, opts))
}

func TestFillTriangleClipsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{R: 255, A: 255}
	fillTriangle(img, -5, -5, 20, -5, -5, 20, red)
	assert.Equal(t, red, img.RGBAAt(0, 0))
	assert.Equal(t, red, img.RGBAAt(5, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(9, 9))
}

func TestDrawThickLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := color.RGBA{G: 255, A: 255}
	drawThickLine(img, 2, 10, 18, 10, 4, c)
	assert.Equal(t, c, img.RGBAAt(10, 9))
	assert.Equal(t, c, img.RGBAAt(10, 11))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(10, 14))
}

func TestPointInPolygon(t *testing.T) {
	square := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	assert.True(t, pointInPolygon(geometry.NewVector2(1, 1), square))
	assert.False(t, pointInPolygon(geometry.NewVector2(3, 1), square))
}

func TestDistanceToSegment(t *testing.T) {
	a, b := geometry.NewVector2(0, 0), geometry.NewVector2(4, 0)
	assert.InDelta(t, 2.0, distanceToSegment(geometry.NewVector2(2, 2), a, b), 1e-9)
	assert.InDelta(t, math.Sqrt2, distanceToSegment(geometry.NewVector2(5, 1), a, b), 1e-9)
	assert.InDelta(t, 1.0, distanceToSegment(geometry.NewVector2(0, 1), a, a), 1e-9)
}
