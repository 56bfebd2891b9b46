package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/philipparndt/yardplan/pkg/stl"
)

type templates map[string]*stl.Model

func (t templates) Load(_ context.Context, url string) (*stl.Model, error) {
	m, ok := t[url]
	if !ok {
		return nil, errors.New("missing")
	}
	return m.Clone(), nil
}

func newExporter(t templates) *Exporter {
	return &Exporter{
		Floors:    floor.NewBuilder(0.05),
		Fences:    fence.NewBuilder(2),
		Presets:   catalog.Default(),
		Templates: t,
	}
}

func square() []geometry.Vector2 {
	return []geometry.Vector2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
}

func TestExportFloorIsTranslated(t *testing.T) {
	e := scene.NewFloor("grass", "Grass", geometry.NewVector3(10, 0, 5), square(), scene.FloorSpec{})
	model, st, err := newExporter(nil).Scene(context.Background(), []scene.Entity{e})
	require.NoError(t, err)

	assert.Equal(t, 1, st.Floors)
	// two caps of two triangles plus four walls
	assert.Equal(t, 12, model.TriangleCount())
	b := model.BoundingBox()
	assert.InDelta(t, 9, b.Min.X, 1e-9)
	assert.InDelta(t, 11, b.Max.X, 1e-9)
	assert.InDelta(t, 4, b.Min.Z, 1e-9)
}

func TestExportFenceCuboids(t *testing.T) {
	e := scene.NewFence("fence", "Fence", geometry.Vector3{}, []geometry.Vector2{{}, {X: 4}}, scene.FenceConfig{Preset: "panel"})
	model, st, err := newExporter(nil).Scene(context.Background(), []scene.Entity{e})
	require.NoError(t, err)

	asm := fence.NewBuilder(2).Build(e.Points, fence.DefaultPresets().Get("panel"), *e.Fence)
	assert.Equal(t, 1, st.Fences)
	assert.Equal(t, asm.InstanceCount()*12, model.TriangleCount())
}

func TestCuboidFacesPointOutwards(t *testing.T) {
	out := stl.NewModel("")
	addCuboid(out, geometry.Translation(geometry.NewVector3(3, 0, 0)))
	require.Equal(t, 12, out.TriangleCount())
	center := geometry.NewVector3(3, 0, 0)
	for _, tri := range out.Triangles {
		c := tri.V1.Add(tri.V2).Add(tri.V3).Mul(1.0 / 3)
		assert.Greater(t, tri.Normal.Dot(c.Sub(center)), 0.0)
	}
}

func TestExportModels(t *testing.T) {
	tpl := stl.NewModel("slide")
	tpl.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, geometry.Vector3{}, geometry.Vector3{X: 1}, geometry.Vector3{Z: 1}))

	placed := scene.NewModel("slide", "Slide", "slide.stl", 100, geometry.NewVector3(0, 0, 7))
	broken := scene.NewModel("broken", "Broken", "missing.stl", 100, geometry.Vector3{})

	model, st, err := newExporter(templates{"slide.stl": tpl}).Scene(context.Background(), []scene.Entity{placed, broken})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Models)
	assert.Equal(t, 1, st.Skipped)
	require.Equal(t, 1, model.TriangleCount())
	assert.InDelta(t, 7, model.Triangles[0].V1.Z, 1e-9)
}

func TestWriteRoundTrip(t *testing.T) {
	e := scene.NewFloor("grass", "Grass", geometry.Vector3{}, square(), scene.FloorSpec{})
	var buf bytes.Buffer
	_, err := newExporter(nil).Write(context.Background(), &buf, []scene.Entity{e})
	require.NoError(t, err)

	parsed, err := stl.ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 12, parsed.TriangleCount())
}
