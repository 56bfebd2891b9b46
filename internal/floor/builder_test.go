package floor

import (
	"math"
	"testing"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lShape() []geometry.Vector2 {
	return []geometry.Vector2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0, Y: 3}}
}

func faceNormal(m Mesh, tri int) geometry.Vector3 {
	a := m.Vertices[m.Indices[tri*3]]
	b := m.Vertices[m.Indices[tri*3+1]]
	c := m.Vertices[m.Indices[tri*3+2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func TestBuildConcaveSlab(t *testing.T) {
	mesh := NewBuilder(0.1).Build(lShape(), scene.FloorSpec{Material: scene.MaterialRubber})
	n := len(lShape())

	// caps have n-2 triangles each, walls two per edge
	assert.Equal(t, 2*(n-2)+2*n, mesh.TriangleCount())
	assert.True(t, mesh.ReceiveShadow)
	assert.False(t, mesh.CastShadow)
	assert.Equal(t, scene.MaterialRubber.Color(), mesh.Color)

	box := mesh.Bounds()
	assert.InDelta(t, 0.1, box.Max.Y, 1e-12)
	assert.InDelta(t, 0, box.Min.Y, 1e-12)

	// every face normal agrees with its vertex normal
	for i := 0; i < mesh.TriangleCount(); i++ {
		fn := faceNormal(mesh, i)
		vn := mesh.Normals[mesh.Indices[i*3]]
		assert.InDelta(t, 1, fn.Dot(vn), 1e-9, "triangle %d", i)
	}
}

func TestWindingDoesNotMatter(t *testing.T) {
	b := NewBuilder(0)
	ccw := b.Build(lShape(), scene.FloorSpec{})
	cw := b.Build(geometry.Reverse(lShape()), scene.FloorSpec{})
	assert.Equal(t, ccw.TriangleCount(), cw.TriangleCount())
	for i := 0; i < cw.TriangleCount(); i++ {
		vn := cw.Normals[cw.Indices[i*3]]
		assert.InDelta(t, 1, faceNormal(cw, i).Dot(vn), 1e-9)
	}
}

func TestTextureMapping(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	spec := scene.FloorSpec{}
	spec.SetTexture("https://example.com/pavers.png", 0.5, 90)

	mesh := NewBuilder(0.05).Build(points, spec)
	require.False(t, mesh.IsEmpty())
	assert.Equal(t, "https://example.com/pavers.png", mesh.TextureURL)

	// (2,0) rotated by 90° is (0,2); divided by 0.5 gives (0,4)
	uv := mesh.UVs[1]
	assert.InDelta(t, 0, uv.X, 1e-9)
	assert.InDelta(t, 4, uv.Y, 1e-9)
}

func TestNonPositiveTextureScaleIsOne(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}}
	mesh := NewBuilder(0.05).Build(points, scene.FloorSpec{TextureScale: 0})
	assert.InDelta(t, 3, mesh.UVs[1].X, 1e-9)
}

func TestDegenerateOutline(t *testing.T) {
	b := NewBuilder(0.05)
	collinear := []geometry.Vector2{{X: 0}, {X: 1}, {X: 2}}
	flat := b.Build(collinear, scene.FloorSpec{})
	assert.True(t, flat.IsEmpty())

	nan := []geometry.Vector2{{X: 0}, {X: math.NaN()}, {X: 1, Y: 1}}
	mesh := b.Build(nan, scene.FloorSpec{})
	assert.True(t, mesh.IsEmpty())
	for _, v := range mesh.Vertices {
		assert.True(t, v.IsFinite())
	}
}
