// Package floor builds extruded ground-surface slabs from closed outlines.
package floor

import (
	"image/color"
	"math"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// DefaultThickness is the slab height used when none is configured
const DefaultThickness = 0.05

// Mesh is an indexed triangle mesh in entity-local space. Faces are wound
// counter-clockwise when seen from outside.
type Mesh struct {
	Vertices []geometry.Vector3
	Normals  []geometry.Vector3
	UVs      []geometry.Vector2
	Indices  []int

	Color      color.RGBA
	TextureURL string

	CastShadow    bool
	ReceiveShadow bool
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Builder extrudes floor outlines
type Builder struct {
	Thickness float64
}

// NewBuilder returns a builder producing slabs of the given thickness
func NewBuilder(thickness float64) *Builder {
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	return &Builder{Thickness: thickness}
}

// Build extrudes the closed outline into a slab resting on y=0. Texture
// coordinates are the local point rotated by spec.TextureRotation (degrees)
// and divided by spec.TextureScale, so the pattern tiles in world units
// regardless of where the outline lies. Degenerate outlines produce an
// empty mesh.
func (b *Builder) Build(points []geometry.Vector2, spec scene.FloorSpec) Mesh {
	mesh := Mesh{
		Color:         spec.Material.Color(),
		TextureURL:    spec.TextureURL,
		ReceiveShadow: true,
	}
	if spec.TextureURL != "" {
		mesh.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	tris := geometry.Triangulate(points)
	if tris == nil {
		return mesh
	}
	outline := points
	if geometry.SignedArea(points) < 0 {
		outline = geometry.Reverse(points)
		tris = geometry.Triangulate(outline)
	}

	scale := spec.TextureScale
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	rot := spec.TextureRotation * math.Pi / 180
	uv := func(p geometry.Vector2) geometry.Vector2 {
		return p.Rotate(rot).Mul(1 / scale)
	}

	h := b.Thickness
	up := geometry.NewVector3(0, 1, 0)
	down := geometry.NewVector3(0, -1, 0)

	// top cap
	base := len(mesh.Vertices)
	for _, p := range outline {
		mesh.addVertex(p.Lift(h), up, uv(p))
	}
	for i := 0; i+2 < len(tris); i += 3 {
		mesh.Indices = append(mesh.Indices, base+tris[i], base+tris[i+2], base+tris[i+1])
	}

	// bottom cap
	base = len(mesh.Vertices)
	for _, p := range outline {
		mesh.addVertex(p.Lift(0), down, uv(p))
	}
	for i := 0; i+2 < len(tris); i += 3 {
		mesh.Indices = append(mesh.Indices, base+tris[i], base+tris[i+1], base+tris[i+2])
	}

	// side walls, one quad per edge so each wall has a flat normal
	run := 0.0
	for i := range outline {
		a := outline[i]
		c := outline[(i+1)%len(outline)]
		edge := c.Sub(a)
		length := edge.Length()
		if length == 0 {
			continue
		}
		n := geometry.NewVector3(edge.Y/length, 0, -edge.X/length)
		u0, u1 := run/scale, (run+length)/scale
		v1 := h / scale
		run += length

		base = len(mesh.Vertices)
		mesh.addVertex(a.Lift(0), n, geometry.NewVector2(u0, 0))
		mesh.addVertex(c.Lift(0), n, geometry.NewVector2(u1, 0))
		mesh.addVertex(c.Lift(h), n, geometry.NewVector2(u1, v1))
		mesh.addVertex(a.Lift(h), n, geometry.NewVector2(u0, v1))
		mesh.Indices = append(mesh.Indices,
			base, base+2, base+1,
			base, base+3, base+2,
		)
	}
	return mesh
}

func (m *Mesh) addVertex(p, n geometry.Vector3, uv geometry.Vector2) {
	m.Vertices = append(m.Vertices, p)
	m.Normals = append(m.Normals, n)
	m.UVs = append(m.UVs, uv)
}

// Bounds returns the local bounding box of the mesh
func (m *Mesh) Bounds() geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		box.Extend(v)
	}
	return box
}
