// Package export turns a scene into a single STL mesh in world space.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/philipparndt/yardplan/pkg/stl"
)

// Templates returns model templates by asset URL
type Templates interface {
	Load(ctx context.Context, url string) (*stl.Model, error)
}

// PresetSource resolves fence presets
type PresetSource interface {
	Preset(id string) fence.Preset
}

// Exporter converts entities to triangles
type Exporter struct {
	Floors    *floor.Builder
	Fences    *fence.Builder
	Presets   PresetSource
	Templates Templates
}

// Stats counts what went into an export
type Stats struct {
	Floors  int
	Fences  int
	Models  int
	Skipped int
}

// unit cube corners, bit 0 = x, bit 1 = y, bit 2 = z
var cubeFaces = [6][4]int{
	{0, 2, 6, 4}, {1, 3, 7, 5},
	{0, 1, 5, 4}, {2, 3, 7, 6},
	{0, 1, 3, 2}, {4, 5, 7, 6},
}

// Scene builds one model holding every entity in world space. Models whose
// template cannot be loaded are skipped and counted; Templates may be nil
// to leave models out.
func (x *Exporter) Scene(ctx context.Context, items []scene.Entity) (*stl.Model, Stats, error) {
	out := stl.NewModel("yardplan")
	var st Stats
	for _, e := range items {
		m := e.Transform.Matrix()
		switch e.Kind {
		case scene.KindFloor:
			spec := scene.FloorSpec{}
			if e.Floor != nil {
				spec = *e.Floor
			}
			mesh := x.Floors.Build(e.Points, spec)
			if mesh.IsEmpty() {
				st.Skipped++
				continue
			}
			addMesh(out, &mesh, m)
			st.Floors++
		case scene.KindFence:
			cfg := scene.FenceConfig{}
			if e.Fence != nil {
				cfg = e.Fence.Clone()
			}
			asm := x.Fences.Build(e.Points, x.Presets.Preset(cfg.Preset), cfg)
			for _, b := range asm.Batches() {
				for _, inst := range b.Instances {
					addCuboid(out, m.Mul(inst.Matrix))
				}
			}
			st.Fences++
		case scene.KindModel:
			if x.Templates == nil {
				st.Skipped++
				continue
			}
			tpl, err := x.Templates.Load(ctx, e.AssetURL)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil, st, err
				}
				st.Skipped++
				continue
			}
			for _, t := range tpl.Triangles {
				addTriangle(out, m.TransformPoint(t.V1), m.TransformPoint(t.V2), m.TransformPoint(t.V3))
			}
			st.Models++
		}
	}
	return out, st, nil
}

// Write exports the scene as binary STL
func (x *Exporter) Write(ctx context.Context, w io.Writer, items []scene.Entity) (Stats, error) {
	model, st, err := x.Scene(ctx, items)
	if err != nil {
		return st, err
	}
	if err := stl.WriteBinary(w, model); err != nil {
		return st, fmt.Errorf("failed to write STL: %w", err)
	}
	return st, nil
}

func addMesh(out *stl.Model, mesh *floor.Mesh, m geometry.Matrix4) {
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := m.TransformPoint(mesh.Vertices[mesh.Indices[i]])
		b := m.TransformPoint(mesh.Vertices[mesh.Indices[i+1]])
		c := m.TransformPoint(mesh.Vertices[mesh.Indices[i+2]])
		addTriangle(out, a, b, c)
	}
}

// addCuboid adds the unit cube centred on the origin transformed by m,
// with every face oriented away from its centre
func addCuboid(out *stl.Model, m geometry.Matrix4) {
	var c [8]geometry.Vector3
	for i := range c {
		p := geometry.Vector3{X: -0.5, Y: -0.5, Z: -0.5}
		if i&1 != 0 {
			p.X = 0.5
		}
		if i&2 != 0 {
			p.Y = 0.5
		}
		if i&4 != 0 {
			p.Z = 0.5
		}
		c[i] = m.TransformPoint(p)
	}
	center := m.TransformPoint(geometry.Vector3{})
	for _, f := range cubeFaces {
		for _, tri := range [2][3]int{{f[0], f[1], f[2]}, {f[0], f[2], f[3]}} {
			a, b, d := c[tri[0]], c[tri[1]], c[tri[2]]
			n := b.Sub(a).Cross(d.Sub(a))
			centroid := a.Add(b).Add(d).Mul(1.0 / 3)
			if n.Dot(centroid.Sub(center)) < 0 {
				b, d = d, b
			}
			addTriangle(out, a, b, d)
		}
	}
}

func addTriangle(out *stl.Model, a, b, c geometry.Vector3) {
	t := geometry.NewTriangle(geometry.Vector3{}, a, b, c)
	t.Normal = t.CalculateNormal()
	out.AddTriangle(t)
}
