package fence

import (
	"image/color"
	"math"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Part identifies one instanced batch of a fence
type Part string

const (
	PartPost Part = "post"
	PartRail Part = "rail"
	PartSlat Part = "slat"
)

const (
	railGap      = 0.02
	minSegment   = 1e-6
	panelSideGap = 0.01
)

// Instance is one stamped copy of a part's base geometry
type Instance struct {
	Matrix geometry.Matrix4
	Color  color.RGBA
}

// Batch holds every instance of one part type; it is drawn with a single
// instanced draw call.
type Batch struct {
	Part      Part
	Shape     Shape
	Instances []Instance
}

// Assembly is the generated geometry of a whole fence in entity-local space
type Assembly struct {
	Posts Batch
	Rails Batch
	Slats Batch
	// Skipped counts instances and segments dropped as degenerate
	Skipped int
}

// Batches returns the non-empty batches in draw order
func (a *Assembly) Batches() []*Batch {
	out := make([]*Batch, 0, 3)
	for _, b := range []*Batch{&a.Posts, &a.Rails, &a.Slats} {
		if len(b.Instances) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// InstanceCount returns the total number of instances
func (a *Assembly) InstanceCount() int {
	return len(a.Posts.Instances) + len(a.Rails.Instances) + len(a.Slats.Instances)
}

// Group is a set of world matrices that share one base shape and colour and
// can go to the GPU in a single instanced draw
type Group struct {
	Shape    Shape
	Color    color.RGBA
	Matrices []geometry.Matrix4
}

// Groups places every instance with the entity matrix and buckets the
// result by shape and colour, in order of first appearance
func (a *Assembly) Groups(world geometry.Matrix4) []Group {
	type key struct {
		shape Shape
		color color.RGBA
	}
	index := make(map[key]int)
	var out []Group
	for _, b := range a.Batches() {
		for _, inst := range b.Instances {
			k := key{b.Shape, inst.Color}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, Group{Shape: b.Shape, Color: inst.Color})
			}
			out[i].Matrices = append(out[i].Matrices, world.Mul(inst.Matrix))
		}
	}
	return out
}

// Builder generates fence assemblies
type Builder struct {
	// ModuleLength is used when the preset does not set its own
	ModuleLength float64
}

// NewBuilder returns a builder using moduleLength (DefaultModuleLength if <= 0)
func NewBuilder(moduleLength float64) *Builder {
	if moduleLength <= 0 {
		moduleLength = DefaultModuleLength
	}
	return &Builder{ModuleLength: moduleLength}
}

// Build turns an open local-space polyline into instanced posts, rails and
// slats. Each segment is split into ceil(length/moduleLength) modules so no
// single piece exceeds a manufacturable span.
func (b *Builder) Build(points []geometry.Vector2, preset Preset, cfg scene.FenceConfig) Assembly {
	railShape := preset.RailShape
	if railShape == "" {
		railShape = ShapeBox
	}
	postShape := preset.PostShape
	if postShape == "" {
		postShape = ShapeBox
	}
	asm := Assembly{
		Posts: Batch{Part: PartPost, Shape: postShape},
		Rails: Batch{Part: PartRail, Shape: railShape},
		Slats: Batch{Part: PartSlat, Shape: ShapeBox},
	}
	if len(points) < 2 {
		return asm
	}

	moduleLength := preset.ModuleLength
	if moduleLength <= 0 {
		moduleLength = b.ModuleLength
	}
	structure := cfg.PostColor.RGBA()

	lastAngle := 0.0
	for i := 0; i+1 < len(points); i++ {
		a, c := points[i], points[i+1]
		seg := c.Sub(a)
		length := seg.Length()
		if !a.IsFinite() || !c.IsFinite() || length < minSegment || math.IsNaN(length) {
			asm.Skipped++
			continue
		}
		dir := seg.Mul(1 / length)
		angle := math.Atan2(-dir.Y, dir.X)
		lastAngle = angle

		asm.add(&asm.Posts, part(a, preset.Height/2, angle, geometry.NewVector3(preset.PostWidth, preset.Height, preset.PostWidth)), structure)

		modules := int(math.Ceil(length / moduleLength))
		span := length / float64(modules)
		for m := 0; m < modules; m++ {
			start := a.Add(dir.Mul(float64(m) * span))
			mid := start.Add(dir.Mul(span / 2))

			if preset.Rails {
				railSize := geometry.NewVector3(span-railGap, preset.RailHeight, preset.RailDepth)
				top := preset.Height - preset.RailMargin
				asm.add(&asm.Rails, part(mid, top, angle, railSize), structure)
				asm.add(&asm.Rails, part(mid, preset.RailMargin, angle, railSize), structure)
			}
			b.addSlats(&asm, preset, cfg, start, dir, angle, span, moduleLength)
		}
	}

	// closing post at the end of the path
	end := points[len(points)-1]
	if end.IsFinite() && len(asm.Posts.Instances) > 0 {
		asm.add(&asm.Posts, part(end, preset.Height/2, lastAngle, geometry.NewVector3(preset.PostWidth, preset.Height, preset.PostWidth)), structure)
	}
	return asm
}

func (b *Builder) addSlats(asm *Assembly, preset Preset, cfg scene.FenceConfig, start, dir geometry.Vector2, angle, span, moduleLength float64) {
	slatHeight := preset.Height - 2*preset.SlatClearance
	if slatHeight <= 0 {
		slatHeight = preset.Height
	}
	y := preset.Height / 2

	if preset.SolidPanel {
		mid := start.Add(dir.Mul(span / 2))
		size := geometry.NewVector3(span-2*panelSideGap, slatHeight, preset.SlatThickness)
		asm.add(&asm.Slats, part(mid, y, angle, size), cfg.SlatColor(0).RGBA())
		return
	}

	count := SlatCount(preset, moduleLength)
	pitch := span / float64(count)
	size := geometry.NewVector3(preset.SlatWidth, slatHeight, preset.SlatThickness)
	for i := 0; i < count; i++ {
		center := start.Add(dir.Mul((float64(i) + 0.5) * pitch))
		asm.add(&asm.Slats, part(center, y, angle, size), cfg.SlatColor(i).RGBA())
	}
}

// SlatCount returns the number of discrete slats per module
func SlatCount(preset Preset, moduleLength float64) int {
	if preset.FixedSlatCount > 0 {
		return preset.FixedSlatCount
	}
	pitch := preset.SlatWidth + preset.SlatGap
	if pitch <= 0 {
		return 1
	}
	n := int(math.Floor(moduleLength / pitch))
	if n < 1 {
		return 1
	}
	return n
}

// part places unit geometry centered at ground point p, lifted to y,
// turned to face along the segment and scaled to size
func part(p geometry.Vector2, y, angle float64, size geometry.Vector3) geometry.Matrix4 {
	return geometry.Translation(p.Lift(y)).Mul(geometry.RotationY(angle)).Mul(geometry.Scaling(size))
}

func (a *Assembly) add(batch *Batch, m geometry.Matrix4, c color.RGBA) {
	if !m.IsFinite() {
		a.Skipped++
		return
	}
	batch.Instances = append(batch.Instances, Instance{Matrix: m, Color: c})
}
