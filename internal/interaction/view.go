package interaction

import (
	"context"
	"math"

	"github.com/philipparndt/yardplan/internal/assets"
	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/philipparndt/yardplan/pkg/stl"
)

// Node is the materialized geometry of one entity
type Node struct {
	Entity scene.Entity
	Handle scene.Handle
	// Display is the transform drawn this frame; it differs from
	// Entity.Transform while dragging or animating
	Display geometry.Transform

	Floor *floor.Mesh
	Fence *fence.Assembly
	// Model is nil until the template has loaded
	Model *stl.Model

	// local pick and collision shapes
	pick     []geometry.BoundingBox
	collide  []geometry.BoundingBox
	modelURL string
}

// WorldBounds returns the union of the node's pick boxes in world space
func (n *Node) WorldBounds() geometry.BoundingBox {
	return union(n.pick, n.Display.Matrix())
}

// Colliders returns the world footprints used for collision tests
func (n *Node) Colliders() []geometry.BoundingBox {
	m := n.Display.Matrix()
	out := make([]geometry.BoundingBox, len(n.collide))
	for i, b := range n.collide {
		out[i] = b.Transform(m)
	}
	return out
}

func union(boxes []geometry.BoundingBox, m geometry.Matrix4) geometry.BoundingBox {
	out := geometry.NewBoundingBox()
	for _, b := range boxes {
		w := b.Transform(m)
		if w.IsEmpty() {
			continue
		}
		out.Extend(w.Min)
		out.Extend(w.Max)
	}
	return out
}

// PresetSource resolves fence presets
type PresetSource interface {
	Preset(id string) fence.Preset
}

type vertexHandle struct {
	handle scene.Handle
	index  int
	center geometry.Vector3
}

// View keeps the built geometry of every entity in sync with the store and
// answers pick queries through the typed registry
type View struct {
	floors   *floor.Builder
	fences   *fence.Builder
	presets  PresetSource
	loader   *assets.Loader
	registry *scene.Registry

	nodes     map[string]*Node
	order     []string
	templates map[string]*stl.Model
	requested map[assets.Token]string
	inflight  map[string]bool

	vertexOwner  string
	vertices     []vertexHandle
	handleRadius float64
}

// NewView creates an empty view
func NewView(floors *floor.Builder, fences *fence.Builder, presets PresetSource, loader *assets.Loader, handleRadius float64) *View {
	if handleRadius <= 0 {
		handleRadius = 0.12
	}
	return &View{
		floors:       floors,
		fences:       fences,
		presets:      presets,
		loader:       loader,
		registry:     scene.NewRegistry(),
		nodes:        make(map[string]*Node),
		templates:    make(map[string]*stl.Model),
		requested:    make(map[assets.Token]string),
		inflight:     make(map[string]bool),
		handleRadius: handleRadius,
	}
}

// SetPresets swaps the preset source, e.g. after a catalog reload
func (v *View) SetPresets(p PresetSource) {
	v.presets = p
}

// Registry returns the pick registry
func (v *View) Registry() *scene.Registry {
	return v.registry
}

// Sync rebuilds nodes from the canonical entity list. Unchanged entities
// keep their geometry.
func (v *View) Sync(items []scene.Entity) {
	seen := make(map[string]bool, len(items))
	v.order = v.order[:0]
	for _, e := range items {
		seen[e.ID] = true
		v.order = append(v.order, e.ID)
		if n, ok := v.nodes[e.ID]; ok && sameGeometry(n.Entity, e) {
			n.Entity = e
			n.Display = e.Transform
			continue
		}
		v.build(e)
	}
	for id := range v.nodes {
		if !seen[id] {
			v.registry.Release(id)
			delete(v.nodes, id)
			if v.vertexOwner == id {
				v.vertexOwner = ""
				v.vertices = nil
			}
		}
	}
}

// Rebuild regenerates every node, e.g. after fence presets changed
func (v *View) Rebuild(items []scene.Entity) {
	for _, e := range items {
		if n, ok := v.nodes[e.ID]; ok {
			n.Entity.Points = nil
			n.Entity.Kind = ""
		}
	}
	v.Sync(items)
}

func sameGeometry(a, b scene.Entity) bool {
	if a.Kind != b.Kind || a.AssetURL != b.AssetURL || len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	switch {
	case a.Floor != nil && b.Floor != nil:
		if *a.Floor != *b.Floor {
			return false
		}
	case a.Floor != b.Floor:
		return false
	}
	switch {
	case a.Fence != nil && b.Fence != nil:
		if a.Fence.Preset != b.Fence.Preset || a.Fence.PostColor != b.Fence.PostColor || len(a.Fence.SlatColors) != len(b.Fence.SlatColors) {
			return false
		}
		for i := range a.Fence.SlatColors {
			if a.Fence.SlatColors[i] != b.Fence.SlatColors[i] {
				return false
			}
		}
	case a.Fence != b.Fence:
		return false
	}
	return true
}

func (v *View) build(e scene.Entity) {
	n, ok := v.nodes[e.ID]
	if !ok {
		n = &Node{Handle: v.registry.Register(scene.Tag{Kind: e.Kind, OwnerID: e.ID})}
		v.nodes[e.ID] = n
	}
	n.Entity = e
	n.Display = e.Transform
	n.Floor, n.Fence, n.Model = nil, nil, nil
	n.pick, n.collide = nil, nil

	switch e.Kind {
	case scene.KindFloor:
		spec := scene.FloorSpec{}
		if e.Floor != nil {
			spec = *e.Floor
		}
		mesh := v.floors.Build(e.Points, spec)
		n.Floor = &mesh
		if b := mesh.Bounds(); !b.IsEmpty() {
			n.pick = []geometry.BoundingBox{b}
		}
	case scene.KindFence:
		cfg := scene.FenceConfig{}
		if e.Fence != nil {
			cfg = *e.Fence
		}
		preset := v.presets.Preset(cfg.Preset)
		asm := v.fences.Build(e.Points, preset, cfg)
		n.Fence = &asm
		n.pick = segmentBoxes(e.Points, preset.Height, preset.PostWidth/2)
		n.collide = n.pick
	case scene.KindModel:
		n.modelURL = e.AssetURL
		if m, ok := v.templates[e.AssetURL]; ok {
			n.Model = m
		} else {
			v.request(e.AssetURL)
		}
		box := modelBounds(n.Model)
		n.pick = []geometry.BoundingBox{box}
		n.collide = n.pick
	}
}

// placeholder bounds until a template arrives
func modelBounds(m *stl.Model) geometry.BoundingBox {
	if m != nil {
		if b := m.BoundingBox(); !b.IsEmpty() {
			return b
		}
	}
	return geometry.BoundingBox{Min: geometry.NewVector3(-0.5, 0, -0.5), Max: geometry.NewVector3(0.5, 1, 0.5)}
}

func segmentBoxes(points []geometry.Vector2, height, halfWidth float64) []geometry.BoundingBox {
	var out []geometry.BoundingBox
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if !a.IsFinite() || !b.IsFinite() {
			continue
		}
		box := geometry.NewBoundingBox()
		box.Extend(a.Lift(0))
		box.Extend(b.Lift(height))
		box.Min.X -= halfWidth
		box.Min.Z -= halfWidth
		box.Max.X += halfWidth
		box.Max.Z += halfWidth
		out = append(out, box)
	}
	return out
}

func (v *View) request(url string) {
	if v.loader == nil || url == "" || v.inflight[url] {
		return
	}
	v.inflight[url] = true
	v.requested[v.loader.LoadAsync(context.Background(), url)] = url
}

// Accept consumes a load result issued by the view. It returns false for
// tokens the view did not request.
func (v *View) Accept(r assets.Result) bool {
	url, ok := v.requested[r.Token]
	if !ok {
		return false
	}
	delete(v.requested, r.Token)
	delete(v.inflight, url)
	if r.Err != nil {
		return true
	}
	v.SetTemplate(url, r.Model)
	return true
}

// SetTemplate installs a loaded template for every model using url
func (v *View) SetTemplate(url string, m *stl.Model) {
	v.templates[url] = m
	for _, n := range v.nodes {
		if n.Entity.Kind == scene.KindModel && n.modelURL == url {
			n.Model = m
			n.pick = []geometry.BoundingBox{modelBounds(m)}
			n.collide = n.pick
		}
	}
}

// Node returns the node of an entity
func (v *View) Node(id string) (*Node, bool) {
	n, ok := v.nodes[id]
	return n, ok
}

// Nodes returns all nodes in store order
func (v *View) Nodes() []*Node {
	out := make([]*Node, 0, len(v.order))
	for _, id := range v.order {
		if n, ok := v.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// SetDisplay overrides the drawn transform of an entity
func (v *View) SetDisplay(id string, t geometry.Transform) {
	if n, ok := v.nodes[id]; ok {
		n.Display = t
	}
}

// SetVertexHandles registers pickable vertex handles for owner
func (v *View) SetVertexHandles(owner string, positions []geometry.Vector3) {
	v.ClearVertexHandles()
	n, ok := v.nodes[owner]
	if !ok {
		return
	}
	v.vertexOwner = owner
	for i, p := range positions {
		h := v.registry.Register(scene.Tag{Kind: n.Entity.Kind, OwnerID: owner, Part: scene.PartVertex, Vertex: i})
		v.vertices = append(v.vertices, vertexHandle{handle: h, index: i, center: p})
	}
}

// MoveVertexHandles updates handle positions without reissuing handles
func (v *View) MoveVertexHandles(positions []geometry.Vector3) {
	if len(positions) != len(v.vertices) {
		if v.vertexOwner != "" {
			v.SetVertexHandles(v.vertexOwner, positions)
		}
		return
	}
	for i := range v.vertices {
		v.vertices[i].center = positions[i]
	}
}

// ClearVertexHandles drops all vertex handles
func (v *View) ClearVertexHandles() {
	if v.vertexOwner != "" {
		v.registry.ReleaseVertices(v.vertexOwner)
	}
	v.vertexOwner = ""
	v.vertices = nil
}

// PickVertex returns the tag of the nearest vertex handle hit by ray
func (v *View) PickVertex(ray geometry.Ray) (scene.Tag, bool) {
	best := math.MaxFloat64
	var hit scene.Handle
	for _, vh := range v.vertices {
		if t, ok := ray.IntersectSphere(vh.center, v.handleRadius); ok && t < best {
			best, hit = t, vh.handle
		}
	}
	if hit == scene.NoHandle {
		return scene.Tag{}, false
	}
	return v.registry.Resolve(hit)
}

// PickEntity returns the tag of the nearest entity hit by ray
func (v *View) PickEntity(ray geometry.Ray) (scene.Tag, bool) {
	best := math.MaxFloat64
	var hit scene.Handle
	for _, n := range v.Nodes() {
		m := n.Display.Matrix()
		for _, b := range n.pick {
			if t, ok := ray.IntersectBox(b.Transform(m)); ok && t < best {
				best, hit = t, n.Handle
			}
		}
	}
	if hit == scene.NoHandle {
		return scene.Tag{}, false
	}
	return v.registry.Resolve(hit)
}

// Collides reports whether the entity's footprint, shrunk by tolerance,
// overlaps any other entity's footprint
func (v *View) Collides(id string, tolerance float64) bool {
	n, ok := v.nodes[id]
	if !ok {
		return false
	}
	mine := n.Colliders()
	for _, other := range v.nodes {
		if other == n {
			continue
		}
		for _, theirs := range other.Colliders() {
			for _, b := range mine {
				if b.Expand(-tolerance).OverlapsFootprint(theirs) {
					return true
				}
			}
		}
	}
	return false
}
