// Package interaction is the editing state machine: it turns pointer
// events into tool input, picking, gizmo drags and placements, and writes
// every resulting change back to the scene store.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/yardplan/internal/assets"
	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/history"
	"github.com/philipparndt/yardplan/internal/markers"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/tools"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Mode is the active interaction mode
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditing
	ModePlacing
	ModeDrawingFloor
	ModeDrawingFence
	ModeMeasuring
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEditing:
		return "editing"
	case ModePlacing:
		return "placing_item"
	case ModeDrawingFloor:
		return "drawing_floor"
	case ModeDrawingFence:
		return "drawing_fence"
	case ModeMeasuring:
		return "measuring"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Button is a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Pointer is a pointer-down event already turned into a world ray
type Pointer struct {
	Ray    geometry.Ray
	Button Button
	// Multi is set while the multi-select modifier is held
	Multi bool
}

// Catalog is the product lookup the controller needs
type Catalog interface {
	Lookup(id string) (catalog.Product, error)
	Preset(id string) fence.Preset
}

// Options tune the controller
type Options struct {
	Epsilon            float64
	PlaceDuration      float64
	RevertDuration     float64
	CollisionTolerance float64
	HandleRadius       float64
	HistoryCap         int
	FenceModuleLength  float64
	FloorThickness     float64
}

// OptionsFromConfig maps the editor configuration onto Options
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Epsilon:            cfg.Editor.PointEpsilon,
		PlaceDuration:      cfg.Editor.PlaceDuration,
		RevertDuration:     cfg.Editor.RevertDuration,
		CollisionTolerance: cfg.Editor.CollisionTolerance,
		HandleRadius:       cfg.Editor.HandleRadius,
		HistoryCap:         cfg.Editor.HistoryCap,
		FenceModuleLength:  cfg.Geometry.FenceModuleLength,
		FloorThickness:     cfg.Geometry.FloorThickness,
	}
}

type drag struct {
	id     string
	start  geometry.Transform
	vertex int
	// before is the scene at drag start; it becomes an undo step only once
	// the drag changes something
	before []scene.Entity
	saved  bool
	// display is the transform shown while moving; nil until the first move
	display *geometry.Transform
}

// commit records the pre-drag scene as an undo step, once per drag
func (d *drag) commit(h *history.History) {
	if d.saved {
		return
	}
	h.Save(d.before)
	d.saved = true
}

type placement struct {
	token    assets.Token
	product  catalog.Product
	position geometry.Vector3
}

// Controller dispatches input by mode. All methods must be called from the
// render loop goroutine.
type Controller struct {
	store   scene.Store
	catalog Catalog
	loader  *assets.Loader
	view    *View
	history *history.History
	markers *markers.Controller
	log     *slog.Logger
	opts    Options

	floorTool *tools.DrawTool
	fenceTool *tools.DrawTool
	measure   *tools.MeasureTool

	mode        Mode
	product     *catalog.Product
	draft       tools.Draft
	attached    string
	gizmoVertex int
	drag        *drag
	placing     *placement
	anims       []*animation
	colliding   bool

	onChange  []func()
	orbitLock func(locked bool)
}

// New creates a controller over store. loader may be nil when no models are
// placed; sink receives measurement results.
func New(store scene.Store, cat Catalog, loader *assets.Loader, sink tools.Sink, log *slog.Logger, opts Options) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		store:       store,
		catalog:     cat,
		loader:      loader,
		history:     history.New(opts.HistoryCap),
		markers:     markers.New(store, sink, log),
		log:         log,
		opts:        opts,
		floorTool:   tools.NewFloorTool(opts.Epsilon),
		fenceTool:   tools.NewFenceTool(opts.Epsilon),
		measure:     tools.NewMeasureTool(sink),
		gizmoVertex: -1,
	}
	c.view = NewView(floor.NewBuilder(opts.FloorThickness), fence.NewBuilder(opts.FenceModuleLength), cat, loader, opts.HandleRadius)
	c.view.Sync(store.Items())
	return c
}

// OnChange registers a callback run after every scene mutation
func (c *Controller) OnChange(fn func()) {
	c.onChange = append(c.onChange, fn)
}

// OnOrbitLock registers the camera orbit toggle; it is locked while dragging
func (c *Controller) OnOrbitLock(fn func(locked bool)) {
	c.orbitLock = fn
}

// SetCatalog swaps the catalog after a reload and rebuilds fence geometry
func (c *Controller) SetCatalog(cat Catalog) {
	c.catalog = cat
	c.view.SetPresets(cat)
	c.view.Rebuild(c.store.Items())
	c.notify()
}

// Mode returns the active mode
func (c *Controller) Mode() Mode { return c.mode }

// View returns the materialized scene
func (c *Controller) View() *View { return c.view }

// Markers returns the edit marker controller
func (c *Controller) Markers() *markers.Controller { return c.markers }

// FloorTool returns the floor drawing tool
func (c *Controller) FloorTool() *tools.DrawTool { return c.floorTool }

// FenceTool returns the fence drawing tool
func (c *Controller) FenceTool() *tools.DrawTool { return c.fenceTool }

// MeasureTool returns the measuring tool
func (c *Controller) MeasureTool() *tools.MeasureTool { return c.measure }

// History returns the edit history
func (c *Controller) History() *history.History { return c.history }

// Attached returns the id of the entity carrying the gizmo
func (c *Controller) Attached() string { return c.attached }

// GizmoVertex returns the vertex index the gizmo is attached to, or -1
func (c *Controller) GizmoVertex() int { return c.gizmoVertex }

// Colliding reports whether the dragged or reverting entity overlaps another
func (c *Controller) Colliding() bool { return c.colliding }

// Dragging reports whether a gizmo drag is in progress
func (c *Controller) Dragging() bool { return c.drag != nil }

// Product returns the active catalog selection
func (c *Controller) Product() (catalog.Product, bool) {
	if c.product == nil {
		return catalog.Product{}, false
	}
	return *c.product, true
}

// SetMode switches mode. Leaving a mode discards its tool state.
func (c *Controller) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	c.floorTool.Reset()
	c.fenceTool.Reset()
	c.measure.Reset()
	c.placing = nil
	if m != ModeEditing {
		c.detach()
	} else if c.attached == "" {
		m = ModeIdle
	}
	c.log.Debug("mode change", "from", c.mode, "to", m)
	c.mode = m
}

// SelectProduct makes a catalog product active and enters the mode that
// creates it
func (c *Controller) SelectProduct(id string) error {
	p, err := c.catalog.Lookup(id)
	if err != nil {
		return err
	}
	c.product = &p
	c.placing = nil
	c.draft = tools.Draft{ProductID: p.ID, Name: p.Name, Rate: p.Rate}
	switch p.Type {
	case scene.KindModel:
		c.SetMode(ModePlacing)
	case scene.KindFloor:
		c.draft.Floor = p.FloorSpec()
		c.SetMode(ModeDrawingFloor)
	case scene.KindFence:
		c.draft.Fence = p.FenceConfig()
		c.SetMode(ModeDrawingFence)
	}
	return nil
}

// SetDrawFenceConfig changes the configuration new fences are drawn with
func (c *Controller) SetDrawFenceConfig(cfg scene.FenceConfig) {
	c.draft.Fence = cfg.Clone()
}

// DrawFenceConfig returns the configuration new fences are drawn with
func (c *Controller) DrawFenceConfig() scene.FenceConfig {
	return c.draft.Fence.Clone()
}

// PointerMove updates live previews
func (c *Controller) PointerMove(ray geometry.Ray) {
	p, ok := ray.IntersectGround(0)
	if !ok {
		return
	}
	switch c.mode {
	case ModeDrawingFloor:
		c.floorTool.SetCursor(p)
	case ModeDrawingFence:
		c.fenceTool.SetCursor(p)
	case ModeMeasuring:
		c.measure.SetCursor(p)
	}
}

// PointerDown dispatches a click by mode
func (c *Controller) PointerDown(p Pointer) {
	switch c.mode {
	case ModeDrawingFloor, ModeDrawingFence:
		if p.Button == ButtonSecondary {
			if _, err := c.Finalize(); err != nil {
				c.log.Info("shape not finalized", "error", err)
			}
			return
		}
		if g, ok := p.Ray.IntersectGround(0); ok {
			c.activeTool().AddPoint(g)
		}
	case ModeMeasuring:
		if p.Button != ButtonPrimary {
			return
		}
		if g, ok := p.Ray.IntersectGround(0); ok {
			c.measure.AddPoint(g)
		}
	case ModePlacing:
		if p.Button != ButtonPrimary {
			return
		}
		if g, ok := p.Ray.IntersectGround(0); ok {
			c.requestPlacement(g)
		}
	default:
		if p.Button == ButtonPrimary {
			c.pick(p)
		}
	}
}

func (c *Controller) activeTool() *tools.DrawTool {
	if c.mode == ModeDrawingFence {
		return c.fenceTool
	}
	return c.floorTool
}

// Finalize completes the shape being drawn and attaches to the new entity
func (c *Controller) Finalize() (scene.Entity, error) {
	if c.mode != ModeDrawingFloor && c.mode != ModeDrawingFence {
		return scene.Entity{}, fmt.Errorf("not drawing (mode %s)", c.mode)
	}
	tool := c.activeTool()
	e, err := tool.Finalize(c.draft)
	if err != nil {
		return scene.Entity{}, err
	}
	c.history.Save(c.store.Items())
	if err := c.store.Add(e); err != nil {
		return scene.Entity{}, fmt.Errorf("failed to store %s: %w", e.Kind, err)
	}
	c.log.Info("shape finalized", "type", e.Kind, "id", e.ID, "points", len(e.Points))
	c.sync()
	c.Attach(e.ID)
	return e, nil
}

func (c *Controller) pick(p Pointer) {
	if c.markers.Active() {
		if tag, ok := c.view.PickVertex(p.Ray); ok {
			c.markers.Select(tag.Vertex, p.Multi)
			if p.Multi {
				c.gizmoVertex = -1
			} else {
				c.gizmoVertex = tag.Vertex
			}
			return
		}
	}
	if tag, ok := c.view.PickEntity(p.Ray); ok {
		c.Attach(tag.OwnerID)
		return
	}
	if c.drag != nil && c.drag.vertex >= 0 {
		return
	}
	c.detach()
	c.mode = ModeIdle
}

// Attach attaches the gizmo to an entity and shows vertex handles for
// floors and fences. Unknown ids are ignored.
func (c *Controller) Attach(id string) {
	n, ok := c.view.Node(id)
	if !ok {
		return
	}
	c.floorTool.Reset()
	c.fenceTool.Reset()
	c.measure.Reset()
	c.placing = nil

	if c.attached != id {
		c.markers.Clear()
	}
	c.attached = id
	c.gizmoVertex = -1
	c.mode = ModeEditing
	if n.Entity.Kind == scene.KindModel {
		c.markers.Clear()
		c.view.ClearVertexHandles()
		return
	}
	if err := c.markers.Attach(id); err != nil {
		c.log.Debug("no vertex handles", "id", id, "error", err)
		return
	}
	c.view.SetVertexHandles(id, c.handlePositions())
}

// Detach removes the gizmo and any vertex handles
func (c *Controller) Detach() {
	c.detach()
	if c.mode == ModeEditing {
		c.mode = ModeIdle
	}
}

func (c *Controller) detach() {
	c.attached = ""
	c.gizmoVertex = -1
	c.markers.Clear()
	c.view.ClearVertexHandles()
}

func (c *Controller) handlePositions() []geometry.Vector3 {
	hs := c.markers.Handles()
	out := make([]geometry.Vector3, len(hs))
	for i, h := range hs {
		out[i] = h.Position
	}
	return out
}

// BeginDrag starts a gizmo drag on the attached entity or vertex and locks
// the camera orbit. The undo step is recorded when the drag first changes
// the scene, so a press without movement leaves the history untouched.
func (c *Controller) BeginDrag() bool {
	if c.attached == "" || c.drag != nil {
		return false
	}
	n, ok := c.view.Node(c.attached)
	if !ok {
		return false
	}
	c.cancelAnimations(c.attached)
	c.drag = &drag{id: c.attached, start: n.Entity.Transform, vertex: c.gizmoVertex, before: c.store.Items()}
	c.lockOrbit(true)
	return true
}

// DragTransform moves the dragged entity. Nothing is persisted until the
// drag ends.
func (c *Controller) DragTransform(t geometry.Transform) {
	if c.drag == nil || c.drag.vertex >= 0 {
		return
	}
	if !t.Position.IsFinite() || !t.Rotation.IsFinite() || !t.Scale.IsFinite() {
		return
	}
	c.drag.display = &t
	c.showDrag()
}

// showDrag puts the in-progress drag transform back on screen, also after
// a rebuild from the store
func (c *Controller) showDrag() {
	d := c.drag
	if d == nil || d.display == nil {
		return
	}
	c.view.SetDisplay(d.id, *d.display)
	if c.markers.EntityID() == d.id {
		c.markers.Follow(*d.display)
		c.view.MoveVertexHandles(c.handlePositions())
	}
	c.colliding = c.view.Collides(d.id, c.opts.CollisionTolerance)
}

// DragVertex moves the dragged vertex handle; the point is written back
// immediately
func (c *Controller) DragVertex(world geometry.Vector3) error {
	if c.drag == nil || c.drag.vertex < 0 {
		return nil
	}
	if p, ok := c.markers.Position(c.drag.vertex); ok && p == world {
		return nil
	}
	if err := c.markers.Move(c.drag.vertex, world); err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			c.abortDrag()
			return nil
		}
		return err
	}
	c.drag.commit(c.history)
	c.sync()
	return nil
}

// EndDrag finishes the drag. A colliding entity animates back to where the
// drag started; otherwise it is dropped onto the ground and persisted.
func (c *Controller) EndDrag() {
	d := c.drag
	if d == nil {
		return
	}
	c.drag = nil
	c.lockOrbit(false)

	if d.vertex >= 0 {
		c.sync()
		return
	}
	n, ok := c.view.Node(d.id)
	if !ok {
		return
	}
	if c.view.Collides(d.id, c.opts.CollisionTolerance) {
		c.colliding = true
		c.log.Info("collision, reverting", "id", d.id)
		c.startRevert(d.id, n.Display, d.start)
		return
	}
	c.colliding = false

	// a press without movement persists nothing
	if t := n.Display; t != d.start {
		if bounds := n.WorldBounds(); !bounds.IsEmpty() {
			t.Position.Y -= bounds.Min.Y
		}
		if t != d.start {
			d.commit(c.history)
			if err := c.store.UpdateTransform(d.id, t); err != nil {
				c.log.Warn("failed to persist transform", "id", d.id, "error", err)
			}
		}
	}
	c.sync()
}

func (c *Controller) abortDrag() {
	c.drag = nil
	c.lockOrbit(false)
	c.sync()
}

func (c *Controller) lockOrbit(locked bool) {
	if c.orbitLock != nil {
		c.orbitLock(locked)
	}
}

func (c *Controller) requestPlacement(at geometry.Vector3) {
	if c.product == nil || c.product.Type != scene.KindModel || c.loader == nil {
		return
	}
	token := c.loader.LoadAsync(context.Background(), c.product.AssetURL)
	c.placing = &placement{token: token, product: *c.product, position: at}
	c.log.Debug("placement requested", "product", c.product.ID, "token", token)
}

// PlacementPending reports whether a placement waits for its asset
func (c *Controller) PlacementPending() bool {
	return c.placing != nil
}

func (c *Controller) completePlacement(r assets.Result) {
	p := c.placing
	c.placing = nil
	if r.Err != nil {
		// the loader has reported the failure; the scene stays untouched
		return
	}
	e := scene.NewModel(p.product.ID, p.product.Name, p.product.AssetURL, p.product.Price, p.position)
	c.history.Save(c.store.Items())
	if err := c.store.Add(e); err != nil {
		c.log.Warn("failed to place model", "product", p.product.ID, "error", err)
		return
	}
	c.view.SetTemplate(r.URL, r.Model)
	c.sync()
	c.startPlace(e.ID, e.Transform)
	c.Attach(e.ID)
	c.log.Info("model placed", "product", p.product.ID, "id", e.ID)
}

// Update advances loads and animations by dt seconds. It returns true when
// anything visible changed.
func (c *Controller) Update(dt float64) bool {
	changed := false
	if c.loader != nil {
		for _, r := range c.loader.Poll() {
			if c.view.Accept(r) {
				changed = true
				continue
			}
			if c.placing != nil && r.Token == c.placing.token {
				c.completePlacement(r)
				changed = true
				continue
			}
			c.log.Debug("discarding stale load", "url", r.URL, "token", r.Token)
		}
	}
	if len(c.anims) > 0 {
		c.stepAnimations(dt)
		changed = true
	}
	return changed
}

// Delete removes the attached entity
func (c *Controller) Delete() {
	if c.attached == "" || c.drag != nil {
		return
	}
	id := c.attached
	c.history.Save(c.store.Items())
	if err := c.store.Remove(id); err != nil && !errors.Is(err, scene.ErrNotFound) {
		c.log.Warn("failed to delete", "id", id, "error", err)
	}
	c.cancelAnimations(id)
	c.Detach()
	c.sync()
}

// Undo restores the previous snapshot
func (c *Controller) Undo() bool {
	if c.drag != nil {
		return false
	}
	prev, ok := c.history.Undo(c.store.Items())
	if !ok {
		return false
	}
	return c.restore(prev)
}

// Redo re-applies an undone snapshot
func (c *Controller) Redo() bool {
	if c.drag != nil {
		return false
	}
	next, ok := c.history.Redo(c.store.Items())
	if !ok {
		return false
	}
	return c.restore(next)
}

func (c *Controller) restore(items []scene.Entity) bool {
	if err := c.store.Replace(items); err != nil {
		c.log.Warn("failed to restore snapshot", "error", err)
		return false
	}
	c.anims = nil
	c.colliding = false
	c.sync()
	if c.attached != "" {
		if _, ok := c.view.Node(c.attached); !ok {
			c.Detach()
		}
	}
	return true
}

// SetFloorMaterial selects a built-in material and clears any texture
func (c *Controller) SetFloorMaterial(id string, m scene.FloorMaterial) error {
	return c.mutate(id, func(e scene.Entity) error {
		if e.Floor == nil {
			return fmt.Errorf("%s: %w", e.Kind, scene.ErrWrongKind)
		}
		spec := *e.Floor
		spec.SetMaterial(m)
		return c.store.UpdateFloorSpec(id, spec)
	})
}

// SetFloorTexture selects an external texture and clears the material
func (c *Controller) SetFloorTexture(id, url string, scale, rotation float64) error {
	return c.mutate(id, func(e scene.Entity) error {
		if e.Floor == nil {
			return fmt.Errorf("%s: %w", e.Kind, scene.ErrWrongKind)
		}
		spec := *e.Floor
		spec.SetTexture(url, scale, rotation)
		return c.store.UpdateFloorSpec(id, spec)
	})
}

// SetFenceConfig replaces a fence's preset and colours
func (c *Controller) SetFenceConfig(id string, cfg scene.FenceConfig) error {
	return c.mutate(id, func(scene.Entity) error {
		return c.store.UpdateFenceConfig(id, cfg.Clone())
	})
}

// SetModelPrice overrides the fixed price of a model
func (c *Controller) SetModelPrice(id string, price float64) error {
	return c.mutate(id, func(scene.Entity) error {
		return c.store.UpdatePrice(id, price)
	})
}

// SetSelectedLength applies a numeric length to the selected vertices
func (c *Controller) SetSelectedLength(length float64) error {
	return c.vertexEdit(func() error { return c.markers.SetSelectedLength(length) })
}

// SetSelectedAngle applies a numeric angle to the selected vertices
func (c *Controller) SetSelectedAngle(degrees float64) error {
	return c.vertexEdit(func() error { return c.markers.SetAngle(degrees) })
}

func (c *Controller) vertexEdit(fn func() error) error {
	if !c.markers.Active() {
		return markers.ErrNoEntity
	}
	before := c.store.Items()
	err := fn()
	if errors.Is(err, scene.ErrNotFound) {
		c.Detach()
		return nil
	}
	if err == nil {
		c.history.Save(before)
	}
	c.sync()
	return err
}

// mutate applies fn to an existing entity and records an undo step when
// it succeeds; missing ids are a no-op
func (c *Controller) mutate(id string, fn func(scene.Entity) error) error {
	e, ok := c.store.Get(id)
	if !ok {
		c.log.Debug("ignoring edit of missing entity", "id", id)
		return nil
	}
	before := c.store.Items()
	if err := fn(e); err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			return nil
		}
		return err
	}
	c.history.Save(before)
	c.sync()
	return nil
}

// sync rebuilds the view from the store and notifies observers
func (c *Controller) sync() {
	c.view.Sync(c.store.Items())
	if c.markers.Active() {
		c.markers.Refresh()
		if c.markers.Active() {
			c.view.SetVertexHandles(c.markers.EntityID(), c.handlePositions())
		} else {
			c.view.ClearVertexHandles()
		}
	}
	c.showDrag()
	for _, a := range c.anims {
		a.apply(c)
	}
	c.notify()
}

func (c *Controller) notify() {
	for _, fn := range c.onChange {
		fn()
	}
}
