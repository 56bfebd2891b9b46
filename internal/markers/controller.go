// Package markers manages per-vertex edit handles of a floor or fence and
// the numeric distance and angle edits made through them.
package markers

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/tools"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

var (
	// ErrNoEntity is returned when no entity is attached
	ErrNoEntity = errors.New("markers: no entity attached")
	// ErrSelection is returned when the selection does not fit the operation
	ErrSelection = errors.New("markers: invalid selection")
)

// MaxSelected is the number of handles that can be selected at once
const MaxSelected = 3

// Handle colours by selection order
var (
	ColorBase = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	ColorA    = color.RGBA{R: 230, G: 57, B: 70, A: 255}
	ColorB    = color.RGBA{R: 42, G: 157, B: 143, A: 255}
	ColorC    = color.RGBA{R: 244, G: 162, B: 97, A: 255}
)

// Handle is the view of one vertex marker
type Handle struct {
	Index    int
	Position geometry.Vector3
	// Order is the 1-based selection order, 0 when not selected
	Order int
	Color color.RGBA
}

// Controller owns the handles of the attached entity. Handles are derived
// from the stored points and follow the entity transform; the store stays
// authoritative for point data.
type Controller struct {
	store scene.Store
	sink  tools.Sink
	log   *slog.Logger

	entityID  string
	transform geometry.Transform
	local     []geometry.Vector2
	handles   []geometry.Vector3
	selected  []int
}

// New creates a controller editing entities in store
func New(store scene.Store, sink tools.Sink, log *slog.Logger) *Controller {
	if sink == nil {
		sink = tools.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{store: store, sink: sink, log: log}
}

// Attach spawns handles for a floor or fence
func (c *Controller) Attach(id string) error {
	e, ok := c.store.Get(id)
	if !ok {
		c.Clear()
		return fmt.Errorf("attach %s: %w", id, scene.ErrNotFound)
	}
	if e.Kind != scene.KindFloor && e.Kind != scene.KindFence {
		c.Clear()
		return fmt.Errorf("attach %s: %w", e.Kind, scene.ErrWrongKind)
	}
	if id != c.entityID {
		c.selected = nil
	}
	c.entityID = id
	c.load(e)
	return nil
}

// Clear removes all handles and the selection
func (c *Controller) Clear() {
	c.entityID = ""
	c.local = nil
	c.handles = nil
	c.selected = nil
}

// Active reports whether handles are shown
func (c *Controller) Active() bool {
	return c.entityID != ""
}

// EntityID returns the id of the attached entity
func (c *Controller) EntityID() string {
	return c.entityID
}

// Refresh reloads points and transform from the store. A vanished entity
// clears the handles.
func (c *Controller) Refresh() {
	if c.entityID == "" {
		return
	}
	e, ok := c.store.Get(c.entityID)
	if !ok {
		c.Clear()
		return
	}
	c.load(e)
}

func (c *Controller) load(e scene.Entity) {
	c.transform = e.Transform
	c.local = e.Points
	c.reproject()
	kept := c.selected[:0]
	for _, i := range c.selected {
		if i < len(c.local) {
			kept = append(kept, i)
		}
	}
	c.selected = kept
}

// Follow re-projects the handles through t without touching point data.
// It is called every frame while the entity is dragged.
func (c *Controller) Follow(t geometry.Transform) {
	c.transform = t
	c.reproject()
}

func (c *Controller) reproject() {
	m := c.transform.Matrix()
	c.handles = make([]geometry.Vector3, len(c.local))
	for i, p := range c.local {
		c.handles[i] = m.TransformPoint(p.Lift(0))
	}
}

// Handles returns the handle views in point order
func (c *Controller) Handles() []Handle {
	out := make([]Handle, len(c.handles))
	for i, p := range c.handles {
		out[i] = Handle{Index: i, Position: p, Color: ColorBase}
	}
	for n, i := range c.selected {
		out[i].Order = n + 1
		out[i].Color = [...]color.RGBA{ColorA, ColorB, ColorC}[n]
	}
	return out
}

// Position returns the world position of handle i
func (c *Controller) Position(i int) (geometry.Vector3, bool) {
	if i < 0 || i >= len(c.handles) {
		return geometry.Vector3{}, false
	}
	return c.handles[i], true
}

// Select selects handle i. Without multi the selection is replaced; with
// multi it is appended and the oldest of more than three is evicted.
func (c *Controller) Select(i int, multi bool) {
	if i < 0 || i >= len(c.handles) {
		return
	}
	if !multi {
		c.selected = []int{i}
		c.publish()
		return
	}
	for _, s := range c.selected {
		if s == i {
			return
		}
	}
	c.selected = append(c.selected, i)
	if len(c.selected) > MaxSelected {
		c.selected = append([]int(nil), c.selected[len(c.selected)-MaxSelected:]...)
	}
	c.publish()
}

// Deselect clears the selection
func (c *Controller) Deselect() {
	c.selected = nil
	c.sink.Publish(tools.Result{Kind: tools.ResultCleared})
}

// Selected returns the selected indices in selection order
func (c *Controller) Selected() []int {
	return append([]int(nil), c.selected...)
}

// Swap exchanges the first two selections
func (c *Controller) Swap() {
	if len(c.selected) < 2 {
		return
	}
	c.selected[0], c.selected[1] = c.selected[1], c.selected[0]
	c.publish()
}

// Distance returns the distance between the first two selected handles
func (c *Controller) Distance() (float64, bool) {
	if len(c.selected) < 2 {
		return 0, false
	}
	return c.handles[c.selected[0]].Distance(c.handles[c.selected[1]]), true
}

// Angle returns the angle at the second selected handle between the
// first and third, in degrees
func (c *Controller) Angle() (float64, bool) {
	if len(c.selected) != 3 {
		return 0, false
	}
	h := c.handles
	return geometry.AngleAt(h[c.selected[0]], h[c.selected[1]], h[c.selected[2]]), true
}

func (c *Controller) publish() {
	if d, ok := c.Distance(); ok {
		c.sink.Publish(tools.Result{Kind: tools.ResultDistance, Value: d})
	}
	if a, ok := c.Angle(); ok {
		c.sink.Publish(tools.Result{Kind: tools.ResultAngle, Value: a})
	}
}

// SetLength moves handle move along the anchor→move direction so it lies
// exactly length away from anchor
func (c *Controller) SetLength(move, anchor int, length float64) error {
	if c.entityID == "" {
		return ErrNoEntity
	}
	if move == anchor || !c.valid(move) || !c.valid(anchor) {
		return fmt.Errorf("move %d anchor %d: %w", move, anchor, ErrSelection)
	}
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return fmt.Errorf("length %v: %w", length, ErrSelection)
	}
	return c.Move(move, geometry.AtDistance(c.handles[anchor], c.handles[move], length))
}

// SetSelectedLength sets the distance between the first two selections,
// keeping the first fixed
func (c *Controller) SetSelectedLength(length float64) error {
	if len(c.selected) < 2 {
		return fmt.Errorf("need two selected handles: %w", ErrSelection)
	}
	return c.SetLength(c.selected[1], c.selected[0], length)
}

// SetAngle rotates the third selection around the second (the pivot) so
// the angle to the first becomes degrees
func (c *Controller) SetAngle(degrees float64) error {
	if c.entityID == "" {
		return ErrNoEntity
	}
	if len(c.selected) != 3 {
		return fmt.Errorf("need three selected handles: %w", ErrSelection)
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return fmt.Errorf("angle %v: %w", degrees, ErrSelection)
	}
	ref, pivot, move := c.handles[c.selected[0]], c.handles[c.selected[1]], c.handles[c.selected[2]]
	return c.Move(c.selected[2], geometry.AtAngle(ref, pivot, move, degrees))
}

// Move places handle i at a world position and writes the resulting local
// point back to the store
func (c *Controller) Move(i int, world geometry.Vector3) error {
	if c.entityID == "" {
		return ErrNoEntity
	}
	if !c.valid(i) {
		return fmt.Errorf("handle %d: %w", i, ErrSelection)
	}
	p, ok := c.transform.ToLocal(world)
	if !ok || !p.IsFinite() {
		return fmt.Errorf("handle %d: %w", i, scene.ErrInvalidGeometry)
	}
	points := append([]geometry.Vector2(nil), c.local...)
	points[i] = p
	if err := c.store.UpdatePoints(c.entityID, points); err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			c.log.Debug("edited entity vanished", "id", c.entityID)
			c.Clear()
		}
		return err
	}
	c.local = points
	c.handles[i] = c.transform.ToWorld(p)
	c.publish()
	return nil
}

func (c *Controller) valid(i int) bool {
	return i >= 0 && i < len(c.handles)
}
