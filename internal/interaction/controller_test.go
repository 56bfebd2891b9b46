package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/philipparndt/yardplan/internal/assets"
	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/markers"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/tools"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cube = `solid cube
facet normal 0 0 1
  outer loop
    vertex -0.5 0 -0.5
    vertex 0.5 0 -0.5
    vertex 0.5 1 0.5
  endloop
endfacet
endsolid cube
`

type memFetcher map[string]string

func (m memFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	d, ok := m[url]
	if !ok {
		return nil, assets.ErrFetch
	}
	return []byte(d), nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Product{
		{ID: "slide", Name: "Slide", Type: scene.KindModel, Price: 900, AssetURL: "slide.stl"},
		{ID: "swing", Name: "Swing", Type: scene.KindModel, Price: 700, AssetURL: "swing.stl"},
		{ID: "broken", Name: "Broken", Type: scene.KindModel, Price: 1, AssetURL: "missing.stl"},
		{ID: "rubber", Name: "Rubber", Type: scene.KindFloor, Material: scene.MaterialRubber, Rate: 35},
		{ID: "fence", Name: "Fence", Type: scene.KindFence, Preset: "picket", Rate: 45, Colors: []scene.Color{"#000000", "#ffffff"}},
	})
	require.NoError(t, err)
	return c
}

func newController(t *testing.T, items ...scene.Entity) (*Controller, *scene.MemoryStore) {
	t.Helper()
	store := scene.NewMemoryStore(items...)
	loader := assets.NewLoader(memFetcher{"slide.stl": cube, "swing.stl": cube}, nil, nil)
	opts := OptionsFromConfig(config.Default())
	return New(store, testCatalog(t), loader, tools.NewLatestSink(), nil, opts), store
}

// downAt returns a primary click straight down onto ground point (x, z)
func downAt(x, z float64) Pointer {
	return Pointer{Ray: geometry.NewRay(geometry.NewVector3(x, 10, z), geometry.NewVector3(0, -1, 0))}
}

// settle runs frames until loads and animations are done
func settle(c *Controller) {
	for i := 0; i < 2000 && (c.Animating() || c.PlacementPending()); i++ {
		c.Update(1.0 / 60)
		if c.PlacementPending() {
			time.Sleep(time.Millisecond)
		}
	}
}

func TestDrawFloorThroughController(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("rubber"))
	assert.Equal(t, ModeDrawingFloor, c.Mode())

	for _, p := range [][2]float64{{0, 0}, {4, 0}, {4, 3}, {0, 3}} {
		c.PointerDown(downAt(p[0], p[1]))
	}
	c.PointerDown(Pointer{Ray: downAt(0, 0).Ray, Button: ButtonSecondary})

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, scene.KindFloor, items[0].Kind)
	assert.InDelta(t, 12, geometry.Area(items[0].Points), 1e-9)
	assert.Equal(t, ModeEditing, c.Mode())
	assert.Equal(t, items[0].ID, c.Attached())
	assert.Len(t, c.Markers().Handles(), 4)

	node, ok := c.View().Node(items[0].ID)
	require.True(t, ok)
	assert.False(t, node.Floor.IsEmpty())
}

func TestDrawFenceTooShortKeepsDrawing(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("fence"))
	c.PointerDown(downAt(0, 0))
	c.PointerDown(Pointer{Ray: downAt(0, 0).Ray, Button: ButtonSecondary})

	assert.Empty(t, store.Items())
	assert.Equal(t, ModeDrawingFence, c.Mode())
	assert.Equal(t, 1, c.FenceTool().Len())

	c.SetMode(ModeIdle)
	assert.Zero(t, c.FenceTool().Len(), "leaving the mode drops the draft")
}

func TestFenceCarriesActiveConfig(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("fence"))
	cfg := c.DrawFenceConfig()
	cfg.SlatColors = []scene.Color{"#ff0000", "#00ff00", "#0000ff"}
	c.SetDrawFenceConfig(cfg)

	c.PointerDown(downAt(0, 0))
	c.PointerDown(downAt(5, 0))
	c.PointerDown(downAt(5, 5))
	_, err := c.Finalize()
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, cfg, *items[0].Fence)
	node, _ := c.View().Node(items[0].ID)
	assert.Len(t, node.Fence.Slats.Instances, 6*8)
}

func TestPlacement(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("slide"))
	assert.Equal(t, ModePlacing, c.Mode())

	c.PointerDown(downAt(2, 3))
	assert.True(t, c.PlacementPending())
	settle(c)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, geometry.NewVector3(2, 0, 3), items[0].Transform.Position)
	assert.Equal(t, 900.0, items[0].Price)
	assert.Equal(t, ModeEditing, c.Mode())
	assert.Equal(t, items[0].ID, c.Attached())

	node, _ := c.View().Node(items[0].ID)
	require.NotNil(t, node.Model)
	assert.Equal(t, items[0].Transform, node.Display, "scale-in animation finished")
}

func TestPlacementAnimationStartsFromZero(t *testing.T) {
	c, store := newController(t)
	_, err := c.loader.Load(context.Background(), "slide.stl")
	require.NoError(t, err)

	require.NoError(t, c.SelectProduct("slide"))
	c.PointerDown(downAt(0, 0))
	c.Update(0)

	items := store.Items()
	require.Len(t, items, 1)
	node, _ := c.View().Node(items[0].ID)
	assert.Equal(t, geometry.Vector3{}, node.Display.Scale)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), items[0].Transform.Scale, "store holds the final scale")

	c.Update(c.opts.PlaceDuration / 2)
	assert.InDelta(t, 0.5, node.Display.Scale.X, 1e-9)
	c.Update(c.opts.PlaceDuration)
	assert.False(t, c.Animating())
	assert.Equal(t, 1.0, node.Display.Scale.X)
}

func TestStalePlacementIsDiscarded(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("slide"))
	c.PointerDown(downAt(0, 0))

	// switching product abandons the first request
	require.NoError(t, c.SelectProduct("swing"))
	c.PointerDown(downAt(5, 5))
	settle(c)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "swing", items[0].ProductID)
}

func TestFailedPlacementLeavesSceneUntouched(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, c.SelectProduct("broken"))
	c.PointerDown(downAt(0, 0))
	settle(c)

	assert.Empty(t, store.Items())
	assert.Equal(t, ModePlacing, c.Mode())
	assert.False(t, c.History().CanUndo())
}

func TestPickAttachAndDeselect(t *testing.T) {
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(5, 0, 5))
	c, _ := newController(t, swing)

	c.PointerDown(downAt(5, 5))
	assert.Equal(t, swing.ID, c.Attached())
	assert.Equal(t, ModeEditing, c.Mode())

	c.PointerDown(downAt(-20, -20))
	assert.Empty(t, c.Attached())
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestPickVertexHandle(t *testing.T) {
	points := []geometry.Vector2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.NewVector3(10, 0, 0), points, scene.FloorSpec{})
	c, _ := newController(t, fl)

	c.Attach(fl.ID)
	c.PointerDown(downAt(11, 1))
	assert.Equal(t, []int{2}, c.Markers().Selected())
	assert.Equal(t, 2, c.GizmoVertex())

	multi := downAt(9, 1)
	multi.Multi = true
	c.PointerDown(multi)
	assert.Equal(t, []int{2, 3}, c.Markers().Selected())
	assert.Equal(t, -1, c.GizmoVertex(), "multi-select never attaches the gizmo to a handle")

	require.NoError(t, c.SetSelectedLength(3))
	d, _ := c.Markers().Distance()
	assert.InDelta(t, 3, d, 1e-9)
}

func TestVertexDragWritesPoints(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	c, store := newController(t, fl)
	c.Attach(fl.ID)
	c.PointerDown(downAt(2, 2))
	require.Equal(t, 2, c.GizmoVertex())

	require.True(t, c.BeginDrag())
	require.NoError(t, c.DragVertex(geometry.NewVector3(3, 0, 3)))
	got, _ := store.Get(fl.ID)
	assert.InDelta(t, 3, got.Points[2].X, 1e-9, "points are written during the drag")
	assert.InDelta(t, 3, got.Points[2].Y, 1e-9)
	c.EndDrag()

	require.True(t, c.Undo())
	got, _ = store.Get(fl.ID)
	assert.Equal(t, points, got.Points)
}

func TestDragDropsOntoGround(t *testing.T) {
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.Vector3{})
	var locks []bool
	c, store := newController(t, swing)
	c.OnOrbitLock(func(l bool) { locks = append(locks, l) })
	c.Attach(swing.ID)

	require.True(t, c.BeginDrag())
	moved := swing.Transform
	moved.Position = geometry.NewVector3(4, 2, 0)
	c.DragTransform(moved)
	assert.False(t, c.Colliding())
	c.EndDrag()

	got, _ := store.Get(swing.ID)
	assert.Equal(t, geometry.NewVector3(4, 0, 0), got.Transform.Position)
	assert.Equal(t, []bool{true, false}, locks)
}

func TestCollisionRevert(t *testing.T) {
	a := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(0, 0, 0))
	b := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(3, 0, 0))
	c, store := newController(t, a, b)
	c.Attach(a.ID)

	require.True(t, c.BeginDrag())
	moved := a.Transform
	moved.Position = geometry.NewVector3(2.8, 0, 0)
	c.DragTransform(moved)
	assert.True(t, c.Colliding())
	c.EndDrag()
	assert.True(t, c.Animating())

	c.Update(c.opts.RevertDuration / 2)
	node, _ := c.View().Node(a.ID)
	assert.Greater(t, node.Display.Position.X, 0.0, "reverts smoothly, not by snapping")
	assert.Less(t, node.Display.Position.X, 2.8)

	settle(c)
	got, _ := store.Get(a.ID)
	assert.InDelta(t, 0, got.Transform.Position.Distance(a.Transform.Position), 1e-9)
	assert.InDelta(t, 0, node.Display.Position.Distance(a.Transform.Position), 1e-9)
	assert.False(t, c.Colliding())
}

func TestFloorsNeverCollide(t *testing.T) {
	points := []geometry.Vector2{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(20, 0, 0))
	c, store := newController(t, fl, swing)
	c.Attach(swing.ID)

	require.True(t, c.BeginDrag())
	moved := swing.Transform
	moved.Position = geometry.NewVector3(1, 0, 1)
	c.DragTransform(moved)
	c.EndDrag()

	assert.False(t, c.Animating())
	got, _ := store.Get(swing.ID)
	assert.Equal(t, moved.Position, got.Transform.Position)
}

func TestDragMovesMarkers(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	c, store := newController(t, fl)
	c.Attach(fl.ID)

	require.True(t, c.BeginDrag())
	moved := fl.Transform
	moved.Position = geometry.NewVector3(10, 0, 0)
	c.DragTransform(moved)

	h, _ := c.Markers().Position(1)
	assert.Equal(t, geometry.NewVector3(12, 0, 0), h)
	got, _ := store.Get(fl.ID)
	assert.Equal(t, fl.Transform, got.Transform, "nothing is persisted mid-drag")
	c.EndDrag()
}

func TestDeleteAndUndoRedo(t *testing.T) {
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.Vector3{})
	c, store := newController(t, swing)
	before := store.Items()

	c.Attach(swing.ID)
	c.Delete()
	assert.Empty(t, store.Items())
	assert.Empty(t, c.Attached())
	assert.Equal(t, ModeIdle, c.Mode())

	require.True(t, c.Undo())
	assert.Equal(t, before, store.Items())
	require.True(t, c.Redo())
	assert.Empty(t, store.Items())
}

func TestSettersSnapshotAndIgnoreMissing(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{Material: scene.MaterialRubber})
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.Vector3{X: 10})
	c, store := newController(t, fl, swing)

	require.NoError(t, c.SetFloorTexture(fl.ID, "tiles.png", 2, 45))
	got, _ := store.Get(fl.ID)
	assert.Empty(t, got.Floor.Material)
	assert.Equal(t, "tiles.png", got.Floor.TextureURL)

	require.NoError(t, c.SetFloorMaterial(fl.ID, scene.MaterialSand))
	got, _ = store.Get(fl.ID)
	assert.Equal(t, scene.FloorSpec{Material: scene.MaterialSand}, *got.Floor)

	require.NoError(t, c.SetModelPrice(swing.ID, 650))
	got, _ = store.Get(swing.ID)
	assert.Equal(t, 650.0, got.Price)

	assert.ErrorIs(t, c.SetFloorMaterial(swing.ID, scene.MaterialSand), scene.ErrWrongKind)
	assert.NoError(t, c.SetModelPrice("deleted", 1))

	assert.Equal(t, 3, c.History().Len(), "rejected and missing edits add no undo step")
}

func TestPressWithoutMoveAddsNoUndoStep(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	swing := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(10, 0.5, 0))
	c, store := newController(t, fl, swing)
	before := store.Items()

	c.Attach(fl.ID)
	for i := 0; i < 5; i++ {
		c.PointerDown(downAt(2, 2))
		require.Equal(t, 2, c.GizmoVertex())
		require.True(t, c.BeginDrag())
		c.EndDrag()
	}

	c.Attach(swing.ID)
	require.True(t, c.BeginDrag())
	c.EndDrag()

	assert.Equal(t, 0, c.History().Len())
	assert.Equal(t, before, store.Items(), "an unmoved model is not snapped to the ground")
}

func TestDragAddsOneUndoStep(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	c, _ := newController(t, fl)
	c.Attach(fl.ID)
	c.PointerDown(downAt(2, 2))

	require.True(t, c.BeginDrag())
	require.NoError(t, c.DragVertex(geometry.NewVector3(3, 0, 3)))
	require.NoError(t, c.DragVertex(geometry.NewVector3(4, 0, 4)))
	c.EndDrag()
	assert.Equal(t, 1, c.History().Len())
}

func TestRejectedVertexEditAddsNoUndoStep(t *testing.T) {
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	fl := scene.NewFloor("rubber", "Rubber", geometry.Vector3{}, points, scene.FloorSpec{})
	c, store := newController(t, fl)
	c.Attach(fl.ID)
	c.PointerDown(downAt(2, 2))
	require.Len(t, c.Markers().Selected(), 1)

	assert.ErrorIs(t, c.SetSelectedAngle(90), markers.ErrSelection)
	assert.Equal(t, 0, c.History().Len())
	got, _ := store.Get(fl.ID)
	assert.Equal(t, points, got.Points)
}

func TestRevertKeepsOtherDragOnScreen(t *testing.T) {
	a := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(0, 0, 0))
	b := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(3, 0, 0))
	other := scene.NewModel("swing", "Swing", "", 700, geometry.NewVector3(20, 0, 0))
	c, store := newController(t, a, b, other)

	c.Attach(a.ID)
	require.True(t, c.BeginDrag())
	moved := a.Transform
	moved.Position = geometry.NewVector3(2.8, 0, 0)
	c.DragTransform(moved)
	c.EndDrag()
	require.True(t, c.Animating())

	c.Attach(other.ID)
	require.True(t, c.BeginDrag())
	dragged := other.Transform
	dragged.Position = geometry.NewVector3(25, 0, 0)
	c.DragTransform(dragged)

	settle(c)
	require.True(t, c.Dragging())
	node, _ := c.View().Node(other.ID)
	assert.Equal(t, dragged, node.Display, "the revert rebuild keeps the live drag")

	c.EndDrag()
	got, _ := store.Get(other.ID)
	assert.Equal(t, dragged.Position, got.Transform.Position)
}

func TestModeNames(t *testing.T) {
	assert.Equal(t, "placing_item", ModePlacing.String())
	assert.Equal(t, "drawing_fence", ModeDrawingFence.String())
}
