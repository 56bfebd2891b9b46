package markers

import (
	"testing"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/tools"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Controller, *scene.MemoryStore, scene.Entity, *tools.LatestSink) {
	t.Helper()
	points := []geometry.Vector2{{X: -2, Y: -1.5}, {X: 2, Y: -1.5}, {X: 2, Y: 1.5}, {X: -2, Y: 1.5}}
	floor := scene.NewFloor("rubber", "Rubber", geometry.NewVector3(10, 0, 5), points, scene.FloorSpec{})
	floor.Transform.Rotation.Y = 0.4
	store := scene.NewMemoryStore(floor)
	sink := tools.NewLatestSink()
	c := New(store, sink, nil)
	require.NoError(t, c.Attach(floor.ID))
	return c, store, floor, sink
}

func TestAttachProjectsHandles(t *testing.T) {
	c, _, floor, _ := setup(t)
	handles := c.Handles()
	require.Len(t, handles, 4)
	for i, h := range handles {
		want := floor.Transform.ToWorld(floor.Points[i])
		assert.InDelta(t, 0, h.Position.Distance(want), 1e-12)
		assert.Equal(t, ColorBase, h.Color)
	}
}

func TestAttachRejectsModels(t *testing.T) {
	model := scene.NewModel("slide", "Slide", "slide.stl", 1, geometry.Vector3{})
	c := New(scene.NewMemoryStore(model), nil, nil)
	assert.ErrorIs(t, c.Attach(model.ID), scene.ErrWrongKind)
	assert.ErrorIs(t, c.Attach("missing"), scene.ErrNotFound)
	assert.False(t, c.Active())
}

func TestSelectReplacesWithoutModifier(t *testing.T) {
	c, _, _, _ := setup(t)
	c.Select(1, false)
	c.Select(1, false)
	assert.Equal(t, []int{1}, c.Selected())
	c.Select(2, false)
	assert.Equal(t, []int{2}, c.Selected())
}

func TestMultiSelectEvictsOldest(t *testing.T) {
	c, _, _, _ := setup(t)
	for _, i := range []int{0, 1, 2, 3} {
		c.Select(i, true)
	}
	assert.Equal(t, []int{1, 2, 3}, c.Selected())

	handles := c.Handles()
	assert.Equal(t, ColorBase, handles[0].Color)
	assert.Equal(t, ColorA, handles[1].Color)
	assert.Equal(t, ColorB, handles[2].Color)
	assert.Equal(t, ColorC, handles[3].Color)
	assert.Equal(t, 3, handles[3].Order)
}

func TestDistanceAndAngle(t *testing.T) {
	c, _, _, sink := setup(t)
	c.Select(0, true)
	c.Select(1, true)

	d, ok := c.Distance()
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-9)
	r, _ := sink.Take()
	assert.Equal(t, tools.ResultDistance, r.Kind)

	_, ok = c.Angle()
	assert.False(t, ok)

	c.Select(2, true)
	a, ok := c.Angle()
	require.True(t, ok)
	assert.InDelta(t, 90, a, 1e-9)
	r, _ = sink.Take()
	assert.Equal(t, tools.ResultAngle, r.Kind)
}

func TestSwapChangesPivot(t *testing.T) {
	c, _, _, _ := setup(t)
	c.Select(0, true)
	c.Select(1, true)
	c.Select(2, true)
	c.Swap()
	assert.Equal(t, []int{1, 0, 2}, c.Selected())

	// pivot is now corner 0: angle between corner 1 and the diagonal corner 2
	a, _ := c.Angle()
	want := geometry.AngleAt(
		geometry.NewVector3(2, 0, -1.5), geometry.NewVector3(-2, 0, -1.5), geometry.NewVector3(2, 0, 1.5))
	assert.InDelta(t, want, a, 1e-9)
}

func TestSetLength(t *testing.T) {
	c, store, floor, _ := setup(t)
	anchorBefore, _ := c.Position(0)

	require.NoError(t, c.SetLength(1, 0, 6.5))

	anchor, _ := c.Position(0)
	moved, _ := c.Position(1)
	assert.InDelta(t, 6.5, anchor.Distance(moved), 1e-9)
	assert.InDelta(t, 0, anchor.Distance(anchorBefore), 1e-12)

	stored, ok := store.Get(floor.ID)
	require.True(t, ok)
	assert.InDelta(t, 6.5, stored.Points[0].Distance(stored.Points[1]), 1e-9)
	assert.Equal(t, floor.Points[0], stored.Points[0])
}

func TestSetAngle(t *testing.T) {
	c, store, floor, sink := setup(t)
	c.Select(0, true)
	c.Select(1, true)
	c.Select(2, true)

	require.NoError(t, c.SetAngle(60))
	a, _ := c.Angle()
	assert.InDelta(t, 60, a, 1e-9)

	r, ok := sink.Take()
	require.True(t, ok)
	assert.InDelta(t, 60, r.Value, 1e-9)

	stored, _ := store.Get(floor.ID)
	// radius around the pivot is kept
	assert.InDelta(t, 3, stored.Points[1].Distance(stored.Points[2]), 1e-9)
}

func TestNumericEditsValidateSelection(t *testing.T) {
	c, _, _, _ := setup(t)
	assert.ErrorIs(t, c.SetAngle(45), ErrSelection)
	assert.ErrorIs(t, c.SetSelectedLength(2), ErrSelection)
	assert.ErrorIs(t, c.SetLength(0, 0, 1), ErrSelection)
	assert.ErrorIs(t, c.SetLength(0, 1, -1), ErrSelection)

	c.Clear()
	assert.ErrorIs(t, c.SetLength(1, 0, 1), ErrNoEntity)
}

func TestFollowDoesNotWritePoints(t *testing.T) {
	c, store, floor, _ := setup(t)
	moved := floor.Transform
	moved.Position = geometry.NewVector3(0, 0, 0)
	c.Follow(moved)

	h, _ := c.Position(0)
	assert.InDelta(t, 0, h.Distance(moved.ToWorld(floor.Points[0])), 1e-12)
	stored, _ := store.Get(floor.ID)
	assert.Equal(t, floor.Points, stored.Points)
}

func TestMoveOnDeletedEntityClears(t *testing.T) {
	c, store, floor, _ := setup(t)
	require.NoError(t, store.Remove(floor.ID))
	err := c.Move(0, geometry.Vector3{})
	assert.ErrorIs(t, err, scene.ErrNotFound)
	assert.False(t, c.Active())
}
