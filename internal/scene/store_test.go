package scene

import (
	"testing"

	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	floor := NewFloor("rubber", "Rubber", geometry.Vector3{}, square(), FloorSpec{Material: MaterialRubber})
	require.NoError(t, store.Add(floor))
	assert.Error(t, store.Add(floor), "duplicate ids are rejected")

	moved := geometry.NewTransform(geometry.NewVector3(3, 0, 3))
	require.NoError(t, store.UpdateTransform(floor.ID, moved))

	got, ok := store.Get(floor.ID)
	require.True(t, ok)
	assert.Equal(t, moved, got.Transform)
	assert.Equal(t, floor.Points, got.Points, "moving never rewrites points")

	require.NoError(t, store.Remove(floor.ID))
	assert.Empty(t, store.Items())
}

func TestMemoryStoreMissingEntity(t *testing.T) {
	store := NewMemoryStore()
	assert.ErrorIs(t, store.UpdateTransform("missing", geometry.Transform{}), ErrNotFound)
	assert.ErrorIs(t, store.UpdatePoints("missing", nil), ErrNotFound)
	assert.ErrorIs(t, store.Remove("missing"), ErrNotFound)
}

func TestMemoryStoreRejectsDegeneratePoints(t *testing.T) {
	floor := NewFloor("rubber", "Rubber", geometry.Vector3{}, square(), FloorSpec{})
	store := NewMemoryStore(floor)

	err := store.UpdatePoints(floor.ID, square()[:2])
	assert.ErrorIs(t, err, ErrTooFewPoints)

	got, _ := store.Get(floor.ID)
	assert.Len(t, got.Points, 4, "failed update leaves the entity untouched")
}

func TestMemoryStoreVariantGuards(t *testing.T) {
	model := NewModel("swing", "Swing", "swing.stl", 900, geometry.Vector3{})
	store := NewMemoryStore(model)

	assert.ErrorIs(t, store.UpdatePoints(model.ID, square()), ErrWrongKind)
	assert.ErrorIs(t, store.UpdateFenceConfig(model.ID, FenceConfig{}), ErrWrongKind)
	require.NoError(t, store.UpdatePrice(model.ID, 750))

	got, _ := store.Get(model.ID)
	assert.Equal(t, 750.0, got.Price)
}

func TestMemoryStoreReadsAreCopies(t *testing.T) {
	floor := NewFloor("rubber", "Rubber", geometry.Vector3{}, square(), FloorSpec{})
	store := NewMemoryStore(floor)

	items := store.Items()
	items[0].Points[0].X = 42

	got, _ := store.Get(floor.ID)
	assert.Equal(t, -2.0, got.Points[0].X)
}
