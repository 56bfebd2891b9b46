package scenestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.db")
	s, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	return s, path
}

func sampleScene() []scene.Entity {
	points := []geometry.Vector2{{X: -2, Y: -1.5}, {X: 2, Y: -1.5}, {X: 2, Y: 1.5}, {X: -2, Y: 1.5}}
	return []scene.Entity{
		scene.NewFloor("rubber", "Rubber", geometry.NewVector3(1, 0, 1), points, scene.FloorSpec{Material: scene.MaterialRubber}),
		scene.NewFence("fence", "Fence", geometry.Vector3{}, points[:3], scene.FenceConfig{Preset: "classic", PostColor: "#000000", SlatColors: []scene.Color{"#ffffff"}}),
		scene.NewModel("slide", "Slide", "slide.stl", 900, geometry.NewVector3(5, 0, 5)),
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, path := openTemp(t)
	for _, e := range sampleScene() {
		require.NoError(t, s.Add(e))
	}
	want := s.Items()
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, want, reopened.Items())
}

func TestUpdatesAreWrittenThrough(t *testing.T) {
	s, path := openTemp(t)
	items := sampleScene()
	for _, e := range items {
		require.NoError(t, s.Add(e))
	}
	moved := geometry.NewTransform(geometry.NewVector3(9, 0, 9))
	require.NoError(t, s.UpdateTransform(items[2].ID, moved))
	require.NoError(t, s.UpdatePrice(items[2].ID, 850))
	require.NoError(t, s.Remove(items[1].ID))
	assert.ErrorIs(t, s.UpdatePoints("missing", nil), scene.ErrNotFound)
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got := reopened.Items()
	require.Len(t, got, 2)
	assert.Equal(t, moved, got[1].Transform)
	assert.Equal(t, 850.0, got[1].Price)
}

func TestReplace(t *testing.T) {
	s, path := openTemp(t)
	items := sampleScene()
	for _, e := range items {
		require.NoError(t, s.Add(e))
	}
	require.NoError(t, s.Replace(items[:1]))
	assert.Len(t, s.Items(), 1)

	bad := items[0]
	bad.Points = bad.Points[:2]
	assert.ErrorIs(t, s.Replace([]scene.Entity{bad}), scene.ErrTooFewPoints)
	assert.Len(t, s.Items(), 1, "failed replace keeps the previous list")

	require.NoError(t, s.Add(items[2]))
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got := reopened.Items()
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID)
	assert.Equal(t, items[2].ID, got[1].ID)
}

func TestOrderSurvivesDeletesAndReopen(t *testing.T) {
	s, path := openTemp(t)
	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		e := scene.NewModel("slide", name, "slide.stl", 1, geometry.Vector3{})
		ids = append(ids, e.ID)
		require.NoError(t, s.Add(e))
	}
	require.NoError(t, s.Remove(ids[0]))
	require.NoError(t, s.Remove(ids[1]))
	require.NoError(t, s.Close())

	s, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	for _, name := range []string{"D", "E"} {
		require.NoError(t, s.Add(scene.NewModel("slide", name, "slide.stl", 1, geometry.Vector3{})))
	}
	want := names(s.Items())
	require.Equal(t, []string{"C", "D", "E"}, want)
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, want, names(reopened.Items()))
}

func names(items []scene.Entity) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Name
	}
	return out
}
