package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
products:
  - id: slide
    name: Wave slide
    type: model
    price: 1299
    asset: models/slide.stl
  - id: bark
    name: Bark mulch
    type: floor
    material: woodchips
    rate: 18
  - id: low-fence
    name: Low fence
    type: fence
    preset: garden
    colors: ["#222222", "#ff0000"]
presets:
  - id: garden
    name: Garden
    height: 0.6
    postWidth: 0.06
    slatWidth: 0.05
    slatGap: 0.05
    slatThickness: 0.015
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	slide, err := c.Lookup("slide")
	require.NoError(t, err)
	assert.Equal(t, scene.KindModel, slide.Type)
	assert.Equal(t, 1299.0, slide.Price)

	fenceProduct, err := c.Lookup("low-fence")
	require.NoError(t, err)
	cfg := fenceProduct.FenceConfig()
	assert.Equal(t, scene.Color("#222222"), cfg.PostColor)
	assert.Equal(t, []scene.Color{"#ff0000"}, cfg.SlatColors)
	assert.Equal(t, 0.6, c.Preset("garden").Height)
	assert.Contains(t, c.PresetIDs(), "classic")

	assert.Len(t, c.OfType(scene.KindFloor), 1)
	assert.Equal(t, []string{"slide", "bark", "low-fence"}, ids(c.Products()))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("trampoline")
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestRejectsInvalidProducts(t *testing.T) {
	cases := map[string]string{
		"model without asset": "products: [{id: a, type: model}]",
		"unknown preset":      "products: [{id: a, type: fence, preset: nope}]",
		"unknown type":        "products: [{id: a, type: pond}]",
		"duplicate":           "products: [{id: a, type: floor}, {id: a, type: floor}]",
		"bad material":        "products: [{id: a, type: floor, material: lava}]",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	for _, p := range c.OfType(scene.KindFence) {
		assert.Equal(t, p.Preset, c.Preset(p.Preset).ID)
	}
	assert.Equal(t, scene.MaterialGrass, Product{Type: scene.KindFloor}.FloorSpec().Material)
}

func TestReloaderPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	r, err := NewReloader(path, slog.Default())
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(path, []byte("products: [{id: sand, type: floor}]\n"), 0644))

	deadline := time.Now().Add(5 * time.Second)
	for !r.Poll() {
		if time.Now().After(deadline) {
			t.Fatal("catalog was not reloaded")
		}
		time.Sleep(20 * time.Millisecond)
	}
	_, err = r.Catalog().Lookup("sand")
	assert.NoError(t, err)
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
