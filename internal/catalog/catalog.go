// Package catalog provides the read-only product definitions that can be
// placed or drawn, loaded from a YAML file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/scene"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProduct is returned when a product id is not in the catalog
var ErrUnknownProduct = errors.New("catalog: unknown product")

// Product is a purchasable catalog entry. Type tells whether it is placed
// as a model or drawn as a floor or fence.
type Product struct {
	ID       string              `yaml:"id" json:"id"`
	Name     string              `yaml:"name" json:"name"`
	Type     scene.Kind          `yaml:"type" json:"type"`
	Price    float64             `yaml:"price,omitempty" json:"price,omitempty"`
	Rate     float64             `yaml:"rate,omitempty" json:"rate,omitempty"`
	AssetURL string              `yaml:"asset,omitempty" json:"asset,omitempty"`
	Preset   string              `yaml:"preset,omitempty" json:"preset,omitempty"`
	Material scene.FloorMaterial `yaml:"material,omitempty" json:"material,omitempty"`
	// Colors seed the fence configuration: first is the post colour, the
	// rest are slat tiers
	Colors []scene.Color `yaml:"colors,omitempty" json:"colors,omitempty"`
}

// FenceConfig returns the initial fence configuration for a fence product
func (p Product) FenceConfig() scene.FenceConfig {
	cfg := scene.FenceConfig{Preset: p.Preset, PostColor: "#6b4f3a"}
	if len(p.Colors) > 0 {
		cfg.PostColor = p.Colors[0]
		cfg.SlatColors = append([]scene.Color(nil), p.Colors[1:]...)
	}
	return cfg
}

// FloorSpec returns the initial surface for a floor product
func (p Product) FloorSpec() scene.FloorSpec {
	m := p.Material
	if m == "" {
		m = scene.MaterialGrass
	}
	return scene.FloorSpec{Material: m}
}

type file struct {
	Products []Product      `yaml:"products"`
	Presets  []fence.Preset `yaml:"presets"`
}

// Catalog is an immutable set of products and fence presets
type Catalog struct {
	products map[string]Product
	order    []string
	presets  fence.Presets
}

// New builds a catalog from products; presets extend the built-in ones
func New(products []Product, presets ...fence.Preset) (*Catalog, error) {
	c := &Catalog{
		products: make(map[string]Product, len(products)),
		presets:  fence.DefaultPresets(),
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		c.presets[p.ID] = p
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		switch p.Type {
		case scene.KindModel:
			if p.AssetURL == "" {
				return nil, fmt.Errorf("model %s has no asset", p.ID)
			}
		case scene.KindFence:
			if p.Preset == "" {
				p.Preset = fence.Classic.ID
			}
			if _, ok := c.presets[p.Preset]; !ok {
				return nil, fmt.Errorf("fence %s references unknown preset %s", p.ID, p.Preset)
			}
		case scene.KindFloor:
			if p.Material != "" && !p.Material.Valid() {
				return nil, fmt.Errorf("floor %s has unknown material %s", p.ID, p.Material)
			}
		default:
			return nil, fmt.Errorf("product %s has unknown type %q", p.ID, p.Type)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Parse decodes a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Products, f.Presets...)
}

// Load reads a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Lookup returns the product with id
func (c *Catalog) Lookup(id string) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%s: %w", id, ErrUnknownProduct)
	}
	return p, nil
}

// Products returns all products in file order
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// OfType returns the products of one kind in file order
func (c *Catalog) OfType(kind scene.Kind) []Product {
	var out []Product
	for _, p := range c.Products() {
		if p.Type == kind {
			out = append(out, p)
		}
	}
	return out
}

// Preset returns a fence preset, falling back to classic
func (c *Catalog) Preset(id string) fence.Preset {
	return c.presets.Get(id)
}

// PresetIDs returns the sorted preset ids
func (c *Catalog) PresetIDs() []string {
	ids := make([]string, 0, len(c.presets))
	for id := range c.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default is a small built-in catalog used when no file is configured
func Default() *Catalog {
	c, _ := New([]Product{
		{ID: "grass", Name: "Artificial grass", Type: scene.KindFloor, Material: scene.MaterialGrass, Rate: 28},
		{ID: "rubber", Name: "Rubber safety tiles", Type: scene.KindFloor, Material: scene.MaterialRubber, Rate: 35},
		{ID: "sand", Name: "Play sand", Type: scene.KindFloor, Material: scene.MaterialSand, Rate: 12},
		{ID: "fence-classic", Name: "Classic fence", Type: scene.KindFence, Preset: "classic", Rate: 45,
			Colors: []scene.Color{"#5a4632", "#c49a6c", "#a67c52"}},
		{ID: "fence-picket", Name: "Picket fence", Type: scene.KindFence, Preset: "picket", Rate: 39,
			Colors: []scene.Color{"#ffffff", "#ffffff"}},
		{ID: "fence-panel", Name: "Panel fence", Type: scene.KindFence, Preset: "panel", Rate: 62,
			Colors: []scene.Color{"#3d3d3d", "#2e7d32"}},
	})
	return c
}
