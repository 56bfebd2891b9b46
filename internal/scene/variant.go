package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// FloorMaterial is one of the built-in ground surfaces
type FloorMaterial string

const (
	MaterialGrass     FloorMaterial = "grass"
	MaterialRubber    FloorMaterial = "rubber"
	MaterialSand      FloorMaterial = "sand"
	MaterialWoodchips FloorMaterial = "woodchips"
	MaterialConcrete  FloorMaterial = "concrete"
	MaterialPavers    FloorMaterial = "pavers"
)

var materialColors = map[FloorMaterial]color.RGBA{
	MaterialGrass:     {R: 86, G: 140, B: 62, A: 255},
	MaterialRubber:    {R: 178, G: 64, B: 52, A: 255},
	MaterialSand:      {R: 222, G: 200, B: 150, A: 255},
	MaterialWoodchips: {R: 140, G: 98, B: 60, A: 255},
	MaterialConcrete:  {R: 160, G: 160, B: 160, A: 255},
	MaterialPavers:    {R: 190, G: 170, B: 160, A: 255},
}

// Valid reports whether m is a known material
func (m FloorMaterial) Valid() bool {
	_, ok := materialColors[m]
	return ok
}

// Color returns the display colour of the material (grey when unknown)
func (m FloorMaterial) Color() color.RGBA {
	if c, ok := materialColors[m]; ok {
		return c
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

// FloorSpec is the surface description of a floor. Material and TextureURL
// are mutually exclusive.
type FloorSpec struct {
	Material        FloorMaterial `json:"material,omitempty" yaml:"material,omitempty"`
	TextureURL      string        `json:"texture,omitempty" yaml:"texture,omitempty"`
	TextureScale    float64       `json:"textureScale,omitempty" yaml:"textureScale,omitempty"`
	TextureRotation float64       `json:"textureRotation,omitempty" yaml:"textureRotation,omitempty"`
}

// SetMaterial selects a built-in material and clears any texture along
// with its scale and rotation
func (f *FloorSpec) SetMaterial(m FloorMaterial) {
	*f = FloorSpec{Material: m}
}

// SetTexture selects an external texture and clears the material
func (f *FloorSpec) SetTexture(url string, scale, rotation float64) {
	f.Material = ""
	f.TextureURL = url
	f.TextureScale = scale
	f.TextureRotation = rotation
}

// Color is a "#rrggbb" hex colour string
type Color string

// RGBA parses the colour; malformed values give opaque grey
func (c Color) RGBA() color.RGBA {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// HexColor formats an RGBA value as a Color
func HexColor(c color.RGBA) Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// FenceConfig is the user configuration of a fence: a preset plus colours
// for the posts/structure and up to three slat tiers.
type FenceConfig struct {
	Preset     string  `json:"preset" yaml:"preset"`
	PostColor  Color   `json:"postColor" yaml:"postColor"`
	SlatColors []Color `json:"slatColors,omitempty" yaml:"slatColors,omitempty"`
}

// MaxSlatTiers is the number of slat colours cycled through
const MaxSlatTiers = 3

// Clone returns a deep copy of the configuration
func (c FenceConfig) Clone() FenceConfig {
	c.SlatColors = append([]Color(nil), c.SlatColors...)
	return c
}

// SlatColor returns the colour of the i-th slat, cycling through the tiers
func (c FenceConfig) SlatColor(i int) Color {
	tiers := c.SlatColors
	if len(tiers) > MaxSlatTiers {
		tiers = tiers[:MaxSlatTiers]
	}
	if len(tiers) == 0 {
		return c.PostColor
	}
	return tiers[i%len(tiers)]
}
