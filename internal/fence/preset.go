// Package fence generates instanced fence geometry from a polyline.
package fence

import "fmt"

// Shape is the unit base geometry an instanced part is stamped from. Box is
// a 1x1x1 cube and Cylinder a unit-height cylinder of diameter 1, both
// centered on the origin.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
)

// DefaultModuleLength is the longest manufactured span of one fence module
const DefaultModuleLength = 2.0

// Preset is a named bundle of geometric defaults for fence generation
type Preset struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	Height    float64 `yaml:"height" json:"height"`
	PostWidth float64 `yaml:"postWidth" json:"postWidth"`
	PostShape Shape   `yaml:"postShape" json:"postShape"`

	Rails      bool    `yaml:"rails" json:"rails"`
	RailShape  Shape   `yaml:"railShape" json:"railShape"`
	RailHeight float64 `yaml:"railHeight" json:"railHeight"`
	RailDepth  float64 `yaml:"railDepth" json:"railDepth"`
	// RailMargin is the distance of the top rail below the post top and of
	// the bottom rail above the ground
	RailMargin float64 `yaml:"railMargin" json:"railMargin"`

	SlatWidth     float64 `yaml:"slatWidth" json:"slatWidth"`
	SlatGap       float64 `yaml:"slatGap" json:"slatGap"`
	SlatThickness float64 `yaml:"slatThickness" json:"slatThickness"`
	// SlatClearance is left free below and above each slat
	SlatClearance  float64 `yaml:"slatClearance" json:"slatClearance"`
	SolidPanel     bool    `yaml:"solidPanel" json:"solidPanel"`
	FixedSlatCount int     `yaml:"fixedSlatCount" json:"fixedSlatCount"`

	// ModuleLength overrides DefaultModuleLength when positive
	ModuleLength float64 `yaml:"moduleLength" json:"moduleLength"`
}

// Validate rejects presets that cannot produce geometry
func (p Preset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("preset without id")
	}
	if p.Height <= 0 || p.PostWidth <= 0 {
		return fmt.Errorf("preset %s: height and post width must be positive", p.ID)
	}
	if !p.SolidPanel && p.FixedSlatCount <= 0 && p.SlatWidth+p.SlatGap <= 0 {
		return fmt.Errorf("preset %s: slat width and gap must be positive", p.ID)
	}
	if p.Rails && (p.RailHeight <= 0 || p.RailDepth <= 0) {
		return fmt.Errorf("preset %s: rail dimensions must be positive", p.ID)
	}
	return nil
}

// Presets is a lookup of presets by id
type Presets map[string]Preset

// Get returns the preset with id, falling back to the classic preset
func (ps Presets) Get(id string) Preset {
	if p, ok := ps[id]; ok {
		return p
	}
	if p, ok := ps[Classic.ID]; ok {
		return p
	}
	return Classic
}

// Classic has two rails with evenly spaced vertical slats
var Classic = Preset{
	ID: "classic", Name: "Classic slatted",
	Height: 1.0, PostWidth: 0.09, PostShape: ShapeBox,
	Rails: true, RailShape: ShapeBox, RailHeight: 0.07, RailDepth: 0.045, RailMargin: 0.15,
	SlatWidth: 0.09, SlatGap: 0.06, SlatThickness: 0.02, SlatClearance: 0.05,
}

// Picket has eight pickets per module regardless of length
var Picket = Preset{
	ID: "picket", Name: "Picket",
	Height: 0.8, PostWidth: 0.07, PostShape: ShapeBox,
	Rails: true, RailShape: ShapeBox, RailHeight: 0.05, RailDepth: 0.03, RailMargin: 0.12,
	SlatWidth: 0.07, SlatGap: 0.1, SlatThickness: 0.018, SlatClearance: 0.04,
	FixedSlatCount: 8,
}

// Panel is a solid board per module between round posts
var Panel = Preset{
	ID: "panel", Name: "Solid panel",
	Height: 1.2, PostWidth: 0.1, PostShape: ShapeCylinder,
	SlatThickness: 0.03, SlatClearance: 0.08, SolidPanel: true,
	ModuleLength: 2.4,
}

// DefaultPresets returns the built-in presets
func DefaultPresets() Presets {
	return Presets{Classic.ID: Classic, Picket.ID: Picket, Panel.ID: Panel}
}
