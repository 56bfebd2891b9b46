// Package pricing derives monetary values from entity geometry. It is the
// only place prices are computed; callers never cache them.
package pricing

import (
	"math"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Calculator prices entities with default per-unit rates. An entity's own
// Rate takes precedence over the defaults.
type Calculator struct {
	AreaRate   float64 `yaml:"areaRate" json:"areaRate"`
	LengthRate float64 `yaml:"lengthRate" json:"lengthRate"`
}

// New returns a calculator with the given default rates
func New(areaRate, lengthRate float64) Calculator {
	return Calculator{AreaRate: areaRate, LengthRate: lengthRate}
}

// Line is one priced entry of a breakdown
type Line struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     scene.Kind `json:"type"`
	Quantity float64    `json:"quantity"`
	Unit     string     `json:"unit"`
	Rate     float64    `json:"rate"`
	Price    float64    `json:"price"`
}

// Measure returns the geometric quantity an entity is priced by: area for
// floors, path length for fences, 1 for models.
func Measure(e scene.Entity) (float64, string) {
	switch e.Kind {
	case scene.KindFloor:
		return geometry.Area(e.Points), "m²"
	case scene.KindFence:
		return geometry.PathLength(e.Points), "m"
	default:
		return 1, "pcs"
	}
}

// Rate returns the per-unit rate applied to e
func (c Calculator) Rate(e scene.Entity) float64 {
	switch e.Kind {
	case scene.KindFloor:
		if e.Rate > 0 {
			return e.Rate
		}
		return c.AreaRate
	case scene.KindFence:
		if e.Rate > 0 {
			return e.Rate
		}
		return c.LengthRate
	default:
		return e.Price
	}
}

// Price returns the price of a single entity
func (c Calculator) Price(e scene.Entity) float64 {
	qty, _ := Measure(e)
	p := qty * c.Rate(e)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// Total sums the price of all entities
func (c Calculator) Total(items []scene.Entity) float64 {
	total := 0.0
	for _, e := range items {
		total += c.Price(e)
	}
	return total
}

// Breakdown returns one line per entity plus the total
func (c Calculator) Breakdown(items []scene.Entity) ([]Line, float64) {
	lines := make([]Line, 0, len(items))
	total := 0.0
	for _, e := range items {
		qty, unit := Measure(e)
		line := Line{
			ID:       e.ID,
			Name:     e.Name,
			Kind:     e.Kind,
			Quantity: qty,
			Unit:     unit,
			Rate:     c.Rate(e),
			Price:    c.Price(e),
		}
		total += line.Price
		lines = append(lines, line)
	}
	return lines, total
}
