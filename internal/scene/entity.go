// Package scene holds the canonical description of a layout: the placed
// entities, their variant data and the store abstraction that persists them.
package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

var (
	// ErrNotFound is returned when an operation references a missing entity
	ErrNotFound = errors.New("scene: entity not found")
	// ErrTooFewPoints is returned for floors/fences below their minimum point count
	ErrTooFewPoints = errors.New("scene: too few points")
	// ErrWrongKind is returned when a variant operation targets another kind
	ErrWrongKind = errors.New("scene: wrong entity kind")
	// ErrInvalidGeometry is returned for non-finite coordinates
	ErrInvalidGeometry = errors.New("scene: invalid geometry")
)

// Kind discriminates the entity variants
type Kind string

const (
	KindModel Kind = "model"
	KindFloor Kind = "floor"
	KindFence Kind = "fence"
)

// MinPoints returns the minimum point count for a kind (0 for models)
func (k Kind) MinPoints() int {
	switch k {
	case KindFloor:
		return 3
	case KindFence:
		return 2
	default:
		return 0
	}
}

// Entity is a placed, addressable element of the scene. Points are local to
// Transform and lie on its ground plane; Floor is set only for floors and
// Fence only for fences.
type Entity struct {
	ID        string             `json:"id" yaml:"id"`
	Kind      Kind               `json:"type" yaml:"type"`
	ProductID string             `json:"productId" yaml:"productId"`
	Name      string             `json:"name" yaml:"name"`
	Transform geometry.Transform `json:"transform" yaml:"transform"`

	// Price is the fixed price of a model
	Price float64 `json:"price,omitempty" yaml:"price,omitempty"`
	// Rate is the per-square-unit (floor) or per-unit (fence) price; zero
	// falls back to the calculator's default rate
	Rate float64 `json:"rate,omitempty" yaml:"rate,omitempty"`

	AssetURL string             `json:"asset,omitempty" yaml:"asset,omitempty"`
	Points   []geometry.Vector2 `json:"points,omitempty" yaml:"points,omitempty"`
	Floor    *FloorSpec         `json:"floor,omitempty" yaml:"floor,omitempty"`
	Fence    *FenceConfig       `json:"fence,omitempty" yaml:"fence,omitempty"`
}

// NewID returns a fresh entity identifier
func NewID() string {
	return uuid.NewString()
}

// NewModel creates a model entity at position
func NewModel(productID, name, assetURL string, price float64, position geometry.Vector3) Entity {
	return Entity{
		ID:        NewID(),
		Kind:      KindModel,
		ProductID: productID,
		Name:      name,
		Price:     price,
		AssetURL:  assetURL,
		Transform: geometry.NewTransform(position),
	}
}

// NewFloor creates a floor from local points positioned at center
func NewFloor(productID, name string, center geometry.Vector3, points []geometry.Vector2, spec FloorSpec) Entity {
	return Entity{
		ID:        NewID(),
		Kind:      KindFloor,
		ProductID: productID,
		Name:      name,
		Transform: geometry.NewTransform(center),
		Points:    append([]geometry.Vector2(nil), points...),
		Floor:     &spec,
	}
}

// NewFence creates a fence from local points positioned at center
func NewFence(productID, name string, center geometry.Vector3, points []geometry.Vector2, cfg FenceConfig) Entity {
	cfg = cfg.Clone()
	return Entity{
		ID:        NewID(),
		Kind:      KindFence,
		ProductID: productID,
		Name:      name,
		Transform: geometry.NewTransform(center),
		Points:    append([]geometry.Vector2(nil), points...),
		Fence:     &cfg,
	}
}

// Validate checks the invariants an entity must satisfy to be persisted
func (e Entity) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entity without id")
	}
	if min := e.Kind.MinPoints(); len(e.Points) < min {
		return fmt.Errorf("%s needs %d points, has %d: %w", e.Kind, min, len(e.Points), ErrTooFewPoints)
	}
	for i, p := range e.Points {
		if !p.IsFinite() {
			return fmt.Errorf("point %d: %w", i, ErrInvalidGeometry)
		}
	}
	if !e.Transform.Position.IsFinite() || !e.Transform.Rotation.IsFinite() || !e.Transform.Scale.IsFinite() {
		return fmt.Errorf("transform: %w", ErrInvalidGeometry)
	}
	switch e.Kind {
	case KindModel, KindFloor, KindFence:
	default:
		return fmt.Errorf("unknown entity type %q", e.Kind)
	}
	return nil
}

// WorldPoints returns the entity's points in world space
func (e Entity) WorldPoints() []geometry.Vector3 {
	m := e.Transform.Matrix()
	out := make([]geometry.Vector3, len(e.Points))
	for i, p := range e.Points {
		out[i] = m.TransformPoint(p.Lift(0))
	}
	return out
}

// Clone returns a deep copy of the entity
func (e Entity) Clone() Entity {
	var out Entity
	if err := copier.CopyWithOption(&out, &e, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched types; fall back to a manual copy
		out = e
		out.Points = append([]geometry.Vector2(nil), e.Points...)
		if e.Floor != nil {
			f := *e.Floor
			out.Floor = &f
		}
		if e.Fence != nil {
			c := e.Fence.Clone()
			out.Fence = &c
		}
	}
	// copier may allocate empty values for nil sources; keep absent parts absent
	if e.Points == nil {
		out.Points = nil
	}
	if e.Floor == nil {
		out.Floor = nil
	}
	if e.Fence == nil {
		out.Fence = nil
	} else if e.Fence.SlatColors == nil && out.Fence != nil {
		out.Fence.SlatColors = nil
	}
	return out
}

// CloneAll deep-copies a list of entities
func CloneAll(items []Entity) []Entity {
	out := make([]Entity, len(items))
	for i, e := range items {
		out[i] = e.Clone()
	}
	return out
}

// Find returns the index of the entity with id, or -1
func Find(items []Entity, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
