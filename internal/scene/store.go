package scene

import (
	"fmt"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

// Store is the persistence authority for the entity list. Reads return deep
// copies so callers never alias stored state.
type Store interface {
	Items() []Entity
	Get(id string) (Entity, bool)
	Add(e Entity) error
	UpdateTransform(id string, t geometry.Transform) error
	UpdatePoints(id string, points []geometry.Vector2) error
	UpdateFenceConfig(id string, cfg FenceConfig) error
	UpdateFloorSpec(id string, spec FloorSpec) error
	UpdatePrice(id string, price float64) error
	Remove(id string) error
	// Replace swaps the whole list, used when applying history snapshots
	Replace(items []Entity) error
}

// MemoryStore keeps the entity list in memory
type MemoryStore struct {
	items []Entity
}

// NewMemoryStore returns a store pre-filled with a copy of items
func NewMemoryStore(items ...Entity) *MemoryStore {
	return &MemoryStore{items: CloneAll(items)}
}

// Items returns a copy of the entity list
func (s *MemoryStore) Items() []Entity {
	return CloneAll(s.items)
}

// Get returns a copy of one entity
func (s *MemoryStore) Get(id string) (Entity, bool) {
	i := Find(s.items, id)
	if i < 0 {
		return Entity{}, false
	}
	return s.items[i].Clone(), true
}

// Add validates and appends an entity
func (s *MemoryStore) Add(e Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if Find(s.items, e.ID) >= 0 {
		return fmt.Errorf("entity %s already exists", e.ID)
	}
	s.items = append(s.items, e.Clone())
	return nil
}

// UpdateTransform replaces the transform of an entity
func (s *MemoryStore) UpdateTransform(id string, t geometry.Transform) error {
	return s.update(id, func(e *Entity) error {
		e.Transform = t
		return nil
	})
}

// UpdatePoints replaces the local point list of a floor or fence
func (s *MemoryStore) UpdatePoints(id string, points []geometry.Vector2) error {
	return s.update(id, func(e *Entity) error {
		return ApplyPoints(e, points)
	})
}

// UpdateFenceConfig replaces the configuration of a fence
func (s *MemoryStore) UpdateFenceConfig(id string, cfg FenceConfig) error {
	return s.update(id, func(e *Entity) error {
		return ApplyFenceConfig(e, cfg)
	})
}

// UpdateFloorSpec replaces the surface of a floor
func (s *MemoryStore) UpdateFloorSpec(id string, spec FloorSpec) error {
	return s.update(id, func(e *Entity) error {
		return ApplyFloorSpec(e, spec)
	})
}

// UpdatePrice overrides the fixed price of a model
func (s *MemoryStore) UpdatePrice(id string, price float64) error {
	return s.update(id, func(e *Entity) error {
		return ApplyPrice(e, price)
	})
}

// Remove deletes an entity
func (s *MemoryStore) Remove(id string) error {
	i := Find(s.items, id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Replace swaps the whole list
func (s *MemoryStore) Replace(items []Entity) error {
	for _, e := range items {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	s.items = CloneAll(items)
	return nil
}

func (s *MemoryStore) update(id string, fn func(*Entity) error) error {
	i := Find(s.items, id)
	if i < 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	e := s.items[i].Clone()
	if err := fn(&e); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	s.items[i] = e
	return nil
}

// ApplyPoints sets the points of a floor or fence in place
func ApplyPoints(e *Entity, points []geometry.Vector2) error {
	if e.Kind != KindFloor && e.Kind != KindFence {
		return fmt.Errorf("points on %s: %w", e.Kind, ErrWrongKind)
	}
	e.Points = append([]geometry.Vector2(nil), points...)
	return nil
}

// ApplyFenceConfig sets the configuration of a fence in place
func ApplyFenceConfig(e *Entity, cfg FenceConfig) error {
	if e.Kind != KindFence {
		return fmt.Errorf("fence config on %s: %w", e.Kind, ErrWrongKind)
	}
	c := cfg.Clone()
	e.Fence = &c
	return nil
}

// ApplyFloorSpec sets the surface of a floor in place
func ApplyFloorSpec(e *Entity, spec FloorSpec) error {
	if e.Kind != KindFloor {
		return fmt.Errorf("floor spec on %s: %w", e.Kind, ErrWrongKind)
	}
	e.Floor = &spec
	return nil
}

// ApplyPrice sets the fixed price of a model in place
func ApplyPrice(e *Entity, price float64) error {
	if e.Kind != KindModel {
		return fmt.Errorf("fixed price on %s: %w", e.Kind, ErrWrongKind)
	}
	e.Price = price
	return nil
}
