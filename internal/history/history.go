// Package history keeps bounded undo/redo stacks of whole-scene snapshots.
package history

import "github.com/philipparndt/yardplan/internal/scene"

// DefaultCap is the number of undo steps kept
const DefaultCap = 30

// History is an undo/redo stack of deep-copied entity lists
type History struct {
	cap  int
	undo [][]scene.Entity
	redo [][]scene.Entity
}

// New returns a history keeping at most capacity undo snapshots
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &History{cap: capacity}
}

// Save records items as an undo point and clears the redo stack
func (h *History) Save(items []scene.Entity) {
	h.undo = append(h.undo, scene.CloneAll(items))
	if len(h.undo) > h.cap {
		h.undo = h.undo[len(h.undo)-h.cap:]
	}
	h.redo = nil
}

// Undo returns the previous snapshot. current is pushed onto the redo stack.
// ok is false when there is nothing to undo.
func (h *History) Undo(current []scene.Entity) ([]scene.Entity, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, scene.CloneAll(current))
	return scene.CloneAll(prev), true
}

// Redo is the mirror of Undo
func (h *History) Redo(current []scene.Entity) ([]scene.Entity, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, scene.CloneAll(current))
	return scene.CloneAll(next), true
}

// CanUndo reports whether an undo step exists
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step exists
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo snapshots
func (h *History) Len() int { return len(h.undo) }

// Clear drops all snapshots
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}
