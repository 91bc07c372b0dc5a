package domain

import (
	"fmt"

	"github.com/sharivan/XSharp-sub001/internal/core/types"
)

// Parent returns the entity this one is attached to, nil for roots.
func (e *Entity) Parent() *Entity {
	if e.parent.IsNil() {
		return nil
	}
	return e.world.Registry.Get(e.parent)
}

// Children returns the attached entities in attach order.
func (e *Entity) Children() []*Entity {
	out := make([]*Entity, 0, len(e.children))
	for _, idx := range e.children {
		if c := e.world.Registry.Get(idx); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// IsAncestorOf reports whether e is somewhere above o in the hierarchy.
func (e *Entity) IsAncestorOf(o *Entity) bool {
	for p := o.Parent(); p != nil; p = p.Parent() {
		if p == e {
			return true
		}
	}
	return false
}

// SetParent attaches e under p, nil detaches it. A parent that is e itself
// or one of its descendants fails with ErrCyclicParenting and nothing changes.
// Killed or removed entities can only be detached.
func (e *Entity) SetParent(p *Entity) error {
	if p == e.Parent() {
		return nil
	}
	if e.index.IsNil() {
		return fmt.Errorf("set parent of %v: %w", e, ErrNotRegistered)
	}
	if p != nil {
		if p.index.IsNil() {
			return fmt.Errorf("set parent of %v to %v: %w", e, p, ErrNotRegistered)
		}
		if e.dead() || p.dead() {
			return fmt.Errorf("set parent of %v to %v: %w", e, p, ErrNotAlive)
		}
		if p == e || e.IsAncestorOf(p) {
			return fmt.Errorf("set parent of %v to %v: %w", e, p, ErrCyclicParenting)
		}
	}

	e.detachFromParent()
	if p != nil {
		e.parent = p.index
		p.children = append(p.children, e.index)
	}
	return nil
}

func (e *Entity) detachFromParent() {
	if old := e.Parent(); old != nil {
		old.removeChild(e.index)
	}
	e.parent = types.NilIndex
}

// orphanChildren clears the parent link of every child and forgets them.
func (e *Entity) orphanChildren() {
	for _, idx := range e.children {
		if c := e.world.Registry.Get(idx); c != nil && c.parent == e.index {
			c.parent = types.NilIndex
		}
	}
	e.children = nil
}

// unlink takes e out of the hierarchy on both sides.
func (e *Entity) unlink() {
	e.orphanChildren()
	e.detachFromParent()
}

func (e *Entity) removeChild(idx types.EntityIndex) {
	for i, c := range e.children {
		if c == idx {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// SetOrigin moves the entity and carries every descendant by the same delta,
// depth first. Moving a child never moves its parent.
func (e *Entity) SetOrigin(v Vector) {
	delta := v.Sub(e.origin)
	e.lastOrigin = e.origin
	e.origin = v
	e.reindex()

	if delta.IsZero() {
		return
	}
	for _, idx := range e.children {
		if c := e.world.Registry.Get(idx); c != nil {
			c.SetOrigin(c.origin.Add(delta))
		}
	}
}

// Move is SetOrigin relative to the current origin.
func (e *Entity) Move(delta Vector) {
	e.SetOrigin(e.origin.Add(delta))
}
