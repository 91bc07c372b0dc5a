package domain

import (
	"fmt"

	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/pkg/bitset"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Registry is the index-addressed entity table. It owns entity lifetime,
// resolves stored indices into references and keeps the deferred
// add/remove queues drained by World.Commit.
type Registry struct {
	slots    []*Entity
	occupied *bitset.FixedBitSet
	count    int

	// placeholders waiting for an entity at their index, one per expected kind
	deferred map[types.EntityIndex]map[enums.EntityType]*Deferred

	pendingAdd    []*Entity
	pendingRemove []*Entity
}

// NewRegistry creates a registry holding at least capacity entities.
// The capacity is rounded up to a power of two.
func NewRegistry(capacity int) *Registry {
	occupied := bitset.New(capacity)
	return &Registry{
		slots:    make([]*Entity, occupied.Len()),
		occupied: occupied,
		deferred: make(map[types.EntityIndex]map[enums.EntityType]*Deferred),
	}
}

// Capacity is the number of addressable slots.
func (r *Registry) Capacity() int { return len(r.slots) }

// Len is the number of registered entities.
func (r *Registry) Len() int { return r.count }

func (r *Registry) inRange(idx types.EntityIndex) bool {
	return idx >= 0 && int(idx) < len(r.slots)
}

// Get returns the entity registered at idx, nil for empty or invalid slots.
func (r *Registry) Get(idx types.EntityIndex) *Entity {
	if !r.inRange(idx) {
		return nil
	}
	return r.slots[idx]
}

// Register places e in the lowest free slot and returns its index.
func (r *Registry) Register(e *Entity) (types.EntityIndex, error) {
	if !e.index.IsNil() {
		return e.index, nil
	}
	free := r.occupied.FirstClear()
	if free < 0 {
		return types.NilIndex, ErrRegistryFull
	}
	idx := types.EntityIndex(free)
	r.place(idx, e)
	return idx, nil
}

// RegisterAt places e at a given index (used when restoring save states).
func (r *Registry) RegisterAt(idx types.EntityIndex, e *Entity) error {
	if !r.inRange(idx) {
		return fmt.Errorf("register %v: %w", idx, ErrIndexOutOfRange)
	}
	if cur := r.slots[idx]; cur != nil {
		if cur == e {
			return nil
		}
		return fmt.Errorf("register %v: %w", idx, ErrSlotOccupied)
	}
	if !e.index.IsNil() {
		r.Unregister(e.index)
	}
	r.place(idx, e)
	return nil
}

func (r *Registry) place(idx types.EntityIndex, e *Entity) {
	r.slots[idx] = e
	r.occupied.Set(int(idx))
	r.count++
	e.index = idx

	pending, ok := r.deferred[idx]
	if !ok {
		return
	}
	delete(r.deferred, idx)
	for kind, d := range pending {
		d.complete(e)
		if kind != e.Kind() && kind != enums.EntityTypeAny {
			logger.Component("registry").WithFields(logrus.Fields{
				"index":    idx,
				"expected": kind,
				"actual":   e.Kind(),
			}).Warn("deferred reference completed with mismatched kind")
		}
	}
}

// Unregister frees the slot at idx. Unknown indices are ignored.
func (r *Registry) Unregister(idx types.EntityIndex) {
	e := r.Get(idx)
	if e == nil {
		return
	}
	r.slots[idx] = nil
	r.occupied.Reset(int(idx))
	r.count--
	e.index = types.NilIndex
}

// Entities returns every registered entity in index order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, r.count)
	for _, e := range r.slots {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// GetOrCreateReferenceTo resolves idx as a reference expected to behave as kind.
//
//   - registered, same kind (or kind Any): the entity itself
//   - registered, other kind: a Proxy forwarding to it
//   - empty slot: a Deferred placeholder, shared per (idx, kind), completed
//     when an entity registers at idx
//
// NilIndex and indices outside the table yield nil.
func (r *Registry) GetOrCreateReferenceTo(idx types.EntityIndex, kind enums.EntityType) Handle {
	if !r.inRange(idx) {
		return nil
	}

	if e := r.slots[idx]; e != nil {
		if e.Kind() == kind || kind == enums.EntityTypeAny {
			return e
		}
		return NewProxy(e, kind)
	}

	byKind, ok := r.deferred[idx]
	if !ok {
		byKind = make(map[enums.EntityType]*Deferred)
		r.deferred[idx] = byKind
	}
	if d, ok := byKind[kind]; ok {
		return d
	}
	d := &Deferred{index: idx, expected: kind}
	byKind[kind] = d
	return d
}

// PendingReferences counts placeholders still waiting for an entity.
func (r *Registry) PendingReferences() int {
	n := 0
	for _, byKind := range r.deferred {
		n += len(byKind)
	}
	return n
}

// DropUnresolved forgets every pending placeholder; they stay absent for good.
// Returns how many were dropped.
func (r *Registry) DropUnresolved() int {
	n := r.PendingReferences()
	r.deferred = make(map[types.EntityIndex]map[enums.EntityType]*Deferred)
	return n
}

// PendingAdditions is the number of entities queued by Spawn since the last commit.
func (r *Registry) PendingAdditions() int { return len(r.pendingAdd) }

// PendingRemovals is the number of entities queued by Kill since the last commit.
func (r *Registry) PendingRemovals() int { return len(r.pendingRemove) }
