package domain

import (
	"fmt"

	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Entity is a simulated object. Its lifetime is owned by the world registry;
// parent and children are index lookups, never owning pointers.
type Entity struct {
	world    *World
	behavior Behavior

	index       types.EntityIndex
	lifecycle   enums.Lifecycle
	respawnable bool
	// committed is true while the entity is part of the live iteration set
	committed bool

	origin     Vector
	lastOrigin Vector
	hitbox     Box

	parent   types.EntityIndex
	children []types.EntityIndex

	// sorted by index, mutated only by updateTouching
	touching []*Entity
	// touch references read from a save state, resolved by World.FinishRestore
	restoreTouch []Handle
}

func newEntity(w *World, b Behavior, origin Vector) *Entity {
	return &Entity{
		world:      w,
		behavior:   b,
		index:      types.NilIndex,
		lifecycle:  enums.LifecycleUnborn,
		origin:     origin,
		lastOrigin: origin,
		parent:     types.NilIndex,
	}
}

// NewEntity builds an unborn entity and registers it in the lowest free slot.
// It becomes live only after Spawn and the next World.Commit.
func NewEntity(w *World, b Behavior, origin Vector) (*Entity, error) {
	e := newEntity(w, b, origin)
	if _, err := w.Registry.Register(e); err != nil {
		return nil, fmt.Errorf("new %v entity: %w", b.Kind(), err)
	}
	return e, nil
}

// RestoreEntity builds an entity at a fixed index. Used by the state loader,
// the base fields are filled afterwards through Restore.
func RestoreEntity(w *World, b Behavior, idx types.EntityIndex) (*Entity, error) {
	e := newEntity(w, b, Vector{})
	if err := w.Registry.RegisterAt(idx, e); err != nil {
		return nil, fmt.Errorf("restore %v entity: %w", b.Kind(), err)
	}
	return e, nil
}

func (e *Entity) log() *logrus.Entry {
	return logger.Component("entity").WithFields(logrus.Fields{
		"index": e.index,
		"kind":  e.Kind(),
	})
}

// Spawn makes the entity alive and queues it for the next commit.
// Spawning a live entity does nothing.
func (e *Entity) Spawn() error {
	if e.lifecycle == enums.LifecycleAlive {
		return nil
	}
	if e.index.IsNil() {
		if _, err := e.world.Registry.Register(e); err != nil {
			return fmt.Errorf("spawn %v: %w", e.Kind(), err)
		}
	}

	e.lifecycle = enums.LifecycleAlive
	e.world.Registry.pendingAdd = append(e.world.Registry.pendingAdd, e)
	e.log().Debug("spawned")
	return nil
}

// Kill marks the entity for removal at the next commit, detaches its
// children and fires the death hook. Killing a non-alive entity does nothing.
func (e *Entity) Kill() {
	if e.lifecycle != enums.LifecycleAlive {
		return
	}

	e.lifecycle = enums.LifecycleMarkedForRemoval
	e.world.Registry.pendingRemove = append(e.world.Registry.pendingRemove, e)

	e.unlink()

	e.log().Debug("killed")
	e.behavior.Death(e)
}

// Alive reports whether the entity was spawned and not killed since.
func (e *Entity) Alive() bool { return e.lifecycle == enums.LifecycleAlive }

func (e *Entity) dead() bool {
	return e.lifecycle == enums.LifecycleMarkedForRemoval || e.lifecycle == enums.LifecycleRemoved
}

// MarkedToRemove reports whether the entity waits for its removal commit.
func (e *Entity) MarkedToRemove() bool { return e.lifecycle == enums.LifecycleMarkedForRemoval }

func (e *Entity) State() enums.Lifecycle { return e.lifecycle }

// SetRespawnable makes the entity keep its index when removed, so that
// references to it stay valid across a later Spawn.
func (e *Entity) SetRespawnable(v bool) { e.respawnable = v }
func (e *Entity) Respawnable() bool { return e.respawnable }

// InWorld reports whether the entity is part of the committed live set.
func (e *Entity) InWorld() bool { return e.committed }

func (e *Entity) World() *World { return e.world }
func (e *Entity) Behavior() Behavior { return e.behavior }
func (e *Entity) Hitbox() Box { return e.hitbox }
func (e *Entity) LastOrigin() Vector { return e.lastOrigin }
func (e *Entity) Kind() enums.EntityType { return e.behavior.Kind() }

// SetHitbox sets the box relative to the origin.
func (e *Entity) SetHitbox(b Box) {
	e.hitbox = b
	e.reindex()
}

// Handle implementation: an entity is its own direct reference.

func (e *Entity) Index() types.EntityIndex { return e.index }
func (e *Entity) Expected() enums.EntityType { return e.Kind() }
func (e *Entity) Target() *Entity { return e }
func (e *Entity) Resolved() bool { return true }
func (e *Entity) Origin() Vector { return e.origin }

// BoundingBox is the absolute box used for overlap detection.
func (e *Entity) BoundingBox() Box { return e.behavior.BoundingBox(e) }

func (e *Entity) String() string {
	return fmt.Sprintf("%v%v", e.Kind(), e.index)
}

func (e *Entity) reindex() {
	if e.committed && e.world.Spatial != nil {
		e.world.Spatial.Update(e)
	}
}

// BaseState is the persisted part of an entity shared by every kind.
type BaseState struct {
	Lifecycle   enums.Lifecycle
	Respawnable bool
	Committed   bool
	Origin      Vector
	LastOrigin  Vector
	Hitbox      Box
	Parent      types.EntityIndex
	Children    []types.EntityIndex
	Touching    []Handle
}

// Snapshot captures the base state for saving.
func (e *Entity) Snapshot() BaseState {
	touching := make([]Handle, len(e.touching))
	for i, o := range e.touching {
		touching[i] = o
	}
	return BaseState{
		Lifecycle:   e.lifecycle,
		Respawnable: e.respawnable,
		Committed:   e.committed,
		Origin:      e.origin,
		LastOrigin:  e.lastOrigin,
		Hitbox:      e.hitbox,
		Parent:      e.parent,
		Children:    append([]types.EntityIndex(nil), e.children...),
		Touching:    touching,
	}
}

// Restore overwrites the base state from a save. Links are taken as stored
// and validated by World.FinishRestore once every record is read.
func (e *Entity) Restore(s BaseState) {
	e.lifecycle = s.Lifecycle
	e.respawnable = s.Respawnable
	e.committed = s.Committed
	e.origin = s.Origin
	e.lastOrigin = s.LastOrigin
	e.hitbox = s.Hitbox
	e.parent = s.Parent
	e.children = append([]types.EntityIndex(nil), s.Children...)
	e.touching = nil
	e.restoreTouch = s.Touching
}
