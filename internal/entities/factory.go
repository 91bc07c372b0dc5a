// Package entities holds the concrete entity kinds and the factory used by
// spawning and by the state loader.
package entities

import (
	"fmt"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
)

type constructor func() domain.Behavior

var constructors = map[enums.EntityType]constructor{
	enums.EntityTypePlayer:     func() domain.Behavior { return NewPlayer() },
	enums.EntityTypeEnemy:      func() domain.Behavior { return NewEnemy() },
	enums.EntityTypeBoss:       func() domain.Behavior { return NewBoss() },
	enums.EntityTypeProjectile: func() domain.Behavior { return NewProjectile() },
	enums.EntityTypeCheckpoint: func() domain.Behavior { return NewCheckpoint() },
	enums.EntityTypePlatform:   func() domain.Behavior { return NewPlatform() },
}

// New returns a fresh behavior of the given kind with its default fields.
// EntityTypeAny and unknown kinds fail with enums.ErrInvalidArgument.
func New(kind enums.EntityType) (domain.Behavior, error) {
	c, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("no constructor for kind %v: %w", kind, enums.ErrInvalidArgument)
	}
	return c(), nil
}

// Hitbox returns the default box of a kind, relative to its origin.
func Hitbox(kind enums.EntityType) domain.Box {
	switch kind {
	case enums.EntityTypePlayer:
		return domain.CenteredBox(14, 30)
	case enums.EntityTypeEnemy:
		return domain.CenteredBox(16, 16)
	case enums.EntityTypeBoss:
		return domain.CenteredBox(48, 48)
	case enums.EntityTypeProjectile:
		return domain.CenteredBox(6, 6)
	case enums.EntityTypeCheckpoint:
		return domain.CenteredBox(16, 64)
	case enums.EntityTypePlatform:
		return domain.BoxAt(-32, 0, 64, 8)
	}
	return domain.Box{}
}

// Facer is implemented by kinds that have an orientation.
type Facer interface {
	SetFacing(d enums.Direction)
}

// Spawn builds an entity of kind at origin and queues it for the next commit.
func Spawn(w *domain.World, kind enums.EntityType, origin domain.Vector, facing enums.Direction) (*domain.Entity, error) {
	b, err := New(kind)
	if err != nil {
		return nil, err
	}
	if f, ok := b.(Facer); ok && facing != enums.DirectionNone {
		f.SetFacing(facing)
	}
	if h, ok := b.(homed); ok {
		h.setHome(origin)
	}

	e, err := domain.NewEntity(w, b, origin)
	if err != nil {
		return nil, err
	}
	e.SetHitbox(Hitbox(kind))
	if r, ok := b.(Respawner); ok {
		e.SetRespawnable(r.RespawnDelay() > 0)
	}
	if err := e.Spawn(); err != nil {
		return nil, err
	}
	return e, nil
}

type homed interface {
	setHome(v domain.Vector)
}

// Respawner is implemented by kinds that come back after being removed.
type Respawner interface {
	// RespawnDelay is the number of ticks between removal and respawn.
	RespawnDelay() int64
	DiedAt() int64
	// Revive resets the kind state right before the entity spawns again.
	Revive(e *domain.Entity)
}

// RespawnDue spawns again every removed respawnable entity whose delay
// elapsed. They join the live set at the next commit. Returns the count.
func RespawnDue(w *domain.World) int {
	n := 0
	for _, e := range w.Registry.Entities() {
		if e.State() != enums.LifecycleRemoved || !e.Respawnable() {
			continue
		}
		r, ok := e.Behavior().(Respawner)
		if !ok || w.Tick()-r.DiedAt() < r.RespawnDelay() {
			continue
		}
		r.Revive(e)
		if err := e.Spawn(); err == nil {
			n++
		}
	}
	return n
}

func readDirection(r domain.StateReader) enums.Direction {
	d, err := enums.DirectionFromByte(r.ReadUint8())
	if err != nil {
		r.Fail(err)
	}
	return d
}

// ref resolves e as a reference of the expected kind: the entity itself
// when kinds agree, a proxy otherwise.
func ref(e *domain.Entity, expected enums.EntityType) domain.Handle {
	if e == nil || e.Index().IsNil() {
		return nil
	}
	return e.World().Registry.GetOrCreateReferenceTo(e.Index(), expected)
}
