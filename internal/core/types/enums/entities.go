package enums

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned by every conversion into an enum when the
// input is outside the defined domain. There is no silent default.
var ErrInvalidArgument = errors.New("invalid argument")

// EntityType is the concrete kind of an entity. It is also the "expected
// kind" carried by references.
type EntityType uint8

const (
	// EntityTypeAny is the root kind; every kind IsA EntityTypeAny.
	EntityTypeAny EntityType = iota
	EntityTypePlayer
	EntityTypeEnemy
	EntityTypeBoss // a specialised Enemy
	EntityTypeProjectile
	EntityTypeCheckpoint
	EntityTypePlatform

	entityTypeCount
)

var entityTypeToString = map[EntityType]string{
	EntityTypeAny:        "ANY",
	EntityTypePlayer:     "PLAYER",
	EntityTypeEnemy:      "ENEMY",
	EntityTypeBoss:       "BOSS",
	EntityTypeProjectile: "PROJECTILE",
	EntityTypeCheckpoint: "CHECKPOINT",
	EntityTypePlatform:   "PLATFORM",
}

var entityTypeStringToType = map[string]EntityType{
	"ANY":        EntityTypeAny,
	"PLAYER":     EntityTypePlayer,
	"ENEMY":      EntityTypeEnemy,
	"BOSS":       EntityTypeBoss,
	"PROJECTILE": EntityTypeProjectile,
	"CHECKPOINT": EntityTypeCheckpoint,
	"PLATFORM":   EntityTypePlatform,
}

// entityTypeBase is the direct super-kind of each kind.
var entityTypeBase = map[EntityType]EntityType{
	EntityTypePlayer:     EntityTypeAny,
	EntityTypeEnemy:      EntityTypeAny,
	EntityTypeBoss:       EntityTypeEnemy,
	EntityTypeProjectile: EntityTypeAny,
	EntityTypeCheckpoint: EntityTypeAny,
	EntityTypePlatform:   EntityTypeAny,
}

// String returns the upper-case name used in configs and logs.
func (e EntityType) String() string {
	if val, ok := entityTypeToString[e]; ok {
		return val
	}
	return fmt.Sprintf("EntityType(%d)", uint8(e))
}

// Valid reports whether e is one of the defined kinds.
func (e EntityType) Valid() bool {
	return e < entityTypeCount
}

// IsA reports whether e is other or one of its sub-kinds.
func (e EntityType) IsA(other EntityType) bool {
	for k := e; ; {
		if k == other {
			return true
		}
		base, ok := entityTypeBase[k]
		if !ok {
			return false
		}
		k = base
	}
}

// ParseEntityType converts a config/debug string into a kind (case-insensitive).
func ParseEntityType(s string) (EntityType, error) {
	if val, ok := entityTypeStringToType[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return val, nil
	}
	return EntityTypeAny, fmt.Errorf("entity type %q: %w", s, ErrInvalidArgument)
}

// EntityTypeFromByte converts a persisted kind byte.
func EntityTypeFromByte(b uint8) (EntityType, error) {
	e := EntityType(b)
	if !e.Valid() {
		return EntityTypeAny, fmt.Errorf("entity type byte %d: %w", b, ErrInvalidArgument)
	}
	return e, nil
}
