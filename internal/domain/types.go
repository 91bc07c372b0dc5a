package domain

import (
	"errors"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

var (
	// ErrCyclicParenting is returned when a reparenting would make an entity
	// its own ancestor. The hierarchy is left untouched.
	ErrCyclicParenting = errors.New("cyclic parenting")

	// ErrNotRegistered is returned when an operation needs a registry index
	// the entity does not have.
	ErrNotRegistered = errors.New("entity not registered")

	// ErrNotAlive is returned when a killed or removed entity would join
	// the hierarchy.
	ErrNotAlive = errors.New("entity not alive")

	// ErrRegistryFull is returned when no free slot is left.
	ErrRegistryFull = errors.New("entity registry full")

	// ErrSlotOccupied is returned by RegisterAt when another entity holds the slot.
	ErrSlotOccupied = errors.New("registry slot occupied")

	// ErrIndexOutOfRange is returned for indices outside the registry capacity.
	ErrIndexOutOfRange = errors.New("entity index out of range")
)

// SpatialIndex is the broad-phase container queried for overlap candidates.
//
// Update and Query may be interleaved freely within one tick; the last
// Update wins.
type SpatialIndex interface {
	// Update (re)indexes e at its current bounding box.
	Update(e *Entity)
	// Remove drops e from the index.
	Remove(e *Entity)
	// Query returns the alive entities whose bounding box overlaps box,
	// excluding exclude and every entity of excludeList, ordered by index.
	Query(box Box, exclude *Entity, excludeList []*Entity) []*Entity
	// Clear empties the index.
	Clear()
}

// StateWriter receives the persisted fields of an entity kind, in the kind's
// declared order. Errors are sticky and reported by Err.
type StateWriter interface {
	WriteBool(v bool)
	WriteUint8(v uint8)
	WriteInt32(v int32)
	WriteInt64(v int64)
	WriteFloat64(v float64)
	WriteString(v string)
	WriteVector(v Vector)
	WriteBox(b Box)
	WriteRef(h Handle)
	Err() error
}

// StateReader is the read side of StateWriter. Reads after a failure return
// zero values.
type StateReader interface {
	ReadBool() bool
	ReadUint8() uint8
	ReadInt32() int32
	ReadInt64() int64
	ReadFloat64() float64
	ReadString() string
	ReadVector() Vector
	ReadBox() Box
	// ReadRef resolves a stored index through the registry as a reference
	// expected to behave as kind. Absent and dangling references yield nil.
	ReadRef(kind enums.EntityType) Handle
	// Fail records a validation error found by the caller.
	Fail(err error)
	Err() error
}

// Persistent is implemented by behaviors that carry state beyond the base
// entity record.
type Persistent interface {
	WriteState(w StateWriter)
	ReadState(r StateReader)
}

// TouchPhase tells which notification a touch event is.
type TouchPhase uint8

const (
	TouchStart TouchPhase = iota + 1
	TouchContinue
	TouchEnd
)

func (p TouchPhase) String() string {
	switch p {
	case TouchStart:
		return "START"
	case TouchContinue:
		return "CONTINUE"
	case TouchEnd:
		return "END"
	}
	return "UNKNOWN"
}

// TouchEvent is one touch notification as seen by world observers.
type TouchEvent struct {
	Tick  int64
	Self  *Entity
	Other *Entity
	Phase TouchPhase
}

// TouchObserver is notified after the entity hook for every touch event.
type TouchObserver func(ev TouchEvent)
