package enums

import "fmt"

// Lifecycle is the state of an entity: Unborn -> Alive -> MarkedForRemoval -> Removed.
// A respawnable entity may go from Removed (or MarkedForRemoval) back to Alive.
type Lifecycle uint8

const (
	LifecycleUnborn Lifecycle = iota
	LifecycleAlive
	LifecycleMarkedForRemoval
	LifecycleRemoved
)

var lifecycleToString = map[Lifecycle]string{
	LifecycleUnborn:           "UNBORN",
	LifecycleAlive:            "ALIVE",
	LifecycleMarkedForRemoval: "MARKED_FOR_REMOVAL",
	LifecycleRemoved:          "REMOVED",
}

func (l Lifecycle) String() string {
	if val, ok := lifecycleToString[l]; ok {
		return val
	}
	return fmt.Sprintf("Lifecycle(%d)", uint8(l))
}

// LifecycleFromByte converts a persisted lifecycle byte.
func LifecycleFromByte(b uint8) (Lifecycle, error) {
	l := Lifecycle(b)
	if _, ok := lifecycleToString[l]; !ok {
		return LifecycleUnborn, fmt.Errorf("lifecycle byte %d: %w", b, ErrInvalidArgument)
	}
	return l, nil
}
