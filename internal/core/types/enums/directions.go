package enums

import (
	"fmt"
	"strings"
)

// Direction is a facing or travel direction.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

var directionToString = map[Direction]string{
	DirectionNone:  "NONE",
	DirectionLeft:  "LEFT",
	DirectionRight: "RIGHT",
	DirectionUp:    "UP",
	DirectionDown:  "DOWN",
}

var directionStringToType = map[string]Direction{
	"NONE":  DirectionNone,
	"LEFT":  DirectionLeft,
	"RIGHT": DirectionRight,
	"UP":    DirectionUp,
	"DOWN":  DirectionDown,
}

func (d Direction) String() string {
	if val, ok := directionToString[d]; ok {
		return val
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection converts a string into a Direction (case-insensitive).
// The empty string is DirectionNone.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DirectionNone, nil
	}
	if val, ok := directionStringToType[s]; ok {
		return val, nil
	}
	return DirectionNone, fmt.Errorf("direction %q: %w", s, ErrInvalidArgument)
}

// DirectionFromByte converts a persisted direction byte.
func DirectionFromByte(b uint8) (Direction, error) {
	d := Direction(b)
	if _, ok := directionToString[d]; !ok {
		return DirectionNone, fmt.Errorf("direction byte %d: %w", b, ErrInvalidArgument)
	}
	return d, nil
}

// Unit returns the unit step (screen coordinates, Y grows downwards).
func (d Direction) Unit() (dx, dy float64) {
	switch d {
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	}
	return DirectionNone
}
