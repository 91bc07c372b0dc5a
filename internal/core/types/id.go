package types

import (
	"fmt"
	"strconv"
)

// EntityIndex is the stable slot number of an entity in the registry.
//
// An index is handed out when the entity is registered and stays valid until
// the entity is unregistered; after that the slot may be reused by a new
// entity. On the wire an index is a signed 32-bit integer.
type EntityIndex int32

// NilIndex marks "no entity".
//
// It is the value written for absent references in save states and the
// parent index of a root entity.
const NilIndex EntityIndex = -1

// IsNil reports whether the index refers to no entity.
func (i EntityIndex) IsNil() bool {
	return i < 0
}

// Int returns the index as a plain int for slice addressing.
func (i EntityIndex) Int() int {
	return int(i)
}

// String returns a human readable form for logs.
func (i EntityIndex) String() string {
	if i.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%d", int32(i))
}

// MarshalJSON encodes the index as a number, null when absent.
func (i EntityIndex) MarshalJSON() ([]byte, error) {
	if i.IsNil() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(i), 10)), nil
}

// UnmarshalJSON accepts a number, a quoted number or null.
func (i *EntityIndex) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*i = NilIndex
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return err
	}

	*i = EntityIndex(v)
	return nil
}
