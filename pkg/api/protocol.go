package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// TickSummary is pushed to every WebSocket subscriber after each committed tick.
type TickSummary struct {
	// Type is always "TICK".
	Type string `json:"type"`

	// Tick is the tick that was just committed.
	Tick int64 `json:"tick"`

	// Live is the number of entities in the live set after the commit.
	Live int `json:"live"`

	// Added and Removed count the queued lifecycle changes applied by the commit.
	Added   int `json:"added"`
	Removed int `json:"removed"`

	// Touches are the touch notifications fired during the tick, in firing order.
	Touches []TouchEvent `json:"touches,omitempty"`
}

// TouchEvent is one touch notification. Self and Other are entity indices.
type TouchEvent struct {
	Tick  int64  `json:"tick"`
	Self  int32  `json:"self"`
	Other int32  `json:"other"`
	Phase string `json:"phase"` // START, CONTINUE, END
}

// Vec is a 2D point.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EntityView is the debug view of one registered entity.
type EntityView struct {
	Index     int32  `json:"index"`
	Kind      string `json:"kind"`
	Lifecycle string `json:"lifecycle"`
	InWorld   bool   `json:"inWorld"`

	Origin Vec `json:"origin"`
	Min    Vec `json:"min"`
	Max    Vec `json:"max"`

	// Parent is -1 for root entities.
	Parent   int32   `json:"parent"`
	Children []int32 `json:"children,omitempty"`
	Touching []int32 `json:"touching,omitempty"`

	// Health is present only for kinds that can take damage.
	Health *HealthView `json:"health,omitempty"`
}

type HealthView struct {
	HP    int32 `json:"hp"`
	MaxHP int32 `json:"maxHp"`
}

// SaveSlotView describes one recorded save.
type SaveSlotView struct {
	ID       int64  `json:"id"`
	Slot     string `json:"slot"`
	Tick     int64  `json:"tick"`
	Path     string `json:"path"`
	Entities int    `json:"entities"`
	SavedAt  int64  `json:"savedAt"` // Unix milliseconds
}

// --- CLIENT -> SERVER ---

// ClientCommand is the root object of every message a WebSocket client sends.
type ClientCommand struct {
	// Action is SAVE or PING.
	Action string `json:"action"`

	// Payload depends on Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// SlotPayload selects a save slot (SAVE over WebSocket, POST /debug/save and /debug/load).
// Path, when set on a load, bypasses the catalog and reads that file directly.
type SlotPayload struct {
	Slot string `json:"slot"`
	Path string `json:"path,omitempty"`
}
