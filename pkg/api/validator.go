package api

import (
	"errors"
	"strings"
)

// Validator is implemented by DTOs that can check themselves.
type Validator interface {
	Validate() error
}

// MaxSlotLength bounds the save slot names accepted from clients.
const MaxSlotLength = 64

func (p SlotPayload) Validate() error {
	if p.Slot == "" && p.Path == "" {
		return errors.New("slot is required")
	}
	if len(p.Slot) > MaxSlotLength {
		return errors.New("slot name too long")
	}
	// slot names end up in file names
	if strings.ContainsAny(p.Slot, `/\.`) {
		return errors.New("slot name must not contain path characters")
	}
	return nil
}

func (c ClientCommand) Validate() error {
	switch c.Action {
	case "SAVE", "PING":
		return nil
	case "":
		return errors.New("action is required")
	}
	return errors.New("unknown action " + c.Action)
}

func (e TouchEvent) Validate() error {
	switch e.Phase {
	case "START", "CONTINUE", "END":
	default:
		return errors.New("unknown touch phase " + e.Phase)
	}
	if e.Self < 0 || e.Other < 0 {
		return errors.New("touch event between unregistered entities")
	}
	return nil
}
