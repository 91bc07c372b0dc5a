package api

import "testing"

func TestSlotPayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload SlotPayload
		wantErr bool
	}{
		{"slot", SlotPayload{Slot: "quick"}, false},
		{"path only", SlotPayload{Path: "/tmp/x.xss"}, false},
		{"empty", SlotPayload{}, true},
		{"traversal", SlotPayload{Slot: "../etc"}, true},
		{"separator", SlotPayload{Slot: "a/b"}, true},
		{"too long", SlotPayload{Slot: string(make([]byte, MaxSlotLength+1))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientCommand_Validate(t *testing.T) {
	if err := (ClientCommand{Action: "SAVE"}).Validate(); err != nil {
		t.Errorf("SAVE rejected: %v", err)
	}
	if err := (ClientCommand{Action: "MOVE"}).Validate(); err == nil {
		t.Error("unknown action accepted")
	}
	if err := (ClientCommand{}).Validate(); err == nil {
		t.Error("empty action accepted")
	}
}

func TestTouchEvent_Validate(t *testing.T) {
	if err := (TouchEvent{Phase: "START", Self: 0, Other: 1}).Validate(); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}
	if err := (TouchEvent{Phase: "BEGIN"}).Validate(); err == nil {
		t.Error("unknown phase accepted")
	}
	if err := (TouchEvent{Phase: "END", Self: -1}).Validate(); err == nil {
		t.Error("nil index accepted")
	}
}
