package engine

import (
	"testing"
)

func checkpointScene(t *testing.T) Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Spawns = []SpawnSpec{
		{Kind: "PLAYER", X: 0, Y: 0},
		{Kind: "CHECKPOINT", X: 10, Y: 0},
	}
	return cfg
}

func TestBuildInitialWorld(t *testing.T) {
	cfg := testConfig(t)
	w, err := buildInitialWorld(cfg)
	if err != nil {
		t.Fatalf("buildInitialWorld: %v", err)
	}

	if got := len(w.Live()); got != len(cfg.Spawns) {
		t.Fatalf("live = %d, want %d", got, len(cfg.Spawns))
	}
	for i, s := range cfg.Spawns {
		if s.Parent == nil {
			continue
		}
		child := w.Live()[i]
		if p := child.Parent(); p == nil || p != w.Live()[*s.Parent] {
			t.Errorf("spawn %d not attached to spawn %d", i, *s.Parent)
		}
	}
}

func TestInstance_StepSummary(t *testing.T) {
	w, err := buildInitialWorld(checkpointScene(t))
	if err != nil {
		t.Fatal(err)
	}
	inst := NewInstance(w)

	first := inst.Step()
	if first.Type != "TICK" || first.Tick != 0 || first.Live != 2 {
		t.Errorf("first summary = %+v", first)
	}
	if len(first.Touches) != 2 {
		t.Fatalf("touches = %+v, want two starts", first.Touches)
	}
	for i, want := range [][2]int32{{0, 1}, {1, 0}} {
		ev := first.Touches[i]
		if ev.Phase != "START" || ev.Self != want[0] || ev.Other != want[1] {
			t.Errorf("touch %d = %+v", i, ev)
		}
		if err := ev.Validate(); err != nil {
			t.Errorf("touch %d invalid: %v", i, err)
		}
	}

	second := inst.Step()
	if second.Tick != 1 || len(second.Touches) != 2 || second.Touches[0].Phase != "CONTINUE" {
		t.Errorf("second summary = %+v", second)
	}
	if inst.Tick() != 2 {
		t.Errorf("Tick = %d, want 2", inst.Tick())
	}
	if got := inst.Touches(); len(got) != 2 || got[0].Tick != 1 {
		t.Errorf("Touches = %+v", got)
	}
}

func TestInstance_Entities(t *testing.T) {
	w, err := buildInitialWorld(checkpointScene(t))
	if err != nil {
		t.Fatal(err)
	}
	inst := NewInstance(w)
	inst.Step()

	views := inst.Entities()
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	player := views[0]
	if player.Kind != "PLAYER" || player.Lifecycle != "ALIVE" || !player.InWorld || player.Parent != -1 {
		t.Errorf("player view = %+v", player)
	}
	if player.Health == nil || player.Health.HP != player.Health.MaxHP {
		t.Errorf("player health = %+v", player.Health)
	}
	if len(player.Touching) != 1 || player.Touching[0] != 1 {
		t.Errorf("player touching = %v", player.Touching)
	}
	if views[1].Health != nil {
		t.Error("checkpoint has no health")
	}
}
