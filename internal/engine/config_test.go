package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

func TestNewConfig_Valid(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval = %v", cfg.TickInterval())
	}
}

func TestConfig_ValidateCapacity(t *testing.T) {
	for _, n := range []int{0, 65537} {
		cfg := NewConfig()
		cfg.MaxEntities = n
		cfg.Spawns = nil
		if err := cfg.Validate(); !errors.Is(err, enums.ErrInvalidArgument) {
			t.Errorf("max_entities %d: err = %v, want ErrInvalidArgument", n, err)
		}
	}
}

func TestParseConfig(t *testing.T) {
	raw := []byte(`
seed: 42
tick_rate_hz: 30
max_entities: 16
autosave_every_ticks: 100
spawns:
  - kind: platform
    x: 0
    y: 10
    facing: right
  - kind: player
    x: 0
    y: -5
    parent: 0
`)
	cfg, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Seed != 42 || cfg.TickRateHz != 30 || cfg.MaxEntities != 16 || cfg.AutosaveEveryTicks != 100 {
		t.Errorf("scalars not decoded: %+v", cfg)
	}
	if len(cfg.Spawns) != 2 || cfg.Spawns[1].Parent == nil || *cfg.Spawns[1].Parent != 0 {
		t.Errorf("spawns = %+v", cfg.Spawns)
	}
	// keys left out keep their defaults
	if cfg.CellSize != 64 || cfg.SaveDir != "saves" {
		t.Errorf("defaults lost: cell=%v dir=%q", cfg.CellSize, cfg.SaveDir)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantInv bool
	}{
		{"negative tick rate", "tick_rate_hz: -1", false},
		{"seed too wide", "seed: 70000", false},
		{"unknown key", "tickrate: 5", false},
		{"spawn without kind", "spawns: [{x: 1, y: 2}]", false},
		{"unknown kind", "spawns: [{kind: dragon, x: 0, y: 0}]", true},
		{"abstract kind", "spawns: [{kind: any, x: 0, y: 0}]", true},
		{"bad facing", "spawns: [{kind: enemy, x: 0, y: 0, facing: north}]", true},
		{"forward parent", "spawns: [{kind: player, x: 0, y: 0, parent: 1}, {kind: platform, x: 0, y: 0}]", true},
		{"too many spawns", "max_entities: 1\nspawns: [{kind: player, x: 0, y: 0}, {kind: enemy, x: 0, y: 0}]", true},
		{"not yaml", "seed: [", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantInv && !errors.Is(err, enums.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || len(cfg.Spawns) == 0 {
		t.Fatalf("empty path: cfg=%+v err=%v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
