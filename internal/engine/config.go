package engine

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
)

//go:embed config.schema.json
var configSchemaText string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaText)

// SpawnSpec places one entity when a fresh world is built.
type SpawnSpec struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Facing string  `yaml:"facing,omitempty"`
	// Parent is the position of an earlier spawn in the list.
	Parent *int `yaml:"parent,omitempty"`
}

// Config holds the engine start parameters.
type Config struct {
	// Seed initialises the world RNG. The RNG state is 16 bits wide.
	Seed               uint16      `yaml:"seed"`
	TickRateHz         int         `yaml:"tick_rate_hz"`
	MaxEntities        int         `yaml:"max_entities"`
	CellSize           float64     `yaml:"cell_size"`
	SaveDir            string      `yaml:"save_dir"`
	CatalogPath        string      `yaml:"catalog_path"`
	AutosaveEveryTicks int64       `yaml:"autosave_every_ticks"`
	TickLog            bool        `yaml:"tick_log"`
	Spawns             []SpawnSpec `yaml:"spawns"`
}

// NewConfig creates the default config (random seed, demo scene).
func NewConfig() Config {
	return Config{
		Seed:        uint16(time.Now().UnixNano()),
		TickRateHz:  60,
		MaxEntities: 256,
		CellSize:    64,
		SaveDir:     "saves",
		CatalogPath: filepath.Join("saves", "catalog.db"),
		Spawns:      defaultSpawns(),
	}
}

func defaultSpawns() []SpawnSpec {
	platform := 3
	return []SpawnSpec{
		{Kind: "PLAYER", X: 0, Y: 0, Facing: "RIGHT"},
		{Kind: "CHECKPOINT", X: 120, Y: 0},
		{Kind: "ENEMY", X: 200, Y: 0, Facing: "LEFT"},
		{Kind: "PLATFORM", X: 320, Y: 40, Facing: "RIGHT"},
		{Kind: "ENEMY", X: 320, Y: 24, Parent: &platform},
		{Kind: "BOSS", X: 480, Y: 0, Facing: "LEFT"},
	}
}

// LoadConfig reads a YAML config on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return ParseConfig(raw)
}

// ParseConfig validates a YAML document against the config schema and
// decodes it on top of the defaults.
func ParseConfig(raw []byte) (Config, error) {
	cfg := NewConfig()
	if err := validateDocument(raw); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// validateDocument runs the schema over the YAML document. The document goes
// through JSON so numbers reach the validator as json.Number.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return configSchema.Validate(v)
}

// Validate checks what the schema cannot: kind and direction names and
// parent links.
func (c Config) Validate() error {
	for i, s := range c.Spawns {
		kind, err := enums.ParseEntityType(s.Kind)
		if err != nil {
			return fmt.Errorf("spawn %d: %w", i, err)
		}
		if kind == enums.EntityTypeAny {
			return fmt.Errorf("spawn %d: kind ANY is abstract: %w", i, enums.ErrInvalidArgument)
		}
		if _, err := enums.ParseDirection(s.Facing); err != nil {
			return fmt.Errorf("spawn %d: %w", i, err)
		}
		if s.Parent != nil && (*s.Parent < 0 || *s.Parent >= i) {
			return fmt.Errorf("spawn %d: parent %d is not an earlier spawn: %w", i, *s.Parent, enums.ErrInvalidArgument)
		}
	}
	if c.MaxEntities <= 0 || c.MaxEntities > int(storage.MaxCapacity) {
		return fmt.Errorf("max_entities %d out of range: %w", c.MaxEntities, enums.ErrInvalidArgument)
	}
	if len(c.Spawns) > c.MaxEntities {
		return fmt.Errorf("%d spawns exceed max_entities %d: %w", len(c.Spawns), c.MaxEntities, enums.ErrInvalidArgument)
	}
	return nil
}

// TickInterval is the wall-clock duration of one tick.
func (c Config) TickInterval() time.Duration {
	if c.TickRateHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRateHz)
}
