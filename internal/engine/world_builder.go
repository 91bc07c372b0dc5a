package engine

import (
	"fmt"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/entities"
	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
	"github.com/sharivan/XSharp-sub001/internal/systems"
)

// buildInitialWorld creates a fresh world from the config spawns and
// commits them, so tick 0 starts with every spawn in the live set.
func buildInitialWorld(cfg Config) (*domain.World, error) {
	w := domain.NewWorld(systems.NewSpatialHash(cfg.CellSize), cfg.MaxEntities, cfg.Seed)

	spawned := make([]*domain.Entity, 0, len(cfg.Spawns))
	for i, s := range cfg.Spawns {
		kind, err := enums.ParseEntityType(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		facing, err := enums.ParseDirection(s.Facing)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}

		e, err := entities.Spawn(w, kind, domain.Vec(s.X, s.Y), facing)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		if s.Parent != nil {
			if err := e.SetParent(spawned[*s.Parent]); err != nil {
				return nil, fmt.Errorf("spawn %d: %w", i, err)
			}
		}
		spawned = append(spawned, e)
	}

	w.Commit()
	return w, nil
}

// decodeContext is the environment handed to the state reader.
func decodeContext(cfg Config) *storage.Context {
	return &storage.Context{
		Spatial: systems.NewSpatialHash(cfg.CellSize),
		Factory: entities.New,
	}
}
