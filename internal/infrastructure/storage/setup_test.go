package storage

import (
	"os"
	"testing"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/entities"
	"github.com/sharivan/XSharp-sub001/internal/systems"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newContext() *Context {
	return &Context{
		Spatial: systems.NewSpatialHash(systems.DefaultCellSize),
		Factory: entities.New,
	}
}

func newWorld() *domain.World {
	return domain.NewWorld(systems.NewSpatialHash(systems.DefaultCellSize), 32, 0xbeef)
}

func mustSpawn(t *testing.T, w *domain.World, kind enums.EntityType, x, y float64) *domain.Entity {
	t.Helper()
	e, err := entities.Spawn(w, kind, domain.Vec(x, y), enums.DirectionNone)
	if err != nil {
		t.Fatalf("spawn %v: %v", kind, err)
	}
	return e
}

func step(w *domain.World) {
	for _, e := range w.Live() {
		e.OnFrame()
	}
	w.Commit()
	w.AdvanceTick()
}
