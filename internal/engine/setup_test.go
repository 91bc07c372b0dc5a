package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sharivan/XSharp-sub001/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// testConfig is the default scene with a fixed seed, saving under a temp dir.
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Seed = 0x5eed
	cfg.SaveDir = dir
	cfg.CatalogPath = filepath.Join(dir, "catalog.db")
	return cfg
}

func newTestService(t *testing.T, cfg Config) *GameService {
	t.Helper()
	s, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
