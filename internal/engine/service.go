package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
	"github.com/sharivan/XSharp-sub001/internal/network"
	"github.com/sharivan/XSharp-sub001/pkg/api"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// AutosaveSlot is the slot written every Config.AutosaveEveryTicks ticks.
const AutosaveSlot = "auto"

// ErrNoCatalog is returned by slot operations when no catalog is configured.
var ErrNoCatalog = errors.New("save catalog disabled")

// GameService owns the running instance and everything around it: the
// save catalog, the tick log and the subscriber hub.
type GameService struct {
	cfg      Config
	Instance *Instance
	Hub      *network.Broadcaster

	catalog *storage.Catalog
	ticks   *TickLog
	log     *logrus.Entry
}

// NewService builds the initial world from cfg and opens the catalog and
// tick log when configured.
func NewService(cfg Config) (*GameService, error) {
	w, err := buildInitialWorld(cfg)
	if err != nil {
		return nil, err
	}

	s := &GameService{
		cfg:      cfg,
		Instance: NewInstance(w),
		Hub:      network.NewBroadcaster(),
		log:      logger.Component("engine"),
	}

	if cfg.CatalogPath != "" {
		c, err := storage.OpenCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		s.catalog = c
	}
	if cfg.TickLog {
		s.ticks = NewTickLog(filepath.Join(cfg.SaveDir, "ticks"))
	}

	s.log.WithFields(logrus.Fields{
		"seed":     cfg.Seed,
		"entities": w.Registry.Len(),
	}).Info("world built")
	return s, nil
}

func (s *GameService) Config() Config { return s.cfg }

// Close releases the catalog and flushes the tick log.
func (s *GameService) Close() error {
	var errs []error
	if s.ticks != nil {
		errs = append(errs, s.ticks.Close())
	}
	if s.catalog != nil {
		errs = append(errs, s.catalog.Close())
	}
	return errors.Join(errs...)
}

// Step runs one tick and publishes its summary.
func (s *GameService) Step(ctx context.Context) api.TickSummary {
	summary := s.Instance.Step()

	if s.ticks != nil {
		if err := s.ticks.Write(summary); err != nil {
			s.log.WithError(err).Warn("tick log write failed")
		}
	}
	s.Hub.Broadcast(summary)

	every := s.cfg.AutosaveEveryTicks
	if every > 0 && (summary.Tick+1)%every == 0 {
		if _, err := s.Save(ctx, AutosaveSlot); err != nil {
			s.log.WithError(err).Warn("autosave failed")
		}
	}
	return summary
}

// Run steps the world at the configured tick rate until ctx is done or
// maxTicks ticks ran (0 means no limit).
func (s *GameService) Run(ctx context.Context, maxTicks int64) error {
	s.log.WithField("tick_rate_hz", s.cfg.TickRateHz).Info("game loop started")

	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	var ran int64
	for {
		select {
		case <-ctx.Done():
			s.log.WithField("tick", s.Instance.Tick()).Info("game loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Step(ctx)
			ran++
			if maxTicks > 0 && ran >= maxTicks {
				s.log.WithField("tick", s.Instance.Tick()).Info("tick limit reached")
				return nil
			}
		}
	}
}

// Save writes the current world to a new file of slot and records it in
// the catalog.
func (s *GameService) Save(ctx context.Context, slot string) (api.SaveSlotView, error) {
	var (
		path     string
		tick     int64
		entities int
	)
	err := s.Instance.WithWorld(func(w *domain.World) error {
		tick = w.Tick()
		entities = w.Registry.Len()
		path = filepath.Join(s.cfg.SaveDir, fmt.Sprintf("%s-%08d.xss", slot, tick))
		return storage.WriteStateFile(path, w)
	})
	if err != nil {
		return api.SaveSlotView{}, fmt.Errorf("save %q: %w", slot, err)
	}

	if s.catalog == nil {
		return api.SaveSlotView{Slot: slot, Tick: tick, Path: path, Entities: entities, SavedAt: time.Now().UnixMilli()}, nil
	}
	rec, err := s.catalog.Record(ctx, slot, tick, path, entities)
	if err != nil {
		return api.SaveSlotView{}, fmt.Errorf("save %q: %w", slot, err)
	}
	return toSaveView(rec), nil
}

// Load replaces the running world with the latest save of slot.
func (s *GameService) Load(ctx context.Context, slot string) error {
	if s.catalog == nil {
		return fmt.Errorf("load %q: %w", slot, ErrNoCatalog)
	}
	rec, err := s.catalog.Latest(ctx, slot)
	if err != nil {
		return fmt.Errorf("load %q: %w", slot, err)
	}
	return s.LoadFile(rec.Path)
}

// LoadFile replaces the running world with the state stored at path.
func (s *GameService) LoadFile(path string) error {
	w, err := storage.ReadStateFile(path, decodeContext(s.cfg))
	if err != nil {
		return err
	}
	s.Instance.Replace(w)
	return nil
}

// Saves lists the catalog, oldest first.
func (s *GameService) Saves(ctx context.Context) ([]api.SaveSlotView, error) {
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}
	recs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]api.SaveSlotView, 0, len(recs))
	for _, r := range recs {
		views = append(views, toSaveView(r))
	}
	return views, nil
}

func toSaveView(r storage.SaveRecord) api.SaveSlotView {
	return api.SaveSlotView{
		ID:       r.ID,
		Slot:     r.Slot,
		Tick:     r.Tick,
		Path:     r.Path,
		Entities: r.Entities,
		SavedAt:  r.SavedAt.UnixMilli(),
	}
}
