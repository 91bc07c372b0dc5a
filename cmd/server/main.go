package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharivan/XSharp-sub001/internal/engine"
	"github.com/sharivan/XSharp-sub001/internal/server"
	"github.com/sharivan/XSharp-sub001/internal/version"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
)

// ShutdownSlot receives the save written on graceful shutdown.
const ShutdownSlot = "shutdown"

func init() {
	logger.Init()
}

func main() {
	var (
		configPath string
		seed       int
		loadPath   string
		ticks      int64
		port       string
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config (defaults when empty)")
	flag.IntVar(&seed, "seed", -1, "World RNG seed 0..65535 (-1 keeps the config value)")
	flag.StringVar(&loadPath, "load", "", "State file to load instead of building the config scene")
	flag.Int64Var(&ticks, "ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&port, "port", "", "HTTP port (overrides CD_PORT)")
	flag.Parse()

	logger.Log.Info("Starting simulation...")
	logger.Log.Info(version.Current().String())

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}
	if seed >= 0 {
		if seed > 0xffff {
			logger.Log.Fatalf("seed %d does not fit the 16-bit RNG", seed)
		}
		cfg.Seed = uint16(seed)
		logger.Log.Infof("Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("Using config seed: %d", cfg.Seed)
	}

	if port == "" {
		port = os.Getenv("CD_PORT")
	}
	if port == "" {
		port = "8080"
	}

	gameService, err := engine.NewService(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to start engine")
	}
	defer gameService.Close()

	if loadPath != "" {
		if err := gameService.LoadFile(loadPath); err != nil {
			logger.Log.WithError(err).Fatal("failed to load state")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(gameService, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("server start error")
		}
	}()

	if err := gameService.Run(ctx, ticks); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("game loop failed")
	}
	logger.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("http shutdown")
	}

	if _, err := gameService.Save(shutdownCtx, ShutdownSlot); err != nil {
		logger.Log.WithError(err).Error("final save failed")
	}

	logger.Log.Info("Done.")
}
