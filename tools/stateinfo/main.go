package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sharivan/XSharp-sub001/internal/entities"
	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
	"github.com/sharivan/XSharp-sub001/internal/systems"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "state":
		if err := printState(os.Args[2]); err != nil {
			fmt.Printf("Invalid state file: %v\n", err)
			os.Exit(1)
		}
	case "saves":
		if err := printSaves(os.Args[2]); err != nil {
			fmt.Printf("Invalid catalog: %v\n", err)
			os.Exit(1)
		}
	default:
		printHelp()
	}
}

func printState(path string) error {
	ctx := &storage.Context{
		Spatial: systems.NewSpatialHash(systems.DefaultCellSize),
		Factory: entities.New,
	}
	w, err := storage.ReadStateFile(path, ctx)
	if err != nil {
		return err
	}

	fmt.Printf("tick %d  rng %#04x  entities %d/%d  live %d\n",
		w.Tick(), w.Rng.State(), w.Registry.Len(), w.Registry.Capacity(), len(w.Live()))
	for _, e := range w.Registry.Entities() {
		parent := "-"
		if p := e.Parent(); p != nil {
			parent = p.String()
		}
		fmt.Printf("  %-14v %-18v origin %v parent %s touching %d\n",
			e, e.State(), e.Origin(), parent, len(e.Touching()))
	}
	return nil
}

func printSaves(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return err
	}
	c, err := storage.OpenCatalog(dbPath)
	if err != nil {
		return err
	}
	defer c.Close()

	recs, err := c.List(context.Background())
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%4d  %-12s tick %-8d entities %-4d %s  %s\n",
			r.ID, r.Slot, r.Tick, r.Entities, r.SavedAt.Local().Format(time.RFC3339), r.Path)
	}
	return nil
}

func printHelp() {
	fmt.Println(`State Utility - inspect saved simulation states
Commands:
  state <file>        - decode a state file (raw or zstd) and list its entities
  saves <catalog.db>  - list the save catalog`)
}
