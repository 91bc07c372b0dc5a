package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSave is returned by Latest when a slot has never been saved.
var ErrNoSave = errors.New("no save in slot")

// SaveRecord is one row of the save catalog.
type SaveRecord struct {
	ID       int64     `json:"id"`
	Slot     string    `json:"slot"`
	Tick     int64     `json:"tick"`
	Path     string    `json:"path"`
	Entities int       `json:"entities"`
	SavedAt  time.Time `json:"savedAt"`
}

// Catalog indexes written state files in a SQLite database so that the
// latest save of a slot can be found without scanning the save directory.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (or creates) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty catalog path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initCatalog(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func initCatalog(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			tick INTEGER NOT NULL,
			path TEXT NOT NULL,
			entities INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS saves_slot ON saves(slot, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init catalog: %w", err)
		}
	}
	return nil
}

func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record adds a save of slot to the catalog.
func (c *Catalog) Record(ctx context.Context, slot string, tick int64, path string, entities int) (SaveRecord, error) {
	rec := SaveRecord{
		Slot:     slot,
		Tick:     tick,
		Path:     path,
		Entities: entities,
		SavedAt:  time.Now().UTC().Truncate(time.Second),
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO saves(slot, tick, path, entities, saved_at) VALUES(?, ?, ?, ?, ?)`,
		rec.Slot, rec.Tick, rec.Path, rec.Entities, rec.SavedAt.Format(time.RFC3339),
	)
	if err != nil {
		return rec, fmt.Errorf("record save %q: %w", slot, err)
	}
	rec.ID, _ = res.LastInsertId()
	return rec, nil
}

// Latest returns the most recent save of slot, ErrNoSave if there is none.
func (c *Catalog) Latest(ctx context.Context, slot string) (SaveRecord, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, slot, tick, path, entities, saved_at FROM saves WHERE slot = ? ORDER BY id DESC LIMIT 1`,
		slot,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("slot %q: %w", slot, ErrNoSave)
	}
	return rec, err
}

// List returns every save, oldest first.
func (c *Catalog) List(ctx context.Context) ([]SaveRecord, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, slot, tick, path, entities, saved_at FROM saves ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (SaveRecord, error) {
	var (
		rec     SaveRecord
		savedAt string
	)
	if err := s.Scan(&rec.ID, &rec.Slot, &rec.Tick, &rec.Path, &rec.Entities, &savedAt); err != nil {
		return rec, err
	}
	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return rec, fmt.Errorf("save %d: bad timestamp %q: %w", rec.ID, savedAt, err)
	}
	rec.SavedAt = t
	return rec, nil
}
