// Package store persists the operator-tunable drive settings between runs.
// It plays the role EEPROM plays on the embedded controller: a flat set of
// named values that the calibration wizard and the UI write and the motion
// core reads at startup.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/asdine/storm/v3"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/configpaths"
)

const settingsID = 1

type record struct {
	ID        int `storm:"id"`
	Settings  drive.Settings
	UpdatedAt time.Time
}

// Store wraps the bolt-backed settings database.
type Store struct {
	db *storm.DB
}

// Open opens (or creates) the settings database at path. An empty path picks
// the default data directory.
func Open(path string) (*Store, error) {
	if path == "" {
		dir, err := configpaths.DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings path: %w", err)
		}
		path = filepath.Join(dir, "settings.db")
	}
	if err := configpaths.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create settings dir: %w", err)
	}

	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings db: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the stored settings. A database that has never been written
// yields the compiled-in defaults. Whatever comes back is clamped before
// use; a percentage stored as 255 reads back as 100.
func (s *Store) Load() (drive.Settings, error) {
	var rec record
	err := s.db.One("ID", settingsID, &rec)
	if errors.Is(err, storm.ErrNotFound) {
		return drive.DefaultSettings(), nil
	}
	if err != nil {
		return drive.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return rec.Settings.Clamped(), nil
}

// Save replaces the stored settings.
func (s *Store) Save(settings drive.Settings) error {
	rec := record{
		ID:        settingsID,
		Settings:  settings,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.Save(&rec); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Reset drops the stored settings so the next Load returns defaults.
func (s *Store) Reset() error {
	err := s.db.DeleteStruct(&record{ID: settingsID})
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
