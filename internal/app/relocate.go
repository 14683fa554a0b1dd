package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
)

// Opener opens the store at a database path.
type Opener func(path string) (store.Store, error)

// OpenSQLite is the default Opener.
func OpenSQLite(path string) (store.Store, error) {
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CleanDBPath expands a leading ~/ and cleans p. Blank input gives "".
func CleanDBPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(model.ExpandHome(p))
}

// RelocateDatabase points the application at newPath and saves the config
// file. Without fresh the current database file is moved there; with fresh
// an empty database is created and the old file is left in place. newPath
// must not exist yet.
//
// Only db_path changes in the config file; values overridden for this run
// stay out of it. cur is closed on success and a store for newPath is
// returned with the updated config. On failure the file system and config
// file are put back as they were, and the returned store is cur reopened at
// the old path (nil if even that failed).
func RelocateDatabase(cur store.Store, cfg *model.AppConfig, cfgPath, newPath string, fresh bool, open Opener) (store.Store, *model.AppConfig, error) {
	oldPath := CleanDBPath(cfg.General.DBPath)
	newPath = CleanDBPath(newPath)

	if newPath == "" {
		return cur, cfg, fmt.Errorf("%w: database path is empty", store.ErrInvalidInput)
	}
	if newPath == oldPath {
		return cur, cfg, nil
	}
	if _, err := os.Stat(newPath); err == nil {
		return cur, cfg, fmt.Errorf("%w: %s already exists", store.ErrInvalidInput, newPath)
	}

	saved, err := model.LoadFileConfig(cfgPath)
	if err != nil {
		return cur, cfg, err
	}
	rel := cfgFile{cfgPath: cfgPath, saved: saved, newPath: newPath}

	next := *cfg
	next.General.DBPath = newPath

	if fresh {
		return rel.startFresh(cur, cfg, &next, open)
	}

	if err := cur.Close(); err != nil {
		log.Printf("closing database %s: %v", oldPath, err)
	}

	if err := store.MoveDatabase(oldPath, newPath); err != nil {
		return reopen(oldPath, cfg, open, err)
	}

	if err := rel.save(); err != nil {
		if rbErr := store.MoveDatabase(newPath, oldPath); rbErr != nil {
			log.Printf("moving database back to %s: %v", oldPath, rbErr)
		}
		return reopen(oldPath, cfg, open, err)
	}

	s, err := open(newPath)
	if err != nil {
		if rbErr := store.MoveDatabase(newPath, oldPath); rbErr != nil {
			log.Printf("moving database back to %s: %v", oldPath, rbErr)
		}
		rel.restore()
		return reopen(oldPath, cfg, open, err)
	}

	log.Printf("database moved from %s to %s", oldPath, newPath)
	return s, &next, nil
}

// cfgFile writes and restores the config file around a move.
type cfgFile struct {
	cfgPath string
	saved   *model.AppConfig
	newPath string
}

func (r cfgFile) save() error {
	return model.UpdateConfig(r.cfgPath, func(c *model.AppConfig) {
		c.General.DBPath = r.newPath
	})
}

func (r cfgFile) restore() {
	if err := model.SaveConfig(r.cfgPath, r.saved); err != nil {
		log.Printf("restoring config %s: %v", r.cfgPath, err)
	}
}

func (r cfgFile) startFresh(cur store.Store, cfg, next *model.AppConfig, open Opener) (store.Store, *model.AppConfig, error) {
	s, err := open(next.General.DBPath)
	if err != nil {
		return cur, cfg, err
	}

	if err := r.save(); err != nil {
		if cerr := s.Close(); cerr != nil {
			log.Printf("closing database %s: %v", next.General.DBPath, cerr)
		}
		removeDatabase(next.General.DBPath)
		return cur, cfg, err
	}

	if err := cur.Close(); err != nil {
		log.Printf("closing database %s: %v", cfg.General.DBPath, err)
	}
	log.Printf("started a new database at %s", next.General.DBPath)
	return s, next, nil
}

// reopen opens oldPath again after a failed relocation and returns cause.
func reopen(oldPath string, cfg *model.AppConfig, open Opener, cause error) (store.Store, *model.AppConfig, error) {
	s, err := open(oldPath)
	if err != nil {
		return nil, cfg, errors.Join(cause, err)
	}
	return s, cfg, cause
}

func removeDatabase(path string) {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("removing %s: %v", path+suffix, err)
		}
	}
}
