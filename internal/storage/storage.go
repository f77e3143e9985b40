// Package storage is the JSON file backend for the habit store.
//
// Everything lives in one data directory: habits.json holds the ordered
// collection and state.json the app bookkeeping. Writes are atomic and keep
// the previous version as <file>.bak.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/fsutil"
	"habitstreak/internal/habit"
	"habitstreak/internal/logger"
	"habitstreak/internal/store"
)

// File names inside the data directory.
const (
	HabitsFile = "habits.json"
	StateFile  = "state.json"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

var _ store.Repository = (*Storage)(nil)

// Storage handles all file I/O operations
type Storage struct {
	dataDir string
	now     func() time.Time // injectable clock for deterministic tests
}

// New creates a new Storage instance with the given data directory
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now}
	if err := s.initFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetNowFunc overrides the clock used to default missing created dates.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// DataDir returns the path to the data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// initFiles creates default JSON files if they don't exist
func (s *Storage) initFiles() error {
	if !fsutil.Exists(s.path(HabitsFile)) {
		if err := s.SaveHabits(nil); err != nil {
			return err
		}
	}
	if !fsutil.Exists(s.path(StateFile)) {
		if err := s.SaveState(store.State{}); err != nil {
			return err
		}
	}
	return nil
}

// LoadHabits reads the collection in stored order. A file that cannot be
// decoded is moved aside, replaced by an empty collection, and reported with
// an error wrapping store.ErrCorrupt.
func (s *Storage) LoadHabits() ([]habit.Habit, error) {
	var doc habitsDoc
	if err := s.loadJSONWithRecovery(HabitsFile, &doc); err != nil {
		return []habit.Habit{}, err
	}

	today := calendar.StartOfDay(s.now())
	habits := make([]habit.Habit, 0, len(doc.Habits))
	for i, rec := range doc.Habits {
		h, ok := rec.toHabit(today)
		if !ok {
			logger.Warn("skipping habit without a name", "file", HabitsFile, "index", i)
			continue
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// SaveHabits replaces habits.json with habits.
func (s *Storage) SaveHabits(habits []habit.Habit) error {
	doc := habitsDoc{Habits: make([]habitRecord, 0, len(habits))}
	for _, h := range habits {
		doc.Habits = append(doc.Habits, toRecord(h))
	}
	return s.writeJSONAtomic(HabitsFile, doc)
}

// LoadState reads state.json. Corruption is handled like LoadHabits.
func (s *Storage) LoadState() (store.State, error) {
	var state store.State
	if err := s.loadJSONWithRecovery(StateFile, &state); err != nil {
		return store.State{}, err
	}
	return state, nil
}

// SaveState replaces state.json.
func (s *Storage) SaveState(state store.State) error {
	return s.writeJSONAtomic(StateFile, state)
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.resetCorrupt(filename, fmt.Errorf("%s is empty", filename))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return s.resetCorrupt(filename, fmt.Errorf("parse %s: %v", filename, err))
	}
	return nil
}

// resetCorrupt preserves the unreadable file next to the original and
// writes an empty document in its place. The .bak copy is left untouched so
// the user can recover it by hand.
func (s *Storage) resetCorrupt(filename string, cause error) error {
	path := s.path(filename)
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.now().Format("20060102-150405"))
	if err := os.Rename(path, corruptPath); err != nil {
		corruptPath = ""
	}

	var empty any = habitsDoc{Habits: []habitRecord{}}
	if filename == StateFile {
		empty = store.State{}
	}
	data, err := json.MarshalIndent(empty, "", "  ")
	if err == nil {
		_ = fsutil.WriteFileAtomic(path, data, dataFilePerm)
	}

	logger.Warn("reset unreadable data file", "file", filename, "moved_to", corruptPath, "err", cause)
	if corruptPath == "" {
		return fmt.Errorf("%w: %v (reset to defaults)", store.ErrCorrupt, cause)
	}
	return fmt.Errorf("%w: %v (reset to defaults; original moved to %s)", store.ErrCorrupt, cause, corruptPath)
}
