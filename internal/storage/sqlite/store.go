// Package sqlite is the SQLite backend for the habit store, built on the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
	"habitstreak/internal/logger"
	"habitstreak/internal/store"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// FileName is the database file name inside the data directory.
const FileName = "habitstreak.db"

const (
	keyLaunched   = "launched"
	keyLastOpened = "last_opened"
)

var _ store.Repository = (*Store)(nil)

// Store implements store.Repository on a SQLite database.
type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

// Open opens (creating if needed) the database at path and brings its
// schema up to date. A file that is not a readable SQLite database is moved
// aside as <path>.corrupt.<timestamp> and replaced by a fresh database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := openDB(path)
	if err != nil && isCorrupt(err) {
		corruptPath, moveErr := moveAside(path)
		if moveErr != nil {
			return nil, fmt.Errorf("%w (could not move it aside: %v)", err, moveErr)
		}
		logger.Warn("reset unreadable database", "path", path, "moved_to", corruptPath, "err", err)
		db, err = openDB(path)
	}
	if err != nil {
		return nil, err
	}

	return &Store{path: path, db: db, now: time.Now}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps per-connection pragmas in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to access migrations: %w", err)
	}
	applied, err := migrate(db, sub)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		logger.Debug("sqlite migrations applied", "count", applied, "path", path)
	}
	return db, nil
}

// isCorrupt reports whether err is SQLite saying the file is not a database
// or is damaged.
func isCorrupt(err error) bool {
	var se *sqlitedriver.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return true
	}
	return false
}

// moveAside renames path and its journal files out of the way.
func moveAside(path string) (string, error) {
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	if err := os.Rename(path, corruptPath); err != nil {
		return "", err
	}
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if _, err := os.Stat(path + suffix); err == nil {
			_ = os.Rename(path+suffix, corruptPath+suffix)
		}
	}
	return corruptPath, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SetNowFunc overrides the clock used to default unreadable created dates.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// LoadHabits returns the habits ordered by position with their completion
// days. Rows with unparseable days are skipped.
func (s *Store) LoadHabits() ([]habit.Habit, error) {
	rows, err := s.db.Query(`SELECT id, name, emoji, created_date FROM habits ORDER BY position, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []habit.Habit{}
	createdOK := map[string]bool{}
	index := map[string]int{}
	for rows.Next() {
		var h habit.Habit
		var created string
		if err := rows.Scan(&h.ID, &h.Name, &h.Emoji, &created); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		day, err := calendar.Parse(created)
		if err == nil {
			h.CreatedDate = day
			createdOK[h.ID] = true
		}
		h.Emoji = habit.EmojiOrDefault(h.Emoji)
		h.CompletionDates = []calendar.Day{}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habits: %w", err)
	}

	crows, err := s.db.Query(`SELECT habit_id, day FROM completions ORDER BY habit_id, day`)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var id, raw string
		if err := crows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		day, err := calendar.Parse(raw)
		if err != nil {
			logger.Warn("skipping unreadable completion", "habit", id, "day", raw)
			continue
		}
		habits[i].CompletionDates = append(habits[i].CompletionDates, day)
	}
	if err := crows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}

	today := calendar.StartOfDay(s.now())
	for i := range habits {
		if createdOK[habits[i].ID] {
			continue
		}
		habits[i].CreatedDate = today
		if len(habits[i].CompletionDates) > 0 {
			habits[i].CreatedDate = slices.Min(habits[i].CompletionDates)
		}
	}
	return habits, nil
}

// SaveHabits replaces the whole collection in one transaction.
func (s *Store) SaveHabits(habits []habit.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
		return fmt.Errorf("clear completions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return fmt.Errorf("clear habits: %w", err)
	}

	insHabit, err := tx.Prepare(`INSERT INTO habits (id, name, emoji, created_date, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare habit insert: %w", err)
	}
	defer insHabit.Close()

	insDay, err := tx.Prepare(`INSERT OR IGNORE INTO completions (habit_id, day) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare completion insert: %w", err)
	}
	defer insDay.Close()

	for pos, h := range habits {
		if _, err := insHabit.Exec(h.ID, h.Name, h.Emoji, h.CreatedDate.String(), pos); err != nil {
			return fmt.Errorf("insert habit %s: %w", h.ID, err)
		}
		for _, d := range h.CompletionDates {
			if _, err := insDay.Exec(h.ID, d.String()); err != nil {
				return fmt.Errorf("insert completion %s/%s: %w", h.ID, d, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadState reads the app bookkeeping keys.
func (s *Store) LoadState() (store.State, error) {
	rows, err := s.db.Query(`SELECT key, value FROM app_state`)
	if err != nil {
		return store.State{}, fmt.Errorf("query app_state: %w", err)
	}
	defer rows.Close()

	var state store.State
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return store.State{}, fmt.Errorf("scan app_state: %w", err)
		}
		switch key {
		case keyLaunched:
			state.Launched, _ = strconv.ParseBool(value)
		case keyLastOpened:
			if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
				state.LastOpened = &t
			}
		}
	}
	return state, rows.Err()
}

// SaveState upserts the app bookkeeping keys.
func (s *Store) SaveState(state store.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.Exec(upsert, keyLaunched, strconv.FormatBool(state.Launched)); err != nil {
		return fmt.Errorf("save %s: %w", keyLaunched, err)
	}
	if state.LastOpened != nil {
		if _, err := tx.Exec(upsert, keyLastOpened, state.LastOpened.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("save %s: %w", keyLastOpened, err)
		}
	} else if _, err := tx.Exec(`DELETE FROM app_state WHERE key = ?`, keyLastOpened); err != nil {
		return fmt.Errorf("clear %s: %w", keyLastOpened, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Counts returns the number of habits and completion rows in the database
// at path without migrating it.
func Counts(path string) (habits, completions int, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.QueryRow(`SELECT COUNT(*) FROM habits`).Scan(&habits); err != nil {
		return 0, 0, fmt.Errorf("count habits: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM completions`).Scan(&completions); err != nil {
		return 0, 0, fmt.Errorf("count completions: %w", err)
	}
	return habits, completions, nil
}
