// Package backup keeps timestamped copies of the data directory.
//
// A backup is a directory under <data_dir>/backups named after its creation
// time. It holds copies of whichever data files existed (habits.json,
// state.json, habitstreak.db) plus a manifest.json with counts.
package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"habitstreak/internal/fsutil"
	"habitstreak/internal/logger"
	"habitstreak/internal/storage"
	"habitstreak/internal/storage/sqlite"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

const nameLayout = "2006-01-02_150405"

// Data files that are backed up.
var dataFiles = []string{storage.HabitsFile, storage.StateFile, sqlite.FileName}

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string // e.g. ~/.local/share/habitstreak
	backupDir  string // dataDir/backups
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Stats      map[string]int `json:"stats"`
}

// Info summarises one backup.
type Info struct {
	Name      string         // Directory name (2025-12-15_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // habits, completions
}

// NewManager creates a new backup manager.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups. Nil restores time.Now.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Dir returns the directory holding all backups.
func (m *Manager) Dir() string { return m.backupDir }

// Create copies every existing data file into a new backup and returns its
// name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name := fmt.Sprintf("%s_%03d", now.Format(nameLayout), now.Nanosecond()/1e6)
	backupPath := filepath.Join(m.backupDir, name)
	if err := os.Mkdir(backupPath, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	var copied []string
	stats := make(map[string]int)
	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		if err := fsutil.CopyFileAtomic(src, filepath.Join(backupPath, filename), 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		copied = append(copied, filename)

		if err := addStats(stats, src, filename); err != nil {
			logger.Warn("backup: could not count items", "file", filename, "err", err)
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      copied,
		Stats:      stats,
	}
	if err := fsutil.WriteJSON(filepath.Join(backupPath, ManifestFile), manifest, 0600); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	logger.Info("backup created", "name", name, "files", len(copied))
	return name, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // not a backup
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about a specific backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

// Restore copies the files of backup name back into the data directory
// after taking a safety backup of the current state.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := fsutil.ReadJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		manifest.Files = dataFiles
	}

	// Validate before touching the live data.
	for _, filename := range manifest.Files {
		if !filepath.IsLocal(filename) || !slices.Contains(dataFiles, filename) {
			return fmt.Errorf("backup %s lists unexpected file %q", name, filename)
		}
		if err := validateFile(filepath.Join(backupPath, filename), filename); err != nil {
			return fmt.Errorf("backup file %s is invalid: %w", filename, err)
		}
	}

	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		src := filepath.Join(backupPath, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := fsutil.CopyFileAtomic(src, filepath.Join(m.dataDir, filename), 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	logger.Info("backup restored", "name", name, "safety", safetyName)
	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (m *Manager) info(name string) (*Info, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := fsutil.ReadJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	if manifest.Stats == nil {
		manifest.Stats = make(map[string]int)
	}

	return &Info{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

var sqliteHeader = []byte("SQLite format 3\x00")

// validateFile checks that a data file is readable as its kind. Missing
// files are fine.
func validateFile(path, filename string) error {
	if filepath.Ext(filename) == ".json" {
		return fsutil.ValidJSON(path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := f.Read(header); err != nil || !bytes.Equal(header, sqliteHeader) {
		return fmt.Errorf("not a sqlite database")
	}
	return nil
}

// addStats records habit and completion counts for the manifest. The JSON
// store and the database are counted separately; the one in use wins.
func addStats(stats map[string]int, path, filename string) error {
	var habits, completions int
	switch filename {
	case storage.HabitsFile:
		var doc struct {
			Habits []struct {
				CompletionDates []string `json:"completion_dates"`
			} `json:"habits"`
		}
		if err := fsutil.ReadJSON(path, &doc); err != nil {
			return err
		}
		habits = len(doc.Habits)
		for _, h := range doc.Habits {
			completions += len(h.CompletionDates)
		}
	case sqlite.FileName:
		var err error
		habits, completions, err = sqlite.Counts(path)
		if err != nil {
			return err
		}
	default:
		return nil
	}

	stats["habits"] = max(stats["habits"], habits)
	stats["completions"] = max(stats["completions"], completions)
	return nil
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		base, err := time.ParseInLocation(nameLayout, name[:17], time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.ParseInLocation(nameLayout, name, time.Local)
}
