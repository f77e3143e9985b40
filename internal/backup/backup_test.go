package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/fsutil"
	"habitstreak/internal/habit"
	"habitstreak/internal/storage"
	"habitstreak/internal/storage/sqlite"
)

// tickingClock returns a clock that advances one second per call so backup
// names never collide.
func tickingClock() func() time.Time {
	t := time.Date(2025, 12, 15, 14, 30, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestManager(t *testing.T, dataDir string) *Manager {
	t.Helper()
	m := NewManager(dataDir, "1.2.0-test")
	m.SetNowFunc(tickingClock())
	return m
}

// createTestData writes two habits with three completions through the JSON
// backend.
func createTestData(t *testing.T, dataDir string) *storage.Storage {
	t.Helper()
	s, err := storage.New(dataDir)
	if err != nil {
		t.Fatalf("storage.New() error: %v", err)
	}
	saveHabits(t, s, "Exercise", "Read")
	return s
}

func saveHabits(t *testing.T, s *storage.Storage, names ...string) {
	t.Helper()
	created := calendar.Date(2025, 12, 1)
	var habits []habit.Habit
	for i, n := range names {
		h := habit.New(n, "", created)
		if i == 0 {
			h.CompletionDates = []calendar.Day{created, created.AddDays(1), created.AddDays(2)}
		}
		habits = append(habits, h)
	}
	if err := s.SaveHabits(habits); err != nil {
		t.Fatalf("SaveHabits() error: %v", err)
	}
}

func loadNames(t *testing.T, s *storage.Storage) []string {
	t.Helper()
	habits, err := s.LoadHabits()
	if err != nil {
		t.Fatalf("LoadHabits() error: %v", err)
	}
	var names []string
	for _, h := range habits {
		names = append(names, h.Name)
	}
	return names
}

func TestManager_Create(t *testing.T) {
	dir := t.TempDir()
	createTestData(t, dir)
	manager := newTestManager(t, dir)

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(name) != 21 { // "2006-01-02_150405_XXX"
		t.Errorf("backup name %q has length %d, want 21", name, len(name))
	}

	backupPath := filepath.Join(dir, BackupsDir, name)
	for _, f := range []string{storage.HabitsFile, storage.StateFile, ManifestFile} {
		if _, err := os.Stat(filepath.Join(backupPath, f)); err != nil {
			t.Errorf("%s not in backup: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(backupPath, sqlite.FileName)); !os.IsNotExist(err) {
		t.Errorf("database copied although it does not exist")
	}

	info, err := manager.Get(name)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if info.Stats["habits"] != 2 {
		t.Errorf("habits = %d, want 2", info.Stats["habits"])
	}
	if info.Stats["completions"] != 3 {
		t.Errorf("completions = %d, want 3", info.Stats["completions"])
	}
}

func TestManager_CreateIncludesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, sqlite.FileName))
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	h := habit.New("Journal", "📓", calendar.Date(2025, 1, 1))
	h.CompletionDates = []calendar.Day{calendar.Date(2025, 1, 1)}
	if err := db.SaveHabits([]habit.Habit{h}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	manager := newTestManager(t, dir)
	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	info, _ := manager.Get(name)
	if info.Stats["habits"] != 1 || info.Stats["completions"] != 1 {
		t.Errorf("stats = %v", info.Stats)
	}

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
}

func TestManager_List(t *testing.T) {
	dir := t.TempDir()
	createTestData(t, dir)
	manager := newTestManager(t, dir)

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0", len(backups))
	}

	name1, _ := manager.Create()
	name2, _ := manager.Create()

	backups, err = manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("got %d backups, want 2", len(backups))
	}
	if backups[0].Name != name2 || backups[1].Name != name1 {
		t.Errorf("order = %s, %s; want newest first", backups[0].Name, backups[1].Name)
	}
}

func TestManager_ListSkipsForeignDirs(t *testing.T) {
	dir := t.TempDir()
	manager := newTestManager(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, BackupsDir, "not-a-backup"), 0o700); err != nil {
		t.Fatal(err)
	}
	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %v, want none", backups)
	}
}

func TestManager_Restore(t *testing.T) {
	dir := t.TempDir()
	s := createTestData(t, dir)
	manager := newTestManager(t, dir)

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	saveHabits(t, s, "Something else")
	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	names := loadNames(t, s)
	if len(names) != 2 || names[0] != "Exercise" {
		t.Errorf("restored habits = %v", names)
	}
}

func TestManager_RestoreLatest(t *testing.T) {
	dir := t.TempDir()
	s := createTestData(t, dir)
	manager := newTestManager(t, dir)

	if _, err := manager.Create(); err != nil {
		t.Fatal(err)
	}
	saveHabits(t, s, "Modified")
	if _, err := manager.Create(); err != nil {
		t.Fatal(err)
	}
	saveHabits(t, s, "Final")

	if err := manager.RestoreLatest(); err != nil {
		t.Fatalf("RestoreLatest() error: %v", err)
	}
	names := loadNames(t, s)
	if len(names) != 1 || names[0] != "Modified" {
		t.Errorf("restored habits = %v, want [Modified]", names)
	}
}

func TestManager_RestoreLatestWithoutBackups(t *testing.T) {
	manager := newTestManager(t, t.TempDir())
	if err := manager.RestoreLatest(); err == nil {
		t.Error("RestoreLatest() expected error with no backups")
	}
}

func TestManager_RestoreRejectsBadNames(t *testing.T) {
	manager := newTestManager(t, t.TempDir())
	for _, name := range []string{"", "nonexistent-backup", "../etc", "2025-01-01_000000_000/../x"} {
		if err := manager.Restore(name); err == nil {
			t.Errorf("Restore(%q) expected error", name)
		}
	}
	if err := manager.Restore("2025-01-01_000000_000"); err == nil {
		t.Error("Restore() of a missing backup expected error")
	}
}

func TestManager_RestoreRefusesCorruptBackup(t *testing.T) {
	dir := t.TempDir()
	s := createTestData(t, dir)
	manager := newTestManager(t, dir)

	name, err := manager.Create()
	if err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, BackupsDir, name, storage.HabitsFile)
	if err := os.WriteFile(bad, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := manager.Restore(name); err == nil {
		t.Fatal("Restore() expected error for corrupt backup")
	}
	if names := loadNames(t, s); len(names) != 2 {
		t.Errorf("live data changed: %v", names)
	}
}

func TestManager_RestoreRejectsForeignManifestEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent escape", "../outside.json"},
		{"absolute", "/tmp/habitstreak-outside.json"},
		{"nested", "sub/habits.json"},
		{"unknown file", "config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "data")
			s := createTestData(t, dir)
			manager := newTestManager(t, dir)

			name, err := manager.Create()
			if err != nil {
				t.Fatal(err)
			}
			backupPath := filepath.Join(dir, BackupsDir, name)
			manifest := Manifest{Version: "1.2.0-test", Files: []string{storage.HabitsFile, tt.entry}}
			if err := fsutil.WriteJSON(filepath.Join(backupPath, ManifestFile), manifest, 0o600); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(root, "outside.json"), []byte(`{"habits":[]}`), 0o600); err != nil {
				t.Fatal(err)
			}
			saveHabits(t, s, "Changed")

			if err := manager.Restore(name); err == nil {
				t.Fatalf("Restore() expected error for manifest entry %q", tt.entry)
			}
			if names := loadNames(t, s); len(names) != 1 || names[0] != "Changed" {
				t.Errorf("live data changed: %v", names)
			}
			backups, err := manager.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(backups) != 1 {
				t.Errorf("backups = %d, want 1 (no safety backup on refusal)", len(backups))
			}
		})
	}
}

func TestManager_Delete(t *testing.T) {
	dir := t.TempDir()
	createTestData(t, dir)
	manager := newTestManager(t, dir)

	name, err := manager.Create()
	if err != nil {
		t.Fatal(err)
	}
	if err := manager.Delete(name); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	backups, _ := manager.List()
	if len(backups) != 0 {
		t.Errorf("got %d backups after delete, want 0", len(backups))
	}
	if err := manager.Delete(name); err == nil {
		t.Error("second Delete() expected error")
	}
}

func TestManager_Prune(t *testing.T) {
	dir := t.TempDir()
	createTestData(t, dir)
	manager := newTestManager(t, dir)

	var names []string
	for i := 0; i < 5; i++ {
		name, err := manager.Create()
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		names = append(names, name)
	}

	deleted, err := manager.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	backups, _ := manager.List()
	if len(backups) != 2 || backups[0].Name != names[4] {
		t.Errorf("remaining = %v", backups)
	}

	if _, err := manager.Prune(-1); err == nil {
		t.Error("Prune(-1) expected error")
	}
}

func TestManager_CreateWithEmptyData(t *testing.T) {
	manager := newTestManager(t, t.TempDir())

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	info, err := manager.Get(name)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if info.Name != name || len(info.Stats) != 0 {
		t.Errorf("info = %+v", info)
	}
}

func TestManager_RestoreCreatesSafetyBackup(t *testing.T) {
	dir := t.TempDir()
	createTestData(t, dir)
	manager := newTestManager(t, dir)

	name, err := manager.Create()
	if err != nil {
		t.Fatal(err)
	}
	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("got %d backups, want original + safety", len(backups))
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"2025-12-15_143022_123", true},
		{"2025-12-15_143022", true},
		{"2025-12-15_143022-123", false},
		{"2025-12-15_143022_abc", false},
		{"backup", false},
	}
	for _, tt := range tests {
		_, err := parseBackupName(tt.name)
		if (err == nil) != tt.valid {
			t.Errorf("parseBackupName(%q) error = %v, valid = %v", tt.name, err, tt.valid)
		}
	}
}
