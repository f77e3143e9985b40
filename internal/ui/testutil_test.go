package ui

import (
	"testing"
	"time"

	"habitstreak/internal/config"
	"habitstreak/internal/storage"
	"habitstreak/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Saturday; the week columns run Sunday Mar 9 to Saturday Mar 15.
var testNow = time.Date(2025, time.March, 15, 9, 30, 0, 0, time.Local)

// setupTest disables colors so rendered output is plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testClock is a settable clock shared with the store.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

// createTestStore opens a store on a temporary JSON data directory.
func createTestStore(t *testing.T) (*store.Store, *testClock) {
	t.Helper()
	repo, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	clock := &testClock{now: testNow}
	s, err := store.Open(repo, store.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s, clock
}

func mustAdd(t *testing.T, s *store.Store, name, emoji string) string {
	t.Helper()
	h, err := s.Add(name, emoji)
	if err != nil || h == nil {
		t.Fatalf("Add(%q) = %v, %v", name, h, err)
	}
	return h.ID
}

// mustAddSince adds a habit created daysAgo days before the clock's day.
func mustAddSince(t *testing.T, s *store.Store, clock *testClock, name, emoji string, daysAgo int) string {
	t.Helper()
	now := clock.now
	clock.now = now.AddDate(0, 0, -daysAgo)
	defer func() { clock.now = now }()
	return mustAdd(t, s, name, emoji)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

// runStatus executes cmd and returns the status it reports, if any.
func runStatus(cmd tea.Cmd) (statusMsg, bool) {
	if cmd == nil {
		return statusMsg{}, false
	}
	msg, ok := cmd().(statusMsg)
	return msg, ok
}
