package ui

import (
	"strings"
	"testing"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/config"
	"habitstreak/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T, cfg *AppConfig) (*App, *store.Store, *testClock) {
	t.Helper()
	s, clock := createTestStore(t)
	if cfg == nil {
		cfg = &AppConfig{Keys: &config.KeysConfig{}, NarrowLayoutThreshold: 90}
	}
	app := NewApp(s, createTestStyles(), cfg)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, s, clock
}

func TestApp_LayoutModeTransitions(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{89, LayoutNarrow},
		{90, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		app.Update(tea.WindowSizeMsg{Width: tt.width, Height: 30})
		if app.layoutMode != tt.want {
			t.Errorf("width %d: layout = %v, want %v", tt.width, app.layoutMode, tt.want)
		}
	}
}

func TestApp_SwitchPane(t *testing.T) {
	setupTest(t)
	app, _, _ := newTestApp(t, nil)
	app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	if !strings.Contains(app.View(), "[Habits]") {
		t.Error("narrow layout should highlight the Habits tab")
	}

	app.Update(tabKey)
	if app.activePane != PaneCalendar {
		t.Fatalf("activePane = %v, want calendar", app.activePane)
	}
	if !app.calendarPane.focused || app.habitsPane.IsFocused() {
		t.Error("focus did not follow the active pane")
	}
	view := app.View()
	if !strings.Contains(view, "[Calendar]") || !strings.Contains(view, "March 2025") {
		t.Errorf("calendar tab not shown\n%s", view)
	}

	app.Update(keyPress("c"))
	if app.activePane != PaneHabits {
		t.Error("second switch should return to habits")
	}
}

func TestApp_WelcomeOnFirstLaunch(t *testing.T) {
	setupTest(t)
	app, s, _ := newTestApp(t, &AppConfig{ShowWelcome: true})

	if !app.showWelcome {
		t.Fatal("welcome should show on first launch")
	}
	if view := app.View(); !strings.Contains(view, "Welcome to habitstreak") || !strings.Contains(view, "Good morning!") {
		t.Errorf("welcome view = %s", view)
	}

	app.Update(keyPress("a"))
	if app.showWelcome {
		t.Error("any key should dismiss the welcome screen")
	}
	if app.habitsPane.IsEditing() {
		t.Error("the dismissing key should not reach the habit list")
	}
	if s.FirstLaunch() {
		t.Error("dismissing the welcome screen should mark the app launched")
	}

	again := NewApp(s, createTestStyles(), &AppConfig{ShowWelcome: true})
	if again.showWelcome {
		t.Error("welcome should not show after the first launch")
	}
}

func TestApp_WelcomeDisabled(t *testing.T) {
	app, _, _ := newTestApp(t, &AppConfig{ShowWelcome: false})
	if app.showWelcome {
		t.Error("welcome shown although disabled")
	}
}

func TestApp_ConfirmDelete(t *testing.T) {
	setupTest(t)
	app, s, _ := newTestApp(t, &AppConfig{ConfirmDeletions: true})
	mustAdd(t, s, "Read", "📚")

	app.Update(keyPress("x"))
	if app.confirmDel == nil {
		t.Fatal("delete should ask for confirmation")
	}
	if view := app.View(); !strings.Contains(view, "Delete habit?") || !strings.Contains(view, "Read") {
		t.Errorf("confirm view = %s", view)
	}

	app.Update(keyPress("n"))
	if app.confirmDel != nil || s.Len() != 1 {
		t.Fatal("cancel should keep the habit")
	}
	if app.status != "Canceled" {
		t.Errorf("status = %q", app.status)
	}

	app.Update(keyPress("x"))
	_, cmd := app.Update(keyPress("y"))
	if s.Len() != 0 {
		t.Fatal("confirmed delete did not remove the habit")
	}
	if msg, ok := runStatus(cmd); !ok || msg.text != "Deleted Read" {
		t.Errorf("status = %+v", msg)
	}
}

func TestApp_ConfirmDeleteNothingSelected(t *testing.T) {
	app, _, _ := newTestApp(t, &AppConfig{ConfirmDeletions: true})

	app.Update(keyPress("x"))
	if app.confirmDel != nil {
		t.Error("no confirmation without a habit")
	}
	if !app.statusErr {
		t.Error("expected an error status")
	}
}

func TestApp_MilestoneBanner(t *testing.T) {
	setupTest(t)
	app, s, clock := newTestApp(t, nil)
	id := mustAddSince(t, s, clock, "Read", "📚", 6)
	today := s.Today()
	for i := 1; i <= 6; i++ {
		if err := s.ToggleDay(id, today.AddDays(-i)); err != nil {
			t.Fatal(err)
		}
	}

	app.Update(enterKey)
	if app.banner != "🎉 📚 7 day streak!" {
		t.Fatalf("banner = %q", app.banner)
	}
	if !strings.Contains(app.View(), "7 day streak!") {
		t.Error("banner not rendered")
	}

	app.Update(keyPress("j"))
	if app.banner != "" {
		t.Error("next key press should clear the banner")
	}
}

func TestApp_HelpToggle(t *testing.T) {
	setupTest(t)
	app, _, _ := newTestApp(t, nil)

	app.Update(keyPress("?"))
	if !app.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(app.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}

	app.Update(escKey)
	if app.showHelp {
		t.Error("esc should close help")
	}
}

func TestApp_GlobalKeysIgnoredWhileEditing(t *testing.T) {
	app, s, _ := newTestApp(t, nil)

	app.Update(keyPress("a"))
	app.Update(keyPress("q"))
	if app.quitting {
		t.Fatal("q should be typed into the form, not quit")
	}
	app.Update(enterKey)
	app.Update(enterKey)

	if got := s.Habits(); len(got) != 1 || got[0].Name != "q" {
		t.Errorf("habits = %+v", got)
	}
}

func TestApp_Quit(t *testing.T) {
	setupTest(t)
	app, s, clock := newTestApp(t, nil)
	id := mustAddSince(t, s, clock, "Read", "📚", 6)
	mustAdd(t, s, "Walk", "🚶")
	if err := s.Toggle(id); err != nil {
		t.Fatal(err)
	}

	_, cmd := app.Update(keyPress("q"))
	if cmd == nil || !app.quitting {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	view := app.View()
	if !strings.Contains(view, "See you tomorrow!") || !strings.Contains(view, "1/2 (50%)") {
		t.Errorf("goodbye view = %s", view)
	}

	// Unsubscribed: a later milestone does not reach the banner.
	app.banner = ""
	for i := 1; i <= 6; i++ {
		if err := s.ToggleDay(id, s.Today().AddDays(-i)); err != nil {
			t.Fatal(err)
		}
	}
	for range 2 {
		if err := s.Toggle(id); err != nil {
			t.Fatal(err)
		}
	}
	if app.banner != "" {
		t.Error("app still receives events after quitting")
	}
}

func TestApp_StatusMsg(t *testing.T) {
	setupTest(t)
	app, _, _ := newTestApp(t, nil)

	app.Update(statusMsg{text: "Saved", err: false})
	if app.status != "Saved" || app.statusErr {
		t.Errorf("status = %q err=%v", app.status, app.statusErr)
	}
	if !strings.Contains(app.View(), "Saved") {
		t.Error("status not rendered")
	}

	app.Update(tickMsg(time.Now().Add(time.Minute)))
	if app.status != "" {
		t.Error("status should expire")
	}
}

func TestApp_DayRollover(t *testing.T) {
	app, _, clock := newTestApp(t, nil)

	clock.now = time.Date(2025, time.April, 1, 0, 0, 5, 0, time.Local)
	app.Update(tickMsg(clock.now))

	if got := app.calendarPane.Month(); got != (calendar.Month{Year: 2025, Month: time.April}) {
		t.Errorf("calendar month = %v, want April 2025", got)
	}
	if app.today != calendar.Date(2025, time.April, 1) {
		t.Errorf("today = %v", app.today)
	}
}

func TestApp_HeaderShowsProgressAndGreeting(t *testing.T) {
	setupTest(t)
	app, s, _ := newTestApp(t, nil)
	id := mustAdd(t, s, "Read", "📚")

	view := app.View()
	for _, want := range []string{"habitstreak", "Today: 0/1", "Saturday, Mar 15, 2025", "Good morning!"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if err := s.Toggle(id); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(app.View(), "All habits done today!") {
		t.Error("all-done message not shown")
	}
}
