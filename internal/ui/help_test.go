package ui

import (
	"strings"
	"testing"

	"habitstreak/internal/config"
)

func newTestHelp(cfg *config.KeysConfig) *HelpOverlay {
	return NewHelpOverlay(createTestStyles(), NewGlobalKeyMap(cfg), NewHabitKeyMap(cfg),
		NewCalendarKeyMap(cfg), NewInputKeyMap(cfg))
}

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := newTestHelp(nil)
	help.SetSize(100, 50)
	out := help.View()

	for _, want := range []string{
		"Keyboard Shortcuts",
		"Global", "Habits", "Calendar", "Input Mode",
		"space / enter", "toggle today",
		"h / left", "previous month",
		"q / ctrl+c", "quit",
		"Press ? or Esc to close",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help overlay missing %q\n%s", want, out)
		}
	}
}

func TestHelpOverlay_ShowsRemappedKeys(t *testing.T) {
	setupTest(t)

	help := newTestHelp(&config.KeysConfig{Delete: "d,delete"})
	help.SetSize(100, 50)

	if out := help.View(); !strings.Contains(out, "d / delete") {
		t.Errorf("help overlay should show remapped delete key\n%s", out)
	}
}
