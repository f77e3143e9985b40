package ui

import (
	"strings"
	"testing"

	"habitstreak/internal/habit"
)

func newTestHabitsPane(t *testing.T) (*HabitsPane, func() []habit.Habit) {
	t.Helper()
	s, _ := createTestStore(t)
	pane := NewHabitsPane(s, createTestStyles(), nil)
	pane.SetSize(80, 20)
	pane.SetFocused(true)
	return pane, s.Habits
}

func TestHabitsPane_AddFlow(t *testing.T) {
	pane, habits := newTestHabitsPane(t)

	pane.Update(keyPress("a"))
	if !pane.IsEditing() {
		t.Fatal("expected form to open")
	}
	pane.Update(keyPress("Read"))
	pane.Update(enterKey)
	if pane.step != 1 {
		t.Fatalf("step = %d, want emoji step", pane.step)
	}
	pane.Update(keyPress("📚"))
	msg, ok := runStatus(pane.Update(enterKey))

	if pane.IsEditing() {
		t.Error("form still open after saving")
	}
	if !ok || msg.err || msg.text != "Added Read" {
		t.Errorf("status = %+v", msg)
	}
	got := habits()
	if len(got) != 1 || got[0].Name != "Read" || got[0].Emoji != "📚" {
		t.Fatalf("habits = %+v", got)
	}
}

func TestHabitsPane_AddDefaultsEmoji(t *testing.T) {
	pane, habits := newTestHabitsPane(t)

	pane.Update(keyPress("a"))
	pane.Update(keyPress("Walk"))
	pane.Update(enterKey)
	pane.Update(enterKey)

	if got := habits(); len(got) != 1 || got[0].Emoji != habit.DefaultEmoji {
		t.Fatalf("habits = %+v", got)
	}
}

func TestHabitsPane_RejectsEmptyAndDuplicateNames(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	mustAdd(t, pane.store, "Read", "📚")

	pane.Update(keyPress("a"))
	msg, ok := runStatus(pane.Update(enterKey))
	if !ok || !msg.err || pane.step != 0 {
		t.Errorf("empty name: status = %+v, step = %d", msg, pane.step)
	}

	pane.Update(keyPress(" read "))
	msg, ok = runStatus(pane.Update(enterKey))
	if !ok || !msg.err || !strings.Contains(msg.text, "already exists") {
		t.Errorf("duplicate name: status = %+v", msg)
	}
	if pane.step != 0 || !pane.IsEditing() {
		t.Error("form should stay on the name step")
	}
	if len(habits()) != 1 {
		t.Errorf("len(habits) = %d, want 1", len(habits()))
	}
}

func TestHabitsPane_CancelForm(t *testing.T) {
	pane, habits := newTestHabitsPane(t)

	pane.Update(keyPress("a"))
	pane.Update(keyPress("Read"))
	pane.Update(escKey)

	if pane.IsEditing() {
		t.Error("form still open after cancel")
	}
	if len(habits()) != 0 {
		t.Error("cancel should not add a habit")
	}
}

func TestHabitsPane_Edit(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	mustAdd(t, pane.store, "Read", "📚")

	pane.Update(keyPress("e"))
	if got := pane.input.Value(); got != "Read" {
		t.Fatalf("name prefilled with %q, want Read", got)
	}
	pane.input.SetValue("Read more")
	pane.Update(enterKey)
	if got := pane.input.Value(); got != "📚" {
		t.Fatalf("emoji prefilled with %q", got)
	}
	pane.Update(enterKey)

	got := habits()
	if got[0].Name != "Read more" || got[0].Emoji != "📚" {
		t.Errorf("habit = %+v", got[0])
	}
}

func TestHabitsPane_EditKeepsOwnName(t *testing.T) {
	pane, _ := newTestHabitsPane(t)
	mustAdd(t, pane.store, "Read", "📚")

	pane.Update(keyPress("e"))
	if _, ok := runStatus(pane.Update(enterKey)); ok {
		t.Error("renaming a habit to its own name should not be refused")
	}
	if pane.step != 1 {
		t.Errorf("step = %d, want 1", pane.step)
	}
}

func TestHabitsPane_Toggle(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	mustAdd(t, pane.store, "Read", "📚")
	today := pane.store.Today()

	pane.Update(enterKey)
	if !habits()[0].CompletedOn(today) {
		t.Fatal("habit not completed after toggle")
	}
	pane.Update(enterKey)
	if habits()[0].CompletedOn(today) {
		t.Fatal("habit still completed after second toggle")
	}
}

func TestHabitsPane_NavigateAndMove(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	for _, name := range []string{"A", "B", "C"} {
		mustAdd(t, pane.store, name, "")
	}

	pane.Update(keyPress("G"))
	if pane.cursor != 2 {
		t.Fatalf("cursor = %d after bottom, want 2", pane.cursor)
	}
	pane.Update(keyPress("k"))
	if pane.cursor != 1 {
		t.Fatalf("cursor = %d after up, want 1", pane.cursor)
	}

	pane.Update(keyPress("K"))
	if pane.cursor != 0 {
		t.Errorf("cursor = %d after move up, want 0", pane.cursor)
	}
	names := []string{}
	for _, h := range habits() {
		names = append(names, h.Name)
	}
	if strings.Join(names, ",") != "B,A,C" {
		t.Errorf("order = %v, want B,A,C", names)
	}

	// Moving past the top is ignored.
	pane.Update(keyPress("K"))
	if pane.cursor != 0 || habits()[0].Name != "B" {
		t.Error("move above the first row should be a no-op")
	}

	pane.Update(keyPress("g"))
	pane.Update(keyPress("j"))
	pane.Update(keyPress("j"))
	pane.Update(keyPress("j"))
	if pane.cursor != 2 {
		t.Errorf("cursor = %d, want clamp at 2", pane.cursor)
	}
}

func TestHabitsPane_DeleteClampsCursor(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	mustAdd(t, pane.store, "A", "")
	mustAdd(t, pane.store, "B", "")

	pane.Update(keyPress("G"))
	pane.Update(keyPress("x"))

	if got := habits(); len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("habits = %+v", got)
	}
	if pane.cursor != 0 {
		t.Errorf("cursor = %d, want 0", pane.cursor)
	}
}

func TestHabitsPane_UnfocusedIgnoresKeys(t *testing.T) {
	pane, habits := newTestHabitsPane(t)
	pane.SetFocused(false)

	pane.Update(keyPress("a"))
	if pane.IsEditing() {
		t.Error("unfocused pane opened the form")
	}
	if len(habits()) != 0 {
		t.Error("unexpected habits")
	}
}

func TestHabitsPaneView_Empty(t *testing.T) {
	setupTest(t)
	pane, _ := newTestHabitsPane(t)

	out := pane.View()
	for _, want := range []string{"HABITS", "No habits yet.", "Press 'a' to add one."} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q\n%s", want, out)
		}
	}
}

func TestHabitsPaneView_WithHabits(t *testing.T) {
	setupTest(t)
	s, clock := createTestStore(t)
	pane := NewHabitsPane(s, createTestStyles(), nil)
	pane.SetSize(80, 20)
	pane.SetFocused(true)
	id := mustAddSince(t, s, clock, "Read", "📚", 2)
	mustAdd(t, s, "Walk", "🚶")

	today := s.Today()
	for i := 1; i <= 2; i++ {
		if err := s.ToggleDay(id, today.AddDays(-i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Toggle(id); err != nil {
		t.Fatal(err)
	}

	out := pane.View()
	for _, want := range []string{
		"1/2 today",
		"S M T W T F S",
		"▶ 📚 Read",
		"○ ○ ○ ○ ● ● ●",
		"🔥 3",
		"🚶 Walk",
		"Start your streak!",
		"Best streak: 3 days",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q\n%s", want, out)
		}
	}
}

func TestHabitsPaneView_Form(t *testing.T) {
	setupTest(t)
	pane, _ := newTestHabitsPane(t)

	pane.Update(keyPress("a"))
	out := pane.View()
	if !strings.Contains(out, "New habit") || !strings.Contains(out, "Name:") {
		t.Errorf("form not rendered\n%s", out)
	}
	if strings.Contains(out, "No habits yet.") {
		t.Error("empty notice should be hidden while the form is open")
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer name", 6, "a lon…"},
		{"日本語テキスト", 4, "日本語…"},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
