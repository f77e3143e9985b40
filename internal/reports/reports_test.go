package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
)

type fakeSource struct {
	habits []habit.Habit
	now    time.Time
}

func (f fakeSource) Habits() []habit.Habit { return f.habits }
func (f fakeSource) Now() time.Time        { return f.now }

var march = calendar.Month{Year: 2025, Month: time.March}

func newSource() fakeSource {
	mar := func(d int) calendar.Day { return calendar.Date(2025, time.March, d) }

	read := habit.New("Read", "📚", mar(1))
	read.CompletionDates = []calendar.Day{mar(1), mar(2), mar(3)}
	walk := habit.New("Walk | run", "🚶", mar(3))
	walk.CompletionDates = []calendar.Day{mar(3)}

	return fakeSource{
		habits: []habit.Habit{read, walk},
		now:    time.Date(2025, time.March, 3, 20, 15, 0, 0, time.Local),
	}
}

func TestGenerateMonthly(t *testing.T) {
	r := NewGenerator(newSource()).GenerateMonthly(march)

	if r.Title != "March 2025" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.DaysElapsed != 3 {
		t.Errorf("DaysElapsed = %d, want 3", r.DaysElapsed)
	}
	if r.PerfectDays != 3 {
		t.Errorf("PerfectDays = %d, want 3", r.PerfectDays)
	}
	if r.CompletedToday != 2 || r.TotalHabits != 2 {
		t.Errorf("today = %d/%d, want 2/2", r.CompletedToday, r.TotalHabits)
	}
	if r.CompletionRate != 1 {
		t.Errorf("CompletionRate = %v, want 1", r.CompletionRate)
	}
}

func TestGenerateMonthly_FutureMonth(t *testing.T) {
	r := NewGenerator(newSource()).GenerateMonthly(march.Next())
	if r.DaysElapsed != 0 || r.PerfectDays != 0 || r.CompletionRate != 0 {
		t.Errorf("future month = %+v", r.MonthSummary)
	}
}

func TestFormatMonthlyMarkdown(t *testing.T) {
	out := FormatMonthlyMarkdown(NewGenerator(newSource()).GenerateMonthly(march))

	for _, want := range []string{
		"# Habit report: March 2025",
		"_Generated 2025-03-03 20:15_",
		"| Completion rate | 100% |",
		"| Perfect days | 3 of 3 |",
		"| Best streak | 3 days |",
		"| Done today | 2 of 2 |",
		"| 📚 Read | 3/3 | 100% | 🔥 3 days | 3 |",
		`| 🚶 Walk \| run | 1/1 | 100% | 🔥 1 day | 1 |`,
		" Su   Mo   Tu   We   Th   Fr   Sa",
		" 2●   3●   4·   5·",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestFormatMonthlyMarkdown_NoHabits(t *testing.T) {
	src := fakeSource{now: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)}
	out := FormatMonthlyMarkdown(NewGenerator(src).GenerateMonthly(march))
	if !strings.Contains(out, "No habits yet.") {
		t.Errorf("markdown missing empty notice\n%s", out)
	}
}

func TestFormatMonthlyMarkdown_PastMonthHidesToday(t *testing.T) {
	out := FormatMonthlyMarkdown(NewGenerator(newSource()).GenerateMonthly(march.Prev()))
	if strings.Contains(out, "Done today") {
		t.Errorf("past month should not show today's progress\n%s", out)
	}
}

func TestRender_JSON(t *testing.T) {
	r := NewGenerator(newSource()).GenerateMonthly(march)
	data, err := Render(r, FormatJSON)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["month"] != "2025-03" {
		t.Errorf("month = %v", decoded["month"])
	}
	if decoded["title"] != "March 2025" {
		t.Errorf("title = %v", decoded["title"])
	}
	days, ok := decoded["days"].([]any)
	if !ok || len(days) != 31 {
		t.Fatalf("days = %v", decoded["days"])
	}
	first := days[0].(map[string]any)
	if first["date"] != "2025-03-01" || first["status"] != "all_completed" {
		t.Errorf("days[0] = %v", first)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
