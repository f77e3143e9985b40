package storage

import (
	"encoding/json"
	"slices"
	"strings"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
	"habitstreak/internal/logger"

	"github.com/google/uuid"
)

// habitsDoc is the on-disk shape of habits.json.
type habitsDoc struct {
	Habits []habitRecord `json:"habits"`
}

// habitRecord is one persisted habit. CreatedDate is a pointer so files
// written before the field existed still load.
type habitRecord struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Emoji           string         `json:"emoji"`
	CreatedDate     *calendar.Day  `json:"created_date,omitempty"`
	CompletionDates dayList        `json:"completion_dates"`
}

// dayList decodes entry by entry so one unreadable date costs only itself.
type dayList []calendar.Day

func (l *dayList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	days := make(dayList, 0, len(raw))
	for _, r := range raw {
		var d calendar.Day
		if err := json.Unmarshal(r, &d); err != nil {
			logger.Warn("dropping unreadable completion date", "file", HabitsFile, "value", string(r))
			continue
		}
		days = append(days, d)
	}
	*l = days
	return nil
}

func toRecord(h habit.Habit) habitRecord {
	created := h.CreatedDate
	days := h.CompletionDates
	if days == nil {
		days = []calendar.Day{}
	}
	return habitRecord{
		ID:              h.ID,
		Name:            h.Name,
		Emoji:           h.Emoji,
		CreatedDate:     &created,
		CompletionDates: dayList(days),
	}
}

// toHabit normalizes a record read from disk. It reports false for records
// that cannot be shown (no name).
func (r habitRecord) toHabit(today calendar.Day) (habit.Habit, bool) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return habit.Habit{}, false
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewString()
	}

	days := []calendar.Day(r.CompletionDates)
	if days == nil {
		days = []calendar.Day{}
	}

	created := today
	switch {
	case r.CreatedDate != nil:
		created = *r.CreatedDate
	case len(days) > 0:
		created = slices.Min(days)
	}

	return habit.Habit{
		ID:              id,
		Name:            name,
		Emoji:           habit.EmojiOrDefault(r.Emoji),
		CreatedDate:     created,
		CompletionDates: days,
	}, true
}
