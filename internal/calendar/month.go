package calendar

import (
	"fmt"
	"strings"
	"time"
)

// MonthFormat is the layout used to parse and print a Month.
const MonthFormat = "2006-01"

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Day) Month {
	y, m, _ := d.Date()
	return Month{Year: y, Month: m}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// DaysIn returns the number of days in m.
func (m Month) DaysIn() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOffset returns how many cells precede day 1 in a
// Sunday-first week grid, in [0,6].
func (m Month) FirstWeekdayOffset() int {
	return int(m.First().Weekday())
}

// Day returns the n-th day of m (1-based). Values outside the month are
// normalised into the neighbouring months.
func (m Month) Day(n int) Day {
	return Date(m.Year, m.Month, n)
}

// First returns the first day of m.
func (m Month) First() Day { return m.Day(1) }

// Last returns the last day of m.
func (m Month) Last() Day { return m.Day(m.DaysIn()) }

// Contains reports whether d falls inside m.
func (m Month) Contains(d Day) bool {
	return d >= m.First() && d <= m.Last()
}

// Days returns every day of m in order.
func (m Month) Days() []Day {
	n := m.DaysIn()
	days := make([]Day, n)
	first := m.First()
	for i := range days {
		days[i] = first.AddDays(i)
	}
	return days
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.Last().AddDays(1))
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return MonthOf(m.First().AddDays(-1))
}

// Weeks lays m out as Sunday-first weeks. Each cell holds a day of month,
// or 0 for padding before day 1 and after the last day.
func (m Month) Weeks() [][7]int {
	offset := m.FirstWeekdayOffset()
	total := m.DaysIn()

	rows := (offset + total + 6) / 7
	weeks := make([][7]int, rows)
	for day := 1; day <= total; day++ {
		cell := offset + day - 1
		weeks[cell/7][cell%7] = day
	}
	return weeks
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title returns the month as "January 2006".
func (m Month) Title() string {
	return m.First().Time(time.UTC).Format("January 2006")
}
