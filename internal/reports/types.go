// Package reports renders monthly habit reports for the CLI.
package reports

import (
	"fmt"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/stats"
)

// MonthlyReport is a month summary plus the context it was generated in.
// The summary fields are inlined in the JSON output.
type MonthlyReport struct {
	stats.MonthSummary

	Title          string       `json:"title"`
	Today          calendar.Day `json:"today"`
	DaysElapsed    int          `json:"days_elapsed"`
	CompletedToday int          `json:"completed_today"`
	TotalHabits    int          `json:"total_habits"`
	GeneratedAt    time.Time    `json:"generated_at"`

	month calendar.Month
}

// Format selects the report encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" and "json".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q, use markdown or json", s)
	}
}
