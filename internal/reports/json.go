package reports

import (
	"encoding/json"
)

// FormatMonthlyJSON formats a monthly report as JSON.
func FormatMonthlyJSON(report *MonthlyReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// Render encodes report in the given format.
func Render(report *MonthlyReport, format Format) ([]byte, error) {
	if format == FormatJSON {
		data, err := FormatMonthlyJSON(report)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return []byte(FormatMonthlyMarkdown(report)), nil
}
