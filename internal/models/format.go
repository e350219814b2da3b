package models

import "time"

// DateTimeLayout is the timestamp format used in API payloads.
const DateTimeLayout = "2006-01-02 15:04:05"

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}
