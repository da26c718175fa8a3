package domain

import (
	"strings"
	"time"
)

// FormatName shortens a full name for public display: "John Smith" becomes
// "John S.". Single-word names pass through unchanged; empty input yields "".
func FormatName(fullName string) string {
	parts := strings.Fields(strings.TrimSpace(fullName))
	if len(parts) == 0 {
		return ""
	}
	if len(parts) < 2 {
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + strings.ToUpper(string(last[0])) + "."
}

// FormatDisplayDate renders an RFC 3339 date as "January 2, 2006" for
// display. Unparseable input yields "" so a bad stored date never breaks
// rendering.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return ""
	}
	return t.Format("January 2, 2006")
}
