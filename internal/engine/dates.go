package engine

import "time"

// Dates are "YYYY-MM-DD" strings in the user's timezone. The format compares
// lexicographically, so < and >= work directly on the strings.

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// addDays shifts a date string by n calendar days.
func addDays(date string, n int) (string, error) {
	t, err := parseDate(date)
	if err != nil {
		return "", err
	}
	return formatDate(t.AddDate(0, 0, n)), nil
}

// daysBetween returns to - from in whole days; malformed input yields 0.
func daysBetween(from, to string) int {
	f, err := parseDate(from)
	if err != nil {
		return 0
	}
	t, err := parseDate(to)
	if err != nil {
		return 0
	}
	return int(t.Sub(f).Hours() / 24)
}

// userLocation resolves a user's configured timezone, falling back to
// server-local when unset or unknown.
func userLocation(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}
