package clock

import "time"

// ParseDate parses a YYYYMMDD string. Only real calendar dates are accepted:
// "20250230" fails.
func ParseDate(s string) (time.Time, bool) {
	if len(s) != len(DateLayout) || !digits(s) {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// ValidDate reports whether s is a real YYYYMMDD date.
func ValidDate(s string) bool {
	_, ok := ParseDate(s)

	return ok
}

// ValidTimeOfDay reports whether s is an HHMM time between 0000 and 2359.
func ValidTimeOfDay(s string) bool {
	if len(s) != len(TimeLayout) || !digits(s) {
		return false
	}

	_, err := time.Parse(TimeLayout, s)

	return err == nil
}

// FormatDate renders YYYYMMDD as MM/DD/YY, or "Invalid".
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return "Invalid"
	}

	return t.Format("01/02/06")
}

// FormatTimestamp renders YYYYMMDDhhmmss as "MM/DD/YY hh:mm", or "Invalid".
func FormatTimestamp(s string) string {
	if len(s) != len(TimestampLayout) || !digits(s) {
		return "Invalid"
	}

	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return "Invalid"
	}

	return t.Format("01/02/06 15:04")
}

// FormatTimeOfDay renders HHMM as HH:MM, or "Invalid".
func FormatTimeOfDay(s string) string {
	if !ValidTimeOfDay(s) {
		return "Invalid"
	}

	return s[:2] + ":" + s[2:]
}

func digits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
