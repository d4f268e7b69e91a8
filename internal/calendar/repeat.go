package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/record"
)

// Repeat rule keywords.
const (
	RepeatDaily   = "DAILY"
	RepeatWeekly  = "WEEKLY"
	RepeatMonthly = "MONTHLY"
	RepeatYearly  = "YEARLY"
)

var weekdayCodes = map[string]time.Weekday{
	"Su": time.Sunday,
	"Mo": time.Monday,
	"Tu": time.Tuesday,
	"We": time.Wednesday,
	"Th": time.Thursday,
	"Fr": time.Friday,
	"Sa": time.Saturday,
}

// Rule is a parsed repeat field.
type Rule struct {
	Kind     string
	Weekdays []time.Weekday // WEEKLY
	Day      int            // MONTHLY, YEARLY
	Month    time.Month     // YEARLY
}

// ParseRepeat parses "", "DAILY", "WEEKLY MoWe", "MONTHLY 15" or
// "YEARLY 0110". Keywords and day codes are case-insensitive.
func ParseRepeat(s string) (Rule, bool) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(s), " ")
	kind = strings.ToUpper(kind)
	arg = strings.ReplaceAll(strings.TrimSpace(arg), " ", "")

	switch kind {
	case "":
		return Rule{}, arg == ""

	case RepeatDaily:
		return Rule{Kind: kind}, arg == ""

	case RepeatWeekly:
		if arg == "" || len(arg)%2 != 0 {
			return Rule{}, false
		}

		r := Rule{Kind: kind}

		for i := 0; i < len(arg); i += 2 {
			code := strings.ToUpper(arg[i:i+1]) + strings.ToLower(arg[i+1:i+2])

			wd, ok := weekdayCodes[code]
			if !ok {
				return Rule{}, false
			}

			r.Weekdays = append(r.Weekdays, wd)
		}

		return r, true

	case RepeatMonthly:
		if len(arg) < 1 || len(arg) > 2 {
			return Rule{}, false
		}

		d, ok := number(arg)
		if !ok || d < 1 || d > 31 {
			return Rule{}, false
		}

		return Rule{Kind: kind, Day: d}, true

	case RepeatYearly:
		if len(arg) != 4 {
			return Rule{}, false
		}

		m, okM := number(arg[:2])
		d, okD := number(arg[2:])

		// 2024 is a leap year, so Feb 29 is accepted.
		if !okM || !okD || !clock.ValidDate("2024"+arg) {
			return Rule{}, false
		}

		return Rule{Kind: kind, Month: time.Month(m), Day: d}, true
	}

	return Rule{}, false
}

// String renders the rule in its stored form.
func (r Rule) String() string {
	switch r.Kind {
	case RepeatWeekly:
		var b strings.Builder

		b.WriteString(RepeatWeekly + " ")

		for _, wd := range r.Weekdays {
			b.WriteString(wd.String()[:2])
		}

		return b.String()
	case RepeatMonthly:
		return RepeatMonthly + " " + pad2(r.Day)
	case RepeatYearly:
		return RepeatYearly + " " + pad2(int(r.Month)) + pad2(r.Day)
	default:
		return r.Kind
	}
}

// CheckRepeat is the repeat field check; it stores the canonical form.
func CheckRepeat(s string) (string, bool) {
	r, ok := ParseRepeat(s)
	if !ok {
		return "", false
	}

	return r.String(), true
}

// Occurs reports whether event e happens on day (YYYYMMDD), counting
// repeats from its start date on.
func Occurs(e record.Record, day string) bool {
	start, ok := clock.ParseDate(e.Field(FieldDate))
	if !ok {
		return false
	}

	d, ok := clock.ParseDate(day)
	if !ok || d.Before(start) {
		return false
	}

	if d.Equal(start) {
		return true
	}

	rule, ok := ParseRepeat(e.Field(FieldRepeat))
	if !ok {
		return false
	}

	switch rule.Kind {
	case RepeatDaily:
		return true
	case RepeatWeekly:
		for _, wd := range rule.Weekdays {
			if d.Weekday() == wd {
				return true
			}
		}
	case RepeatMonthly:
		return d.Day() == rule.Day
	case RepeatYearly:
		return d.Month() == rule.Month && d.Day() == rule.Day
	}

	return false
}

// On returns the events of recs that happen on day, in order.
func On(recs []record.Record, day string) []record.Record {
	var out []record.Record

	for _, r := range recs {
		if Occurs(r, day) {
			out = append(out, r)
		}
	}

	return out
}

func number(s string) (int, bool) {
	n := 0

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}

		n = n*10 + int(s[i]-'0')
	}

	return n, s != ""
}

func pad2(n int) string { return fmt.Sprintf("%02d", n) }
