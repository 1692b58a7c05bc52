package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Weekday names as stored in pay configurations ("Monday" ... "Sunday").
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayNames lists the accepted weekday names in Go's weekday order.
var WeekdayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// ParseWeekday resolves a weekday name, case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

// IsWeekdayName reports whether name is one of the seven weekday names.
func IsWeekdayName(name string) bool {
	_, err := ParseWeekday(name)
	return err == nil
}

// DayName returns the weekday name of date.
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// IsWeekendDay reports whether the weekday of date is in weekendDays.
// Unknown names in weekendDays never match.
func IsWeekendDay(date time.Time, weekendDays []string) bool {
	day := date.Weekday()
	for _, name := range weekendDays {
		if wd, err := ParseWeekday(name); err == nil && wd == day {
			return true
		}
	}
	return false
}

// WeekStart returns 00:00:00 of the most recent weekStartDay on or before date,
// in date's location.
func WeekStart(date time.Time, weekStartDay time.Weekday) time.Time {
	diff := (int(date.Weekday()) - int(weekStartDay) + 7) % 7
	start := StartOfDay(date)
	return start.AddDate(0, 0, -diff)
}

// WeekEnd returns 23:59:59.999 of the sixth day after WeekStart.
func WeekEnd(date time.Time, weekStartDay time.Weekday) time.Time {
	return EndOfDay(WeekStart(date, weekStartDay).AddDate(0, 0, 6))
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 on t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DateIn reinterprets the calendar date of t (as stored in a DATE column,
// usually UTC midnight) as midnight in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Days returns every calendar day in [from, to] inclusive, at midnight in from's location.
// An inverted range yields nil.
func Days(from, to time.Time) []time.Time {
	start := StartOfDay(from)
	end := StartOfDay(to.In(from.Location()))
	if end.Before(start) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
