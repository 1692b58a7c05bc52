package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Time of day: "H", "HH:MM" or "HH:MM:SS", 24h clock.
var timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3])(:[0-5][0-9]){0,2}$`)

func IsValidTimeOfDay(s string) bool {
	return timeOfDayRegex.MatchString(strings.TrimSpace(s))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{1,50}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// ParseDateRange parses two "YYYY-MM-DD" strings and checks from <= to.
// Field names are used in the returned ValidationErrors.
func ParseDateRange(from, to string) (time.Time, time.Time, ValidationErrors) {
	var errs ValidationErrors

	fromDate, ok := IsValidDate(from)
	if !ok {
		errs = append(errs, ValidationError{Field: "from_date", Message: "from_date must be in YYYY-MM-DD format"})
	}
	toDate, ok := IsValidDate(to)
	if !ok {
		errs = append(errs, ValidationError{Field: "to_date", Message: "to_date must be in YYYY-MM-DD format"})
	}
	if len(errs) == 0 && toDate.Before(fromDate) {
		errs = append(errs, ValidationError{Field: "to_date", Message: "to_date must not be before from_date"})
	}
	return fromDate, toDate, errs
}
