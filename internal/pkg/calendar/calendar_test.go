package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestParseWeekday(t *testing.T) {
	cases := []struct {
		input string
		want  time.Weekday
		ok    bool
	}{
		{"Monday", time.Monday, true},
		{"friday", time.Friday, true},
		{" SATURDAY ", time.Saturday, true},
		{"Funday", time.Sunday, false},
		{"", time.Sunday, false},
	}
	for _, c := range cases {
		got, err := ParseWeekday(c.input)
		if c.ok {
			require.NoError(t, err, c.input)
			assert.Equal(t, c.want, got, c.input)
		} else {
			assert.Error(t, err, c.input)
		}
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Monday", DayName(date(2024, time.January, 1)))
	assert.Equal(t, "Friday", DayName(date(2024, time.January, 5)))
}

func TestIsWeekendDay(t *testing.T) {
	weekend := []string{"Friday", "Saturday"}

	assert.True(t, IsWeekendDay(date(2024, time.January, 5), weekend))
	assert.True(t, IsWeekendDay(date(2024, time.January, 6), weekend))
	assert.False(t, IsWeekendDay(date(2024, time.January, 7), weekend))
	assert.False(t, IsWeekendDay(date(2024, time.January, 1), nil))
	assert.False(t, IsWeekendDay(date(2024, time.January, 1), []string{"Moonday"}))
}

func TestWeekStart(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	wed := date(2024, time.January, 3)

	cases := []struct {
		start time.Weekday
		want  time.Time
	}{
		{time.Monday, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{time.Sunday, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{time.Wednesday, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)},
		{time.Thursday, time.Date(2023, time.December, 28, 0, 0, 0, 0, time.UTC)},
		{time.Saturday, time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, WeekStart(wed, c.start), c.start.String())
	}
}

func TestWeekEnd(t *testing.T) {
	wed := date(2024, time.January, 3)

	got := WeekEnd(wed, time.Monday)

	assert.Equal(t, time.Date(2024, time.January, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC), got)
	assert.Equal(t, time.Sunday, got.Weekday())
}

func TestWeekStart_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	d := time.Date(2024, time.March, 10, 1, 0, 0, 0, loc) // Sunday local

	got := WeekStart(d, time.Sunday)

	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, loc), got)
}

func TestDays(t *testing.T) {
	from := time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)

	days := Days(from, to)

	require.Len(t, days, 4)
	assert.Equal(t, from, days[0])
	assert.Equal(t, to, days[3])
	assert.Nil(t, Days(to, from))
	assert.Len(t, Days(from, from), 1)
}

func TestDateIn(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	stored := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	got := DateIn(stored, loc)

	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, loc), got)
}
