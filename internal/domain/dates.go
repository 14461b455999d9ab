package domain

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, invalid("date", "must be YYYY-MM-DD")
	}
	return t, nil
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	day = DateOf(day)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PreviousWeek returns the Monday and Sunday of the week before the one containing today.
func PreviousWeek(today time.Time) (time.Time, time.Time) {
	start := WeekStart(today).AddDate(0, 0, -7)
	return start, start.AddDate(0, 0, 6)
}

// WeekOfMonth numbers the 7-day blocks of a month starting at 1.
func WeekOfMonth(day time.Time) int {
	return (day.Day()-1)/7 + 1
}

// DaysInMonth reports the number of days of the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func withinDays(day, from, to time.Time) bool {
	day = DateOf(day)
	return !day.Before(from) && !day.After(to)
}
