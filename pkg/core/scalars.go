package core

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day and no zone. Go's time.Time
// always carries both, so date-only adapter values get their own type to
// keep the engine representation ("2021-01-01") unambiguous.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the date part of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time with an optional UTC offset. A nil
// Offset means the value carries no zone information.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int

	// Offset is the UTC offset, or nil for a zone-less time.
	Offset *time.Duration
}

// NewTimeOfDay returns a zone-less wall-clock time.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}
}

// WithOffset returns a copy of t carrying the given UTC offset.
func (t TimeOfDay) WithOffset(offset time.Duration) TimeOfDay {
	t.Offset = &offset
	return t
}

// String formats the time as HH:MM:SS, with a trailing ±HH:MM offset when
// one is set.
func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Offset == nil {
		return s
	}
	return s + formatOffset(*t.Offset)
}

// NaiveDateTime is a datetime with no zone. It formats without a UTC
// offset, unlike time.Time which always has one.
type NaiveDateTime struct {
	Date Date
	Time TimeOfDay
}

// NaiveOf strips the zone from t, keeping its wall-clock reading.
func NaiveOf(t time.Time) NaiveDateTime {
	return NaiveDateTime{
		Date: DateOf(t),
		Time: NewTimeOfDay(t.Hour(), t.Minute(), t.Second()),
	}
}

// String formats the datetime as YYYY-MM-DDTHH:MM:SS.
func (n NaiveDateTime) String() string {
	return n.Date.String() + "T" + fmt.Sprintf(
		"%02d:%02d:%02d", n.Time.Hour, n.Time.Minute, n.Time.Second)
}

func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}
