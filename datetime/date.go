package datetime

import (
	"time"
)

// Date is a Gregorian calendar day without time of day.
// Fields are not validated: rendering normalizes them
// the way time.Date does, so 2021-02-29 prints as 2021-03-01.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the Date for year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Kind implements Value interface
func (Date) Kind() Kind { return KindDate }

func (Date) sealed() {}

// String returns the canonical form, see FormatDate
func (d Date) String() string {
	return FormatDate(d)
}
