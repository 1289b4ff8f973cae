// Package datetime decomposes microsecond counts into durations and renders
// instants, durations and calendar dates in fixed canonical text forms.
//
// Default forms:
//
//	Instant   20020131T100001.123456789   ISO 8601 basic, nanoseconds always present
//	Duration  01:01:01.500000             [-]HH:MM:SS.ffffff, hours grow past two digits
//	Date      2002-01-31                  ISO 8601 extended
//
// Instants are held and rendered in UTC, no zone is printed.
// All functions are pure and safe for concurrent use.
package datetime

import (
	"strconv"
)

// Kind enumerates the value kinds known to the formatter
type Kind uint8

// Enum kinds
const (
	KindInstant Kind = iota + 1
	KindDuration
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInstant:
		return "Instant"
	case KindDuration:
		return "Duration"
	case KindDate:
		return "Date"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is implemented by Instant, Duration and Date only
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

// Layouts and defaults of DefaultFacet
const (
	InstantLayoutBasic    = "20060102T150405.000000000"
	DateLayoutISO         = "2006-01-02"
	DateLayoutAbbrevMonth = "2006-Jan-02"
	DurationDigitsMax     = 6
	// DurationDigitsNone drops the fraction and the dot
	DurationDigitsNone = -1
)

// Facet is a formatting policy, zero fields fall back to DefaultFacet
type Facet struct {
	// InstantLayout is a time.Time layout
	InstantLayout string `yaml:"instantLayout"`
	// DateLayout is a time.Time layout applied at midnight UTC of the date
	DateLayout string `yaml:"dateLayout"`
	// DurationDigits is the count of fractional digits, 1 to 6,
	// or DurationDigitsNone. Extra digits are truncated.
	DurationDigits int `yaml:"durationDigits"`
}

// DefaultFacet defines the canonical forms
var DefaultFacet = Facet{
	InstantLayout:  InstantLayoutBasic,
	DateLayout:     DateLayoutISO,
	DurationDigits: DurationDigitsMax,
}

var pow10 = [...]uint32{1, 10, 100, 1000, 10000, 100000, 1000000}

// Format renders v with DefaultFacet, nil gives empty string
func Format(v Value) string {
	return DefaultFacet.Format(v)
}

// FormatInstant renders i as YYYYMMDDTHHMMSS.fffffffff
func FormatInstant(i Instant) string {
	return string(DefaultFacet.AppendInstant(make([]byte, 0, 32), i))
}

// FormatDuration renders d as [-]HH:MM:SS.ffffff
func FormatDuration(d Duration) string {
	return string(DefaultFacet.AppendDuration(make([]byte, 0, 32), d))
}

// FormatDate renders d as YYYY-MM-DD
func FormatDate(d Date) string {
	return string(DefaultFacet.AppendDate(make([]byte, 0, 16), d))
}

// Format renders v with the facet
func (f Facet) Format(v Value) string {
	return string(f.Append(make([]byte, 0, 32), v))
}

// Append appends the rendered v to dst
func (f Facet) Append(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case Instant:
		return f.AppendInstant(dst, v)
	case Duration:
		return f.AppendDuration(dst, v)
	case Date:
		return f.AppendDate(dst, v)
	}
	return dst
}

// AppendInstant appends the rendered i to dst
func (f Facet) AppendInstant(dst []byte, i Instant) []byte {
	layout := f.InstantLayout
	if layout == "" {
		layout = InstantLayoutBasic
	}
	return i.t.AppendFormat(dst, layout)
}

// AppendDate appends the rendered d to dst
func (f Facet) AppendDate(dst []byte, d Date) []byte {
	layout := f.DateLayout
	if layout == "" {
		layout = DateLayoutISO
	}
	return d.Time().AppendFormat(dst, layout)
}

// AppendDuration appends the rendered d to dst
func (f Facet) AppendDuration(dst []byte, d Duration) []byte {
	digits := f.DurationDigits
	switch {
	case digits == 0 || digits > DurationDigitsMax:
		digits = DurationDigitsMax
	case digits < 0:
		digits = 0
	}

	if d.Negative && !d.IsZero() {
		dst = append(dst, '-')
	}
	dst = appendPadded(dst, d.Hours, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, uint64(d.Minutes), 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, uint64(d.Seconds), 2)
	if digits > 0 {
		dst = append(dst, '.')
		dst = appendPadded(dst, uint64(d.Fraction/pow10[DurationDigitsMax-digits]), digits)
	}
	return dst
}

// appendPadded appends v in decimal, left padded with zeros to width
func appendPadded(dst []byte, v uint64, width int) []byte {
	for n, p := 1, uint64(10); n < width; n, p = n+1, p*10 {
		if v < p {
			dst = append(dst, '0')
		}
	}
	return strconv.AppendUint(dst, v, 10)
}
