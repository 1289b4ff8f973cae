package datetime

import (
	"time"
)

// Resolution is the number of Duration.Fraction units per second
const Resolution = 1_000_000

// Duration is elapsed time split into hours, minutes, seconds and
// a microsecond remainder
type Duration struct {
	Negative bool
	Hours    uint64
	Minutes  uint8
	Seconds  uint8
	Fraction uint32
}

// Decompose converts a microsecond count into a Duration.
// Reassembling the fields gives back exactly the input.
func Decompose(us uint64) Duration {
	seconds := us / Resolution
	us -= seconds * Resolution

	minutes := seconds / 60
	seconds -= minutes * 60

	hours := minutes / 60
	minutes -= hours * 60

	return Duration{
		Hours:    hours,
		Minutes:  uint8(minutes),
		Seconds:  uint8(seconds),
		Fraction: uint32(us),
	}
}

// FromStd decomposes d, dropping anything below the microsecond
func FromStd(d time.Duration) Duration {
	us := d.Microseconds()
	if us < 0 {
		v := Decompose(uint64(-us))
		v.Negative = true
		return v
	}
	return Decompose(uint64(us))
}

// Micros returns the magnitude of d in microseconds
func (d Duration) Micros() uint64 {
	return ((d.Hours*60+uint64(d.Minutes))*60+uint64(d.Seconds))*Resolution + uint64(d.Fraction)
}

// Std converts d to time.Duration.
// Beyond about 2562047 hours the int64 nanosecond count wraps, it is not checked.
func (d Duration) Std() time.Duration {
	v := time.Duration(int64(d.Micros())) * time.Microsecond
	if d.Negative {
		return -v
	}
	return v
}

// IsZero reports whether d has no elapsed time
func (d Duration) IsZero() bool {
	return d.Micros() == 0
}

// Kind implements Value interface
func (Duration) Kind() Kind { return KindDuration }

func (Duration) sealed() {}

// String returns the canonical form, see FormatDuration
func (d Duration) String() string {
	return FormatDuration(d)
}
