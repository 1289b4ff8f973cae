package datetime

import (
	"time"
)

// Instant is an absolute point in time with nanosecond resolution
type Instant struct {
	t time.Time
}

// NewInstant wraps t normalized to UTC, the monotonic clock reading is dropped
func NewInstant(t time.Time) Instant {
	return Instant{t.Round(0).UTC()}
}

// UnixMicro returns the UTC Instant us microseconds past the Unix epoch
func UnixMicro(us int64) Instant {
	return Instant{time.UnixMicro(us).UTC()}
}

// Now returns the current Instant
func Now() Instant {
	return NewInstant(time.Now())
}

// Time returns the wrapped time.Time
func (i Instant) Time() time.Time {
	return i.t
}

// Date returns the UTC calendar day of i
func (i Instant) Date() Date {
	return DateOf(i.t)
}

// Kind implements Value interface
func (Instant) Kind() Kind { return KindInstant }

func (Instant) sealed() {}

// String returns the canonical form, see FormatInstant
func (i Instant) String() string {
	return FormatInstant(i)
}
