package datetime

import (
	"log/slog"

	"github.com/rs/zerolog"
)

// MarshalText implements encoding.TextMarshaler
func (i Instant) MarshalText() ([]byte, error) {
	return DefaultFacet.AppendInstant(make([]byte, 0, 32), i), nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return DefaultFacet.AppendDuration(make([]byte, 0, 32), d), nil
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return DefaultFacet.AppendDate(make([]byte, 0, 16), d), nil
}

// LogValue implements slog.LogValuer
func (i Instant) LogValue() slog.Value { return slog.StringValue(FormatInstant(i)) }

// LogValue implements slog.LogValuer
func (d Duration) LogValue() slog.Value { return slog.StringValue(FormatDuration(d)) }

// LogValue implements slog.LogValuer
func (d Date) LogValue() slog.Value { return slog.StringValue(FormatDate(d)) }

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (d Duration) MarshalZerologObject(e *zerolog.Event) {
	if d.Negative {
		e.Bool("negative", true)
	}
	e.Uint64("hours", d.Hours).
		Uint8("minutes", d.Minutes).
		Uint8("seconds", d.Seconds).
		Uint32("fraction", d.Fraction).
		Str("text", FormatDuration(d))
}
