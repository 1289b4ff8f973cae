package logzer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gwos/datetime/datetime"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// SLogHandler translates slog.Record into zerolog.Event.
// Durations and times are written in datetime canonical forms.
type SLogHandler struct {
	attrs  []slog.Attr
	groups []string

	once sync.Once

	CallerSkipFrame int
	GroupsFieldName string
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (h *SLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return zerolog.GlobalLevel() <= zerologLevel(level)
}

func (h *SLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.once.Do(func() {
		if h.GroupsFieldName == "" {
			h.GroupsFieldName = "logger"
		}
	})

	e := zlog.WithLevel(zerologLevel(r.Level))
	if len(h.groups) > 0 {
		_ = e.Strs(h.GroupsFieldName, h.groups)
	}
	for _, attr := range h.attrs {
		appendAttr(e, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(e, attr)
		return true
	})

	e.CallerSkipFrame(h.CallerSkipFrame).Msg(r.Message)
	return nil
}

func (h *SLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nested := &SLogHandler{CallerSkipFrame: h.CallerSkipFrame, GroupsFieldName: h.GroupsFieldName}
	nested.attrs = append(nested.attrs, h.attrs...)
	nested.groups = append(nested.groups, h.groups...)
	nested.attrs = append(nested.attrs, attrs...)
	return nested
}

func (h *SLogHandler) WithGroup(name string) slog.Handler {
	nested := &SLogHandler{CallerSkipFrame: h.CallerSkipFrame, GroupsFieldName: h.GroupsFieldName}
	nested.attrs = append(nested.attrs, h.attrs...)
	nested.groups = append(nested.groups, h.groups...)
	nested.groups = append(nested.groups, name)
	return nested
}

func appendAttr(e *zerolog.Event, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	switch attr.Value.Kind() {
	case slog.KindBool:
		_ = e.Bool(attr.Key, attr.Value.Bool())
	case slog.KindDuration:
		_ = e.Str(attr.Key, datetime.FormatDuration(datetime.FromStd(attr.Value.Duration())))
	case slog.KindFloat64:
		_ = e.Float64(attr.Key, attr.Value.Float64())
	case slog.KindInt64:
		_ = e.Int64(attr.Key, attr.Value.Int64())
	case slog.KindString:
		_ = e.Str(attr.Key, attr.Value.String())
	case slog.KindTime:
		_ = e.Str(attr.Key, datetime.FormatInstant(datetime.NewInstant(attr.Value.Time())))
	case slog.KindUint64:
		_ = e.Uint64(attr.Key, attr.Value.Uint64())
	case slog.KindGroup:
		dict := zerolog.Dict()
		for _, a := range attr.Value.Group() {
			appendAttr(dict, a)
		}
		_ = e.Dict(attr.Key, dict)
	default:
		_ = e.Any(attr.Key, attr.Value.Any())
	}
}
