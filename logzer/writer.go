package logzer

import (
	"container/ring"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gwos/datetime/datetime"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TimeFormatBasic selects the canonical instant form for console timestamps
const TimeFormatBasic = "basic"

var (
	mu        sync.Mutex
	logFile   io.WriteCloser
	errBuffer = &LogBuffer{
		Level: zerolog.ErrorLevel,
		Size:  10,
	}
	filter *FilterWriter

	defaultRe = map[*regexp.Regexp][]byte{
		regexp.MustCompile(`((?i:password|token)"[^:]*:[^"]*)"(?:[^\\"]*(?:\\")*[\\]*)*"`): []byte(`${1}"***"`),
	}
)

type writerOptions struct {
	colors     bool
	condense   time.Duration
	out        io.Writer
	timeFormat string
}

// Option defines logger writer option type
type Option func(*writerOptions)

// WithColors sets formatter option
func WithColors(b bool) Option {
	return func(o *writerOptions) { o.colors = b }
}

// WithCondense enables condensing similar records
func WithCondense(d time.Duration) Option {
	return func(o *writerOptions) { o.condense = d }
}

// WithLastErrors sets count of buffered error writes
func WithLastErrors(n int) Option {
	return func(*writerOptions) {
		errBuffer.Reset(n)
	}
}

// WithLevel sets global level
func WithLevel(lvl zerolog.Level) Option {
	return func(*writerOptions) { zerolog.SetGlobalLevel(lvl) }
}

// WithLogFile sets filelog option
func WithLogFile(w io.WriteCloser) Option {
	return func(*writerOptions) {
		if logFile != nil {
			_ = logFile.Close()
		}
		logFile = w
	}
}

// WithOutput sets console output, os.Stderr by default
func WithOutput(w io.Writer) Option {
	return func(o *writerOptions) { o.out = w }
}

// WithTimeFormat sets formatter option, accepts TimeFormatBasic
func WithTimeFormat(s string) Option {
	return func(o *writerOptions) { o.timeFormat = s }
}

// NewLoggerWriter builds the writer chain for zerolog:
// condense > filter > (console + file, last errors)
func NewLoggerWriter(opts ...Option) io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	o := &writerOptions{out: os.Stderr, timeFormat: time.RFC3339}
	for _, opt := range opts {
		opt(o)
	}

	formatter := &zerolog.ConsoleWriter{
		Out:        o.out,
		NoColor:    !o.colors,
		TimeFormat: o.timeFormat,
	}
	if o.timeFormat == TimeFormatBasic {
		formatter.FormatTimestamp = formatBasicTimestamp
	}
	if logFile != nil {
		formatter.Out = zerolog.MultiLevelWriter(o.out, logFile)
	}
	filter = &FilterWriter{
		LevelWriter: zerolog.MultiLevelWriter(formatter, errBuffer),
		Re:          defaultRe,
	}
	return &CondenseWriter{
		Condense:    o.condense,
		LevelWriter: filter,
	}
}

// formatBasicTimestamp renders zerolog timestamp field in basic form,
// the field is expected as TimeFormatUnixMs number or RFC3339 string
func formatBasicTimestamp(i any) string {
	switch v := i.(type) {
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return datetime.FormatInstant(datetime.UnixMicro(ms * 1000))
		}
		return v.String()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return datetime.FormatInstant(datetime.NewInstant(t.UTC()))
		}
		return v
	}
	return "<nil>"
}

// CondenseWriter handles similar writes by caller field
type CondenseWriter struct {
	zerolog.LevelWriter
	mu       sync.Mutex
	once     sync.Once
	cache    *cache.Cache
	callerRe *regexp.Regexp
	Condense time.Duration
}

// Write implements io.Writer interface
func (w *CondenseWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter interface
func (w *CondenseWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	w.once.Do(func() {
		defaultExpiration, cleanupInterval := time.Minute*10, time.Second*10
		if w.Condense > 0 {
			defaultExpiration = w.Condense * 2
			cleanupInterval = w.Condense / 4
		}
		w.cache = cache.New(defaultExpiration, cleanupInterval)
		w.cache.OnEvicted(w.onEvicted())
		w.callerRe = regexp.MustCompile(`"` + zerolog.CallerFieldName + `":"[^"]*"`)
	})
	w.mu.Lock()
	defer w.mu.Unlock()

	ck := string(append([]byte{byte(lvl), ':'}, w.callerRe.Find(p)...))
	/* expired entries are kept until cleanup, drop them before lookup */
	w.cache.DeleteExpired()
	if _, ok := w.cache.Get(ck); ok {
		_ = w.cache.Increment(ck, 1)
		return len(p), nil
	}
	if w.Condense > 0 {
		_ = w.cache.Add(ck, uint16(0), w.Condense)
	}
	return w.LevelWriter.WriteLevel(lvl, p)
}

func (w *CondenseWriter) onEvicted() func(string, any) {
	period := datetime.Facet{DurationDigits: 3}.
		Format(datetime.FromStd(w.Condense))
	return func(ck string, i any) {
		v := i.(uint16)
		if v == 0 {
			return
		}
		lvl, caller := zerolog.Level(ck[0]), ck[2:]
		buf := append(make([]byte, 0, 200), '{')
		buf = append(buf, '"')
		buf = append(buf, zerolog.LevelFieldName...)
		buf = append(buf, `":"`...)
		buf = append(buf, lvl.String()...)
		buf = append(buf, `","`...)
		buf = append(buf, zerolog.TimestampFieldName...)
		buf = append(buf, `":`...)
		buf = appendTimestamp(buf, time.Now())
		if caller != "" {
			buf = append(buf, ',')
			buf = append(buf, caller...)
		}
		buf = append(buf, `,"`...)
		buf = append(buf, zerolog.MessageFieldName...)
		buf = append(buf, `":"[condensed `...)
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, ` more entries last `...)
		buf = append(buf, period...)
		buf = append(buf, `]"}`...)
		_, _ = w.LevelWriter.WriteLevel(lvl, buf)
	}
}

func appendTimestamp(dst []byte, ts time.Time) []byte {
	switch zerolog.TimeFieldFormat {
	case zerolog.TimeFormatUnix:
		return strconv.AppendInt(dst, ts.Unix(), 10)
	case zerolog.TimeFormatUnixMs:
		return strconv.AppendInt(dst, ts.UnixMilli(), 10)
	case zerolog.TimeFormatUnixMicro:
		return strconv.AppendInt(dst, ts.UnixMicro(), 10)
	}
	dst = append(dst, '"')
	dst = ts.AppendFormat(dst, zerolog.TimeFieldFormat)
	return append(dst, '"')
}

// FilterWriter implements sanitizing writes by Regexp map
type FilterWriter struct {
	zerolog.LevelWriter
	mu sync.Mutex
	Re map[*regexp.Regexp][]byte
}

// Write implements io.Writer interface
func (w *FilterWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter interface
func (w *FilterWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(p)
	for reg, repl := range w.Re {
		p = reg.ReplaceAll(p, repl)
	}
	if _, err := w.LevelWriter.WriteLevel(lvl, p); err != nil {
		return 0, err
	}
	return n, nil
}

// LogBuffer collects writes if level passed
type LogBuffer struct {
	mu    sync.Mutex
	once  sync.Once
	ring  *ring.Ring
	Level zerolog.Level
	Size  int
}

// Reset drops collected writes and sets new size
func (lb *LogBuffer) Reset(size int) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.once.Do(func() {})
	lb.Size = size
	lb.ring = ring.New(size)
}

// Records returns collected writes, oldest first
func (lb *LogBuffer) Records() []LogRecord {
	lb.once.Do(func() {
		lb.ring = ring.New(lb.Size)
	})
	lb.mu.Lock()
	defer lb.mu.Unlock()
	rec := []LogRecord{}
	lb.ring.Do(func(p any) {
		if p != nil {
			rec = append(rec, p.(LogRecord))
		}
	})
	return rec
}

// Write implements io.Writer interface
func (lb *LogBuffer) Write(p []byte) (int, error) {
	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter interface
func (lb *LogBuffer) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	lb.once.Do(func() {
		lb.ring = ring.New(lb.Size)
	})
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lvl >= lb.Level && lb.ring != nil {
		/* store the copy as source could be updated */
		cp := make([]byte, len(p))
		copy(cp, p)
		lb.ring.Value = LogRecord{cp, lvl}
		lb.ring = lb.ring.Next()
	}
	return len(p), nil
}

// LogRecord wraps JSON-like data from logger
type LogRecord struct {
	buf []byte
	lvl zerolog.Level
}

// MarshalJSON implements Marshaller interface
func (p LogRecord) MarshalJSON() ([]byte, error) { return p.buf, nil }

// LastErrors returns last error writes
func LastErrors() []LogRecord {
	return errBuffer.Records()
}

// WriteLogBuffer writes buffered data to current logger
func WriteLogBuffer(lb *LogBuffer) {
	mu.Lock()
	w := filter
	mu.Unlock()
	if w == nil {
		return
	}
	lvl := zerolog.GlobalLevel()
	for _, p := range lb.Records() {
		if p.lvl >= lvl {
			_, _ = w.WriteLevel(p.lvl, p.buf)
		}
	}
}

// SetLogger sets global zerolog logger writing through NewLoggerWriter
func SetLogger(opts ...Option) {
	/* prevent writes in global logger */
	log.Logger = zerolog.Nop()
	/* reset to defaults */
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	w := NewLoggerWriter(opts...)
	log.Logger = zerolog.New(w).
		With().Timestamp().Caller().
		Logger()
}
