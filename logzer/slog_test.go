package logzer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewSLogHandler(t *testing.T) {
	logFile, _ := os.CreateTemp("", "log")
	assert.NoError(t, logFile.Close())
	defer os.Remove(logFile.Name())

	SetLogger(
		WithOutput(io.Discard),
		WithLevel(zerolog.DebugLevel),
		WithLogFile(&LogFile{FilePath: logFile.Name()}))

	slogger := slog.New((&SLogHandler{CallerSkipFrame: 3}).
		WithGroup("foo.bar").
		WithAttrs([]slog.Attr{{Key: "foo", Value: slog.StringValue("bar")}}).
		WithGroup("bar.foo").
		WithAttrs([]slog.Attr{{Key: "fox", Value: slog.StringValue("box")}}))

	slogger.LogAttrs(context.TODO(), slog.LevelInfo, "__slogger__ message",
		slog.String("aaa", "bbb"), slog.Int("i", 111),
		slog.Duration("took", 3661500*time.Millisecond),
		slog.Time("at", time.Date(2002, time.January, 31, 10, 0, 1, 0, time.UTC)))
	slogger.Debug("__slogger__ debug")
	slogger.Log(context.TODO(), slog.LevelDebug-4, "__slogger__ trace")

	content, err := os.ReadFile(logFile.Name())
	assert.NoError(t, err)
	assert.Contains(t, string(content), `logger=["foo.bar","bar.foo"]`)
	assert.Contains(t, string(content), `__slogger__ message`)
	assert.Contains(t, string(content), `aaa=bbb`)
	assert.Contains(t, string(content), `took=01:01:01.500000`)
	assert.Contains(t, string(content), `at=20020131T100001.000000000`)
	assert.Contains(t, string(content), `__slogger__ debug`)
	assert.NotContains(t, string(content), `__slogger__ trace`)
}

func TestSLogHandlerEnabled(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	h := &SLogHandler{}
	assert.False(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.TODO(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.TODO(), slog.LevelError+4))
}
