package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gwos/datetime/datetime"
	"github.com/gwos/datetime/errors"
	"github.com/gwos/datetime/logzer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Output names accepted by diag.Encode
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputCBOR = "cbor"
)

// LogLevel defines levels in logrus-style
type LogLevel int

// Enum levels
const (
	Error LogLevel = iota
	Warn
	Info
	Debug
	Trace
)

func (l LogLevel) String() string {
	if l < Error || l > Trace {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return [...]string{"Error", "Warn", "Info", "Debug", "Trace"}[l]
}

// Format defines the formatting policy, see datetime.Facet
type Format struct {
	InstantLayout  string `env:"INSTANTLAYOUT" yaml:"instantLayout"`
	DateLayout     string `env:"DATELAYOUT" yaml:"dateLayout"`
	DurationDigits int    `env:"DURATIONDIGITS" yaml:"durationDigits"`
}

// Log defines logger configuration
type Log struct {
	Colors      bool          `env:"COLORS" yaml:"colors"`
	Condense    time.Duration `env:"CONDENSE" yaml:"condense"`
	File        string        `env:"FILE" yaml:"file"`
	FileMaxSize int64         `env:"FILEMAXSIZE" yaml:"fileMaxSize"`
	FileRotate  int           `env:"FILEROTATE" yaml:"fileRotate"`
	Level       LogLevel      `env:"LEVEL" yaml:"level"`
	// TimeFormat accepts time layout or "basic" for the canonical instant form
	TimeFormat string `env:"TIMEFORMAT" yaml:"timeFormat"`
}

// Config defines dtfmt configuration
// see defaults() for defaults
type Config struct {
	Format Format `envPrefix:"FORMAT_" yaml:"format"`
	Log    Log    `envPrefix:"LOG_" yaml:"log"`
	// Output accepts "text"|"json"|"yaml"|"cbor"
	Output string `env:"OUTPUT" yaml:"output"`
	// BatchInterval and BatchMaxLen control flushing of records read from stdin,
	// zero interval flushes by length and at the end of input only
	BatchInterval time.Duration `env:"BATCHINTERVAL" yaml:"batchInterval"`
	BatchMaxLen   int           `env:"BATCHMAXLEN" yaml:"batchMaxLen"`
	// PrintVersion is set by --version flag
	PrintVersion bool `yaml:"-"`

	configPath string
}

func defaults() Config {
	return Config{
		Format: Format{
			InstantLayout:  datetime.InstantLayoutBasic,
			DateLayout:     datetime.DateLayoutISO,
			DurationDigits: datetime.DurationDigitsMax,
		},
		Log: Log{
			Condense:    0,
			FileMaxSize: 1024 * 1024 * 10, // 10MB
			FileRotate:  5,
			Level:       Warn,
			TimeFormat:  time.RFC3339,
		},
		Output:        OutputText,
		BatchInterval: time.Second,
		BatchMaxLen:   64,
	}
}

// Load merges defaults, config file, env and cli flags
// in that order and returns the rest of the arguments
func Load(args []string) (*Config, []string, error) {
	/* buffer the logging while configuring */
	logBuf := &logzer.LogBuffer{
		Level: zerolog.TraceLevel,
		Size:  16,
	}
	log.Logger = zerolog.New(logBuf).
		With().Timestamp().Caller().Logger()
	log.Debug().Msgf("Build info: %s / %s", buildTag, buildTime)

	flags, err := parseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	cfg := new(Config)
	*cfg = defaults()
	cfg.configPath = ConfigPath()
	if data, err := os.ReadFile(cfg.configPath); err != nil {
		log.Warn().Err(err).
			Str("configPath", cfg.configPath).
			Msg("could not read config")
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, nil, fmt.Errorf("%w: could not parse %s: %v", errors.ErrConfig, cfg.configPath, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("%w: could not apply env vars: %v", errors.ErrConfig, err)
	}
	flags.apply(cfg)

	/* init logger and flush buffer */
	cfg.initLogger()
	logzer.WriteLogBuffer(logBuf)
	return cfg, flags.Args(), nil
}

// ConfigPath returns the config file path in use
func (cfg Config) ConfigPath() string {
	return cfg.configPath
}

// Facet returns formatting policy
func (cfg Config) Facet() datetime.Facet {
	return datetime.Facet{
		InstantLayout:  cfg.Format.InstantLayout,
		DateLayout:     cfg.Format.DateLayout,
		DurationDigits: cfg.Format.DurationDigits,
	}
}

func (cfg Config) initLogger() {
	if cfg.Log.Level > Trace {
		cfg.Log.Level = Trace
	}
	if cfg.Log.Level < Error {
		cfg.Log.Level = Error
	}
	lvl := [...]zerolog.Level{3, 2, 1, 0, -1}[cfg.Log.Level]
	if lvl <= zerolog.DebugLevel {
		cfg.Log.Condense = 0
	}
	opts := []logzer.Option{
		logzer.WithColors(cfg.Log.Colors),
		logzer.WithCondense(cfg.Log.Condense),
		logzer.WithLastErrors(10),
		logzer.WithLevel(lvl),
		logzer.WithTimeFormat(cfg.Log.TimeFormat),
	}
	if cfg.Log.File != "" {
		opts = append(opts, logzer.WithLogFile(&logzer.LogFile{
			FilePath: cfg.Log.File,
			MaxSize:  cfg.Log.FileMaxSize,
			Rotate:   cfg.Log.FileRotate,
		}))
	}
	logzer.SetLogger(opts...)
	/* route slog users through zerolog */
	slog.SetDefault(slog.New(&logzer.SLogHandler{CallerSkipFrame: 3}))
}
