package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gwos/datetime/errors"
	"github.com/spf13/pflag"
)

var (
	// EnvPrefix defines name prefix for environment variables
	// with struct-path selector and value, for example:
	//    DTFMT_FORMAT_DATELAYOUT=2006-Jan-02
	EnvPrefix = "DTFMT_"
	// ConfigEnv defines environment variable for config file path, overrides the ConfigName
	ConfigEnv = "DTFMT_CONFIG"
	// ConfigName defines default filename for look in work directory if ConfigEnv is empty
	ConfigName = "dtfmt.yaml"

	configEnvName = "CONFIG"

	configFlag string
)

// ConfigPath returns config file path from flag, env, or default name
func ConfigPath() string {
	if configFlag != "" {
		return configFlag
	}
	if v, ok := os.LookupEnv(ConfigEnv); ok && v != "" {
		return v
	}
	wd, err := os.Getwd()
	if err != nil {
		return ConfigName
	}
	return wd + string(os.PathSeparator) + ConfigName
}

// Flags holds parsed command line
type Flags struct {
	*pflag.FlagSet

	output         string
	instantLayout  string
	dateLayout     string
	durationDigits int
	logLevel       int
	version        bool
}

func parseFlags(args []string) (*Flags, error) {
	f := &Flags{FlagSet: pflag.NewFlagSet("dtfmt", pflag.ContinueOnError)}
	f.StringVar(&configFlag, "config", "",
		`config file path, overrides `+ConfigEnv)
	f.StringVar(&EnvPrefix, "env-prefix", "DTFMT_",
		`prefix for environment variables, "DTFMT_" by default`)
	f.StringVarP(&f.output, "output", "o", "",
		`output format "text"|"json"|"yaml"|"cbor"`)
	f.StringVar(&f.instantLayout, "instant-layout", "",
		`time layout for instants, basic ISO 8601 by default`)
	f.StringVar(&f.dateLayout, "date-layout", "",
		`time layout for dates, "2006-01-02" by default`)
	f.IntVar(&f.durationDigits, "duration-digits", 0,
		`fractional digits of durations 1..6, -1 for none`)
	f.IntVarP(&f.logLevel, "log-level", "l", 0,
		`0 error, 1 warn, 2 info, 3 debug, 4 trace`)
	f.BoolVar(&f.version, "version", false, `print build info and exit`)
	if err := f.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	ConfigEnv = EnvPrefix + configEnvName
	return f, nil
}

// apply overrides cfg with flags set explicitly
func (f *Flags) apply(cfg *Config) {
	if f.Changed("output") {
		cfg.Output = f.output
	}
	if f.Changed("instant-layout") {
		cfg.Format.InstantLayout = f.instantLayout
	}
	if f.Changed("date-layout") {
		cfg.Format.DateLayout = f.dateLayout
	}
	if f.Changed("duration-digits") {
		cfg.Format.DurationDigits = f.durationDigits
	}
	if f.Changed("log-level") {
		cfg.Log.Level = LogLevel(f.logLevel)
	}
	cfg.PrintVersion = f.version
}

func applyEnv(v ...any) error {
	var ee []error
	for i := range v {
		if err := env.ParseWithOptions(v[i], env.Options{Prefix: EnvPrefix}); err != nil {
			ee = append(ee, err)
		}
	}
	if len(ee) > 0 {
		return errors.Join(ee...)
	}
	return nil
}
