package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/failure"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "DEVTOOLS"

// DefaultFileName is the per-user configuration file in the home directory.
const DefaultFileName = ".devtoolsrc"

// DefaultPath returns ~/.devtoolsrc, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return failure.FromError(err, failure.KindParseError, "cannot load %s", path)
		}
	}
	return nil
}

// EnvOverrides holds DEVTOOLS_* variables. Nil fields were not set.
type EnvOverrides struct {
	Verbose           *bool    `envconfig:"VERBOSE"`
	Quiet             *bool    `envconfig:"QUIET"`
	Color             *bool    `envconfig:"COLOR"`
	TabSize           *int     `envconfig:"TAB_SIZE"`
	ConfirmOperations *bool    `envconfig:"CONFIRM_OPERATIONS"`
	LogLevel          *string  `envconfig:"LOG_LEVEL"`
	LogFormat         *string  `envconfig:"LOG_FORMAT"`
	LogFile           *string  `envconfig:"LOG_FILE"`
	DisabledTools     []string `envconfig:"DISABLED_TOOLS"`
	Telemetry         *bool    `envconfig:"TELEMETRY"`
	TelemetryExporter *string  `envconfig:"TELEMETRY_EXPORTER"`
	TelemetryEndpoint *string  `envconfig:"TELEMETRY_ENDPOINT"`
	SampleRate        *float64 `envconfig:"TELEMETRY_SAMPLE_RATE"`
}

// ReadEnvOverrides reads DEVTOOLS_* variables from the process environment.
func ReadEnvOverrides() (EnvOverrides, error) {
	var o EnvOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return EnvOverrides{}, failure.Wrap(err, failure.KindParseError, "invalid %s_* environment variable", EnvPrefix)
	}
	return o, nil
}

// Apply copies every set override into cfg.
func (o EnvOverrides) Apply(cfg *config.Config) {
	setBool(&cfg.Verbose, o.Verbose)
	setBool(&cfg.Quiet, o.Quiet)
	setBool(&cfg.Color, o.Color)
	setBool(&cfg.ConfirmOperations, o.ConfirmOperations)
	setBool(&cfg.Telemetry.Enabled, o.Telemetry)
	if o.TabSize != nil {
		cfg.TabSize = *o.TabSize
	}
	setString(&cfg.Log.Level, o.LogLevel)
	setString(&cfg.Log.Format, o.LogFormat)
	setString(&cfg.Log.File, o.LogFile)
	setString(&cfg.Telemetry.Exporter, o.TelemetryExporter)
	setString(&cfg.Telemetry.Endpoint, o.TelemetryEndpoint)
	if o.SampleRate != nil {
		cfg.Telemetry.SampleRate = *o.SampleRate
	}
	if len(o.DisabledTools) > 0 {
		cfg.Tools.Disabled = append(cfg.Tools.Disabled, o.DisabledTools...)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Options selects the sources Resolve reads.
type Options struct {
	// Path is an explicit configuration file. It must exist.
	Path string
	// DefaultPath is read if Path is empty and the file exists.
	DefaultPath string
	// DotEnvFiles are loaded into the environment first.
	DotEnvFiles []string
	// SkipEnv ignores DEVTOOLS_* overrides.
	SkipEnv bool
}

// Resolve builds the configuration from defaults, a file, and environment
// overrides, in increasing precedence. The result is not validated so that
// callers can layer flags on top before calling Validate.
func (l *Loader) Resolve(opts Options) (*config.Config, error) {
	if err := LoadDotEnv(opts.DotEnvFiles...); err != nil {
		return nil, err
	}

	fileLoader := *l
	fileLoader.Validate = false

	cfg := config.Default()
	path := opts.Path
	if path == "" && opts.DefaultPath != "" {
		if _, err := os.Stat(opts.DefaultPath); err == nil {
			path = opts.DefaultPath
		}
	}
	if path != "" {
		loaded, err := fileLoader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if !opts.SkipEnv {
		overrides, err := ReadEnvOverrides()
		if err != nil {
			return nil, err
		}
		overrides.Apply(&cfg)
	}
	return &cfg, nil
}
