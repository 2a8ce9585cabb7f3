// Package config loads the suite configuration from files, the environment
// and .env files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/failure"
)

// Loader loads configuration files.
type Loader struct {
	// ExpandEnv enables environment variable expansion.
	ExpandEnv bool
	// StrictEnv fails if referenced env vars are missing.
	StrictEnv bool
	// Validate enables configuration validation.
	Validate bool
	// Lookup resolves variables during expansion. Defaults to os.LookupEnv.
	Lookup LookupFunc
}

// NewLoader creates a new configuration loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		ExpandEnv: true,
		StrictEnv: false,
		Validate:  true,
	}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// WithValidation enables or disables configuration validation.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.Validate = enabled
	}
}

// WithLookup sets the variable lookup used during expansion.
func WithLookup(fn LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.Lookup = fn
	}
}

// NewLoaderWithOptions creates a loader with the specified options.
func NewLoaderWithOptions(opts ...LoaderOption) *Loader {
	l := NewLoader()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Format represents a configuration file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
	// FormatTOML is the TOML format.
	FormatTOML Format = "toml"
)

// FormatForPath picks a format from the file extension. Files without a
// recognised extension, such as ~/.devtoolsrc, are YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// LoadFile loads configuration from a file path on top of the defaults.
func (l *Loader) LoadFile(path string) (*config.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, failure.Wrap(config.ErrConfigNotFound, failure.KindNotFound,
				"configuration file not found: %s", path)
		}
		return nil, failure.FromError(err, failure.KindInvalidArgument, "cannot access configuration file %s", path)
	}
	if info.IsDir() {
		return nil, failure.Wrap(config.ErrInvalidFormat, failure.KindInvalidArgument,
			"configuration path %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, failure.FromError(err, failure.KindInvalidArgument, "cannot open configuration file %s", path)
	}
	defer f.Close()

	cfg, err := l.Load(f, FormatForPath(path))
	if err != nil {
		if fe, ok := failure.As(err); ok {
			return nil, &failure.Error{Kind: fe.Kind, Message: path + ": " + fe.Message, Err: fe.Err}
		}
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration from a reader on top of the defaults.
func (l *Loader) Load(r io.Reader, format Format) (*config.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, failure.FromError(err, failure.KindInvalidArgument, "failed to read configuration")
	}

	if l.ExpandEnv {
		data, err = l.expandEnvVars(data)
		if err != nil {
			return nil, failure.Wrap(err, failure.KindInvalidArgument, "environment expansion failed")
		}
	}

	cfg := config.Default()
	if err := decode(data, format, &cfg); err != nil {
		return nil, err
	}

	if l.Validate {
		if err := Validate(&cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func decode(data []byte, format Format, cfg *config.Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	case FormatJSON:
		err = json.Unmarshal(data, cfg)
	case FormatTOML:
		_, err = toml.Decode(string(data), cfg)
	default:
		return failure.Wrap(config.ErrUnsupportedFormat, failure.KindInvalidArgument,
			"unsupported configuration format: %s", format)
	}
	if err != nil {
		return failure.Wrap(fmt.Errorf("%w: %w", config.ErrInvalidFormat, err), failure.KindParseError,
			"invalid %s configuration", format)
	}
	return nil
}

// Validate runs the domain validator and reports every problem at once.
func Validate(cfg *config.Config) error {
	if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
		return failure.Wrap(fmt.Errorf("%w: %w", config.ErrValidationFailed, errs),
			failure.KindInvalidArgument, "invalid configuration")
	}
	return nil
}

// expandEnvVars expands ${VAR} and $VAR patterns in the data.
func (l *Loader) expandEnvVars(data []byte) ([]byte, error) {
	expander := &envExpander{
		strict: l.StrictEnv,
		lookup: l.Lookup,
	}
	result, err := expander.Expand(string(data))
	if err != nil {
		return nil, err
	}
	return []byte(result), nil
}

// LoadString loads configuration from a string.
func (l *Loader) LoadString(content string, format Format) (*config.Config, error) {
	return l.Load(strings.NewReader(content), format)
}

// LoadBytes loads configuration from bytes.
func (l *Loader) LoadBytes(data []byte, format Format) (*config.Config, error) {
	return l.Load(bytes.NewReader(data), format)
}
