package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/devtools/domain/tool"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the JSON path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(msgs, "; "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates suite configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *Config) ValidationErrors {
	v.errors = nil

	v.validateGeneral(config)
	v.validateLog(config)
	v.validateTools(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateGeneral(config *Config) {
	if config.TabSize < 0 || config.TabSize > MaxTabSize {
		v.addError("tab_size", fmt.Sprintf("tab_size must be between 0 and %d", MaxTabSize))
	}
}

func (v *Validator) validateLog(config *Config) {
	if config.Log.Level != "" {
		validLevels := map[string]bool{
			LevelTrace: true, LevelDebug: true, LevelInfo: true, LevelWarn: true, LevelError: true,
		}
		if !validLevels[strings.ToLower(config.Log.Level)] {
			v.addError("log.level", fmt.Sprintf("invalid level: %s", config.Log.Level))
		}
	}

	if config.Log.Format != "" && config.Log.Format != FormatConsole && config.Log.Format != FormatJSON {
		v.addError("log.format", fmt.Sprintf("invalid format: %s", config.Log.Format))
	}
}

func (v *Validator) validateTools(config *Config) {
	for i, name := range config.Tools.Disabled {
		if strings.TrimSpace(name) == "" {
			v.addError(fmt.Sprintf("tools.disabled[%d]", i), "tool name is required")
		}
	}

	seen := make(map[string]bool, len(config.Tools.Commands))
	for i, cmd := range config.Tools.Commands {
		path := fmt.Sprintf("tools.commands[%d]", i)
		if err := tool.ValidateName(cmd.Name); err != nil {
			v.addError(path+".name", err.Error())
		} else if seen[cmd.Name] {
			v.addError(path+".name", fmt.Sprintf("duplicate tool name: %s", cmd.Name))
		}
		seen[cmd.Name] = true

		if strings.TrimSpace(cmd.Command) == "" {
			v.addError(path+".command", "command is required")
		}
	}
}

func (v *Validator) validateTelemetry(config *Config) {
	t := config.Telemetry

	switch t.Exporter {
	case "", ExporterStdout, ExporterNone:
	case ExporterOTLP:
		if t.Enabled && t.Endpoint == "" {
			v.addError("telemetry.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		v.addError("telemetry.exporter", fmt.Sprintf("unknown exporter: %s", t.Exporter))
	}

	if t.SampleRate < 0 || t.SampleRate > 1 {
		v.addError("telemetry.sample_rate", "sample_rate must be between 0 and 1")
	}
}
