// Package config provides the configuration value read once at startup and
// passed explicitly to the dispatcher, the tools and the CLI.
package config

// Config represents the complete suite configuration.
type Config struct {
	// Verbose raises logging to debug and adds detail to listings.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose"`
	// Quiet lowers logging to errors only. Quiet wins over Verbose.
	Quiet bool `json:"quiet,omitempty" yaml:"quiet,omitempty" toml:"quiet"`
	// Color enables ANSI styling in output.
	Color bool `json:"color" yaml:"color" toml:"color"`
	// TabSize is the indentation width used by pretty printers.
	TabSize int `json:"tab_size" yaml:"tab_size" toml:"tab_size"`
	// ConfirmOperations asks before tools rewrite files.
	ConfirmOperations bool `json:"confirm_operations,omitempty" yaml:"confirm_operations,omitempty" toml:"confirm_operations"`

	// Log contains logger settings.
	Log LogConfig `json:"log" yaml:"log" toml:"log"`
	// Tools contains tool registration settings.
	Tools ToolsConfig `json:"tools,omitempty" yaml:"tools,omitempty" toml:"tools"`
	// Telemetry contains tracing and metrics settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty" toml:"telemetry"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format"`
	// File appends log output to a file instead of stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" toml:"file"`
}

// ToolsConfig contains tool-related configuration.
type ToolsConfig struct {
	// Disabled lists tool names that are not registered.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled"`
	// Commands declares external executables exposed as tools.
	Commands []CommandToolConfig `json:"commands,omitempty" yaml:"commands,omitempty" toml:"commands"`
}

// CommandToolConfig declares an external command tool.
type CommandToolConfig struct {
	// Name is the tool identifier.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Description describes the tool.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	// Version is shown in listings.
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version"`
	// Author is shown in listings.
	Author string `json:"author,omitempty" yaml:"author,omitempty" toml:"author"`
	// Command is the executable to run.
	Command string `json:"command" yaml:"command" toml:"command"`
	// Args are passed before the user arguments.
	Args []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args"`
	// Env adds variables to the child environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env"`
	// Dir is the working directory of the child process.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Enabled turns on tracing and metrics middleware.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled"`
	// Exporter is stdout, otlp or none.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty" toml:"exporter"`
	// Endpoint is the OTLP collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint"`
	// Insecure disables TLS for the OTLP exporter.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty" toml:"insecure"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty" toml:"sample_rate"`
	// ServiceName is the resource service name.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty" toml:"service_name"`
}

// Log levels.
const (
	LevelTrace = "trace"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Telemetry exporters.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
	ExporterNone   = "none"
)

// MaxTabSize is the widest accepted indentation.
const MaxTabSize = 16

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Color:   true,
		TabSize: 4,
		Log: LogConfig{
			Level:  LevelWarn,
			Format: FormatConsole,
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterNone,
			SampleRate:  1.0,
			ServiceName: "devtools",
		},
	}
}

// EffectiveLogLevel resolves the log level after verbosity flags.
// Quiet wins over Verbose.
func (c Config) EffectiveLogLevel() string {
	switch {
	case c.Quiet:
		return LevelError
	case c.Verbose:
		return LevelDebug
	case c.Log.Level == "":
		return LevelWarn
	default:
		return c.Log.Level
	}
}

// IsDisabled reports whether the named tool is listed in Tools.Disabled.
func (c Config) IsDisabled(name string) bool {
	for _, d := range c.Tools.Disabled {
		if d == name {
			return true
		}
	}
	return false
}
