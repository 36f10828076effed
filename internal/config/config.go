// =============================================================================
// DDOT Validator - Configuration Module
// =============================================================================
//
// This module loads the main application configuration (config.yaml).
//
// PRECEDENCE (highest first):
//   1. Command-line flags
//   2. DDOT_* environment variables (including values from an optional .env)
//   3. config.yaml
//   4. Built-in defaults
//
// Flags and environment variables are layered on top by cmd/root.go through
// viper; this package only knows about the YAML file and the defaults.
//
// EXAMPLE:
//
//   input_dir: ./input
//   output_dir: ./output
//   file_pattern: "*.ddot"
//   output_formats: [json, xml]
//   output_name_format: "{name}_{timestamp}"
//   max_transactions: 30000
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted in output_formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
	FormatYAML = "yaml"
)

// SupportedFormats lists every output format, in the order outputs are
// written.
var SupportedFormats = []string{FormatJSON, FormatXML, FormatXLSX, FormatYAML}

// DefaultMaxTransactions is the default transaction ceiling per file.
const DefaultMaxTransactions = 30000

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for DDOT files to process.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated outputs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives copies of generated outputs.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ErrorLogDir receives error and summary logs from the process command.
	// Default: "./logs"
	ErrorLogDir string `yaml:"error_log_dir"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// FilePattern is the glob used to discover input files.
	// Default: "*.ddot"
	FilePattern string `yaml:"file_pattern"`

	// OutputFormats lists the formats written for each valid file.
	// Valid values: "json", "xml", "xlsx", "yaml"
	// Default: ["json"]
	OutputFormats []string `yaml:"output_formats"`

	// OutputNameFormat is the output file name without extension.
	// Placeholders: {name} (input base name), {uuid}, {timestamp}, {date}, {time}
	// Default: "{name}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// XMLNamespace, when set, is declared as the default namespace of xml
	// outputs and as the target namespace of the generated schema.
	// Default: "" (no namespace)
	XMLNamespace string `yaml:"xml_namespace"`

	// MaxTransactions is the per-file transaction ceiling.
	// Default: 30000
	MaxTransactions int `yaml:"max_transactions"`

	// ArchiveOnSuccess moves processed inputs to InputArchiveDir and copies
	// outputs to OutputArchiveDir.
	// Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// UseTimestampSubdirs places archived files in dated subdirectories.
	// Default: false
	UseTimestampSubdirs bool `yaml:"use_timestamp_subdirs"`

	// ContinueOnError keeps processing the remaining files after a failure.
	// When false, the process command stops launching files after the first
	// failure it observes.
	// Default: true (set explicitly to false to stop early)
	ContinueOnError *bool `yaml:"continue_on_error"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "console" or "json" log output.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogFile is where logs are written: "stderr", "stdout" or a file path.
	// Default: "stderr"
	LogFile string `yaml:"log_file"`
}

// ShouldContinueOnError reports whether processing continues after a failed
// file.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// HasFormat reports whether format is among the configured output formats.
func (c *MainConfig) HasFormat(format string) bool {
	for _, f := range c.OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	ApplyDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct, with defaults applied.
//   - An error if the file cannot be read, parsed, or fails validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist. Any other failure is returned.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.ErrorLogDir == "" {
		config.ErrorLogDir = "./logs"
	}
	if config.FilePattern == "" {
		config.FilePattern = "*.ddot"
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{FormatJSON}
	}
	for i, format := range config.OutputFormats {
		config.OutputFormats[i] = strings.ToLower(strings.TrimSpace(format))
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{name}_{timestamp}"
	}
	if config.MaxTransactions == 0 {
		config.MaxTransactions = DefaultMaxTransactions
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.LogFile == "" {
		config.LogFile = "stderr"
	}
}

// Validate checks option values. It does not touch the filesystem.
func Validate(config *MainConfig) error {
	for _, format := range config.OutputFormats {
		if !isSupportedFormat(format) {
			return fmt.Errorf("unsupported output format %q (valid: %s)",
				format, strings.Join(SupportedFormats, ", "))
		}
	}

	if config.MaxTransactions < 0 {
		return fmt.Errorf("max_transactions must be positive, got %d", config.MaxTransactions)
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q (valid: console, json)", config.LogFormat)
	}

	return nil
}

// EnsureDirectories creates every configured directory that does not exist.
func EnsureDirectories(config *MainConfig) error {
	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
		config.OutputArchiveDir,
		config.ErrorLogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}
