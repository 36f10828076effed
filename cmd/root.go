// =============================================================================
// DDOT Validator - Root Command
// =============================================================================
//
// COBRA CLI STRUCTURE:
//   rootCmd (ddot)
//   ├── processCmd  (ddot process)
//   ├── validateCmd (ddot validate)
//   ├── codesCmd    (ddot codes)
//   ├── schemaCmd   (ddot schema)
//   └── versionCmd  (ddot version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads an optional .env file (godotenv)
//   2. Loads config.yaml, or the defaults when it does not exist
//   3. Applies DDOT_* environment variables and flags on top (viper)
//   4. Builds the logger
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/ddot-validator/internal/config"
	"github.com/ginjaninja78/ddot-validator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

var (
	// cfgFile is the main configuration file (--config).
	cfgFile string

	// envFile is the dotenv file loaded before reading the environment.
	envFile string

	// verbose forces debug logging.
	verbose bool

	// v holds environment and flag overrides.
	v = viper.New()

	// appConfig and logger are set by initApp before any subcommand runs.
	appConfig *config.MainConfig
	logger    = zerolog.Nop()
	logCloser io.Closer
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ddot",
	Short: "DDOT Validator - parse and validate DDOT site transaction files",
	Long: `DDOT Validator parses fixed-format DDOT files describing monitoring site
transactions, validates them, and writes the resulting site records as JSON,
XML, XLSX or YAML.

Validation covers:
  - Line structure (length and site key format, all violations reported)
  - Token syntax (CODE=VALUE* or CODE#VALUE$)
  - Station name, transaction type and code table rules per transaction
  - Duplicate sites across the whole file

Example Usage:
  ddot validate sites.ddot             # Check one file
  ddot validate --json sites.ddot      # Print the parsed site records
  ddot process                         # Convert every file in the input directory
  ddot process --config ./prod.yaml    # Use a custom configuration file`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the main configuration file")
	flags.StringVar(&envFile, "env-file", ".env", "Path to an optional dotenv file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")
	flags.String("input-dir", "", "Directory scanned for DDOT files")
	flags.String("output-dir", "", "Directory receiving generated outputs")

	for key, flag := range map[string]string{
		"log_level":  "log-level",
		"log_format": "log-format",
		"input_dir":  "input-dir",
		"output_dir": "output-dir",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}

	v.SetEnvPrefix("DDOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// initApp loads configuration and builds the logger.
func initApp() error {
	// A missing .env is normal; a malformed one is not.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyOverrides(cfg, v)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogFile
	logger, logCloser = logging.New(logCfg)

	appConfig = cfg
	logger.Debug().Str("config", cfgFile).Msg("configuration loaded")

	return nil
}

// applyOverrides copies every key set through the environment or a flag
// onto cfg.
func applyOverrides(cfg *config.MainConfig, v *viper.Viper) {
	stringKeys := map[string]*string{
		"input_dir":          &cfg.InputDir,
		"output_dir":         &cfg.OutputDir,
		"input_archive_dir":  &cfg.InputArchiveDir,
		"output_archive_dir": &cfg.OutputArchiveDir,
		"error_log_dir":      &cfg.ErrorLogDir,
		"file_pattern":       &cfg.FilePattern,
		"output_name_format": &cfg.OutputNameFormat,
		"xml_namespace":      &cfg.XMLNamespace,
		"log_level":          &cfg.LogLevel,
		"log_format":         &cfg.LogFormat,
		"log_file":           &cfg.LogFile,
	}
	for key, target := range stringKeys {
		if v.IsSet(key) && v.GetString(key) != "" {
			*target = v.GetString(key)
		}
	}

	if v.IsSet("max_transactions") {
		cfg.MaxTransactions = v.GetInt("max_transactions")
	}
	if v.IsSet("archive_on_success") {
		cfg.ArchiveOnSuccess = v.GetBool("archive_on_success")
	}
	if v.IsSet("use_timestamp_subdirs") {
		cfg.UseTimestampSubdirs = v.GetBool("use_timestamp_subdirs")
	}
	if v.IsSet("continue_on_error") {
		cont := v.GetBool("continue_on_error")
		cfg.ContinueOnError = &cont
	}
	if v.IsSet("output_formats") {
		formats := strings.FieldsFunc(v.GetString("output_formats"), func(r rune) bool {
			return r == ',' || r == ' '
		})
		if len(formats) > 0 {
			cfg.OutputFormats = formats
			config.ApplyDefaults(cfg)
		}
	}
}
