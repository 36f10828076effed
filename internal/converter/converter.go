// =============================================================================
// DDOT Validator - Converter Module
// =============================================================================
//
// This module runs the parsing pipeline for a single file and writes its
// outputs.
//
// CONVERSION PIPELINE:
//   1. Read the input file
//   2. Parse and validate it (see pipeline.go)
//   3. Write one output per configured format (json, xml, xlsx, yaml)
//   4. Archive the input and outputs when archiving is enabled
//
// CONCURRENCY:
//   A Converter handles exactly one file and shares no state with other
//   converters, so the process command runs one per goroutine.
//
// =============================================================================

package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/ddot-validator/internal/config"
	"github.com/ginjaninja78/ddot-validator/internal/types"
	"github.com/ginjaninja78/ddot-validator/internal/xlsxwriter"
	"github.com/ginjaninja78/ddot-validator/internal/xmlwriter"
	"github.com/ginjaninja78/ddot-validator/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the input file.
	FilePath string

	// RunID identifies this run in logs and fills the {uuid} placeholder.
	RunID string

	// OutputFiles are the generated files, in SupportedFormats order.
	// Empty on failure and in dry-run mode.
	OutputFiles []string

	// ArchivePath is where the input was moved, if it was archived.
	ArchivePath string

	// Records are the parsed site records.
	Records []types.SiteRecord

	// Success indicates whether the file parsed and all outputs were written.
	Success bool

	// Error is set when Success is false.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats holds counts and timing for one file.
type ProcessingStats struct {
	types.Stats

	// ProcessingTime is the wall time of Run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter processes a single DDOT file.
type Converter struct {
	path   string
	cfg    *config.MainConfig
	logger zerolog.Logger
	dryRun bool
	files  *utils.FileManager
}

// New creates a Converter for the file at path. A nil cfg uses
// config.Default().
func New(path string, cfg *config.MainConfig, logger zerolog.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	files.ArchiveOnSuccess = cfg.ArchiveOnSuccess
	files.UseTimestampSubdirs = cfg.UseTimestampSubdirs

	return &Converter{
		path:   path,
		cfg:    cfg,
		logger: logger,
		files:  files,
	}
}

// WithDryRun makes Run parse the file without writing or archiving.
func (c *Converter) WithDryRun(dryRun bool) *Converter {
	c.dryRun = dryRun
	return c
}

// Run processes the file. It never panics on bad input; failures are
// reported through Result.Error.
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{
		FilePath: c.path,
		RunID:    uuid.New().String(),
	}
	log := c.logger.With().Str("file", c.path).Str("run_id", result.RunID).Logger()

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	log.Info().Msg("processing file")

	// =========================================================================
	// STEP 1: READ AND PARSE
	// =========================================================================

	content, err := os.ReadFile(c.path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	opts := DefaultParseOptions()
	opts.MaxTransactions = c.cfg.MaxTransactions
	opts.Logger = log

	records, stats, err := ParseWithStats(string(content), opts)
	result.Stats.Stats = stats
	if err != nil {
		result.Error = err
		return result
	}
	result.Records = records

	log.Info().
		Int("lines", stats.Lines).
		Int("transactions", stats.Transactions).
		Int("records", stats.Records).
		Msg("parsed file")

	if c.dryRun {
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 2: WRITE OUTPUTS
	// =========================================================================

	baseName := utils.GenerateOutputFileName(c.cfg.OutputNameFormat, "", map[string]string{
		"name": utils.BaseName(c.path),
		"uuid": result.RunID,
	})

	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		result.Error = fmt.Errorf("failed to create output directory: %w", err)
		return result
	}

	for _, format := range config.SupportedFormats {
		if !c.cfg.HasFormat(format) {
			continue
		}

		outputPath := filepath.Join(c.cfg.OutputDir, baseName+"."+format)
		if err := c.writeOutput(records, format, outputPath); err != nil {
			result.Error = fmt.Errorf("failed to write %s output: %w", format, err)
			return result
		}

		result.OutputFiles = append(result.OutputFiles, outputPath)
		log.Info().Str("format", format).Str("output", outputPath).Msg("wrote output")
	}

	// =========================================================================
	// STEP 3: ARCHIVE
	// =========================================================================

	if c.cfg.ArchiveOnSuccess {
		c.archiveFiles(&result, log)
	}

	result.Success = true
	return result
}

// archiveFiles archives the input and the outputs. Failures are logged but
// do not fail the run.
func (c *Converter) archiveFiles(result *Result, log zerolog.Logger) {
	for _, output := range result.OutputFiles {
		if _, err := c.files.ArchiveOutputFile(output); err != nil {
			log.Warn().Err(err).Str("output", output).Msg("failed to archive output")
		}
	}

	archived, err := c.files.ArchiveInputFile(c.path)
	if err != nil {
		log.Warn().Err(err).Msg("failed to archive input")
		return
	}
	result.ArchivePath = archived
	log.Debug().Str("archive", archived).Msg("archived input")
}

// =============================================================================
// OUTPUT WRITERS
// =============================================================================

// Render encodes records in one of the text formats (json, xml, yaml).
func Render(records []types.SiteRecord, format string) ([]byte, error) {
	if records == nil {
		records = []types.SiteRecord{}
	}

	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case config.FormatXML:
		return xmlwriter.Generate(records)
	case config.FormatYAML:
		return yaml.Marshal(records)
	default:
		return nil, fmt.Errorf("format %q cannot be rendered as text", format)
	}
}

// XMLOptions returns the xml generation options for cfg. The schema
// command uses the same options so the schema matches the outputs.
func XMLOptions(cfg *config.MainConfig) xmlwriter.GenerateOptions {
	return xmlwriter.DefaultGenerateOptions().WithNamespace(cfg.XMLNamespace)
}

func (c *Converter) writeOutput(records []types.SiteRecord, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case config.FormatXLSX:
		return xlsxwriter.Save(records, path, xlsxwriter.DefaultOptions())
	case config.FormatXML:
		data, err = xmlwriter.GenerateWithOptions(records, XMLOptions(c.cfg))
	default:
		data, err = Render(records, format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
