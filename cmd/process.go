// =============================================================================
// DDOT Validator - Process Command
// =============================================================================
//
// COMMAND USAGE:
//   ddot process [flags]
//
// FLAGS:
//   --dry-run    Parse and validate without writing outputs or archiving
//   --file       Process a single file instead of scanning the input directory
//
// PROCESSING FLOW:
//   1. Discover files matching file_pattern in input_dir
//   2. Convert each file in its own goroutine
//   3. Collect results and print a summary
//   4. Write the error log (when any file failed) and the summary log
//
// With continue_on_error set to false, files are processed one at a time and
// processing stops at the first failure.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ddot-validator/internal/config"
	"github.com/ginjaninja78/ddot-validator/internal/converter"
	"github.com/ginjaninja78/ddot-validator/internal/types"
	"github.com/ginjaninja78/ddot-validator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun   bool
	filePath string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Validate and convert DDOT files from the input directory",
	Long: `The process command scans the input directory for DDOT files, validates
each one, and writes the site records in every configured output format.

Each file is processed independently and concurrently; a failure in one file
does not affect the others.

On success:
  - Outputs are written to the output directory
  - The input is archived when archive_on_success is set

On error:
  - The failure is recorded in ddot_errors_<timestamp>.log
  - The input stays in the input directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without writing outputs or archiving")
	processCmd.Flags().StringVar(&filePath, "file", "", "Process only this file")
}

// =============================================================================
// PROCESS LOGIC
// =============================================================================

func runProcess(out io.Writer) error {
	startTime := time.Now()
	cfg := appConfig

	fmt.Fprintln(out, "=== DDOT Validator ===")

	if err := config.EnsureDirectories(cfg); err != nil {
		return err
	}

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
		discovered, err := files.DiscoverInputFiles(cfg.FilePattern)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		inputFiles = discovered
	}

	if len(inputFiles) == 0 {
		fmt.Fprintf(out, "No files matching %s found in %s.\n", cfg.FilePattern, cfg.InputDir)
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))
	logger.Info().Int("files", len(inputFiles)).Bool("dry_run", dryRun).Msg("processing started")

	var results []converter.Result
	if cfg.ShouldContinueOnError() {
		results = convertConcurrently(inputFiles, cfg)
	} else {
		results = convertSequentially(inputFiles, cfg)
	}

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry

	for _, result := range results {
		name := filepath.Base(result.FilePath)

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalLines += result.Stats.Lines
			summary.TotalTransactions += result.Stats.Transactions
			summary.TotalRecords += result.Stats.Records
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:    result.FilePath,
				OutputFiles:  result.OutputFiles,
				ArchivePath:  result.ArchivePath,
				Lines:        result.Stats.Lines,
				Transactions: result.Stats.Transactions,
				Records:      result.Stats.Records,
				ProcessTime:  result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  ✓ %s (%d site records)\n", name, result.Stats.Records)
			continue
		}

		summary.FailedFiles++
		kind := types.KindOf(result.Error).String()
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
			ErrorKind:    kind,
		})
		errorEntries = append(errorEntries, newErrorLogEntry(result))
		logger.Error().Err(result.Error).Str("file", result.FilePath).Str("kind", kind).Msg("file failed")
		fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
	}

	summary.EndTime = time.Now()

	if !dryRun {
		if path, err := utils.WriteErrorLog(errorEntries, cfg.ErrorLogDir); err != nil {
			logger.Warn().Err(err).Msg("failed to write error log")
		} else if path != "" {
			fmt.Fprintf(out, "\nErrors logged to %s\n", path)
		}
		if _, err := utils.WriteSummaryLog(summary, cfg.ErrorLogDir); err != nil {
			logger.Warn().Err(err).Msg("failed to write summary log")
		}
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	if skipped := summary.TotalFiles - len(results); skipped > 0 {
		fmt.Fprintf(out, "Skipped:         %d\n", skipped)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d file(s) failed", summary.FailedFiles)
	}
	return nil
}

// convertConcurrently runs one converter per file and returns the results in
// input order.
func convertConcurrently(inputFiles []string, cfg *config.MainConfig) []converter.Result {
	results := make([]converter.Result, len(inputFiles))

	var wg sync.WaitGroup
	for i, file := range inputFiles {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i] = converter.New(path, cfg, logger).WithDryRun(dryRun).Run()
		}(i, file)
	}
	wg.Wait()

	return results
}

// convertSequentially stops after the first failed file.
func convertSequentially(inputFiles []string, cfg *config.MainConfig) []converter.Result {
	var results []converter.Result
	for _, file := range inputFiles {
		result := converter.New(file, cfg, logger).WithDryRun(dryRun).Run()
		results = append(results, result)
		if !result.Success {
			break
		}
	}
	return results
}

func newErrorLogEntry(result converter.Result) utils.ErrorLogEntry {
	entry := utils.ErrorLogEntry{
		Timestamp: time.Now(),
		FileName:  result.FilePath,
		Kind:      types.KindOf(result.Error).String(),
		Message:   result.Error.Error(),
	}

	var de *types.Error
	if errors.As(result.Error, &de) {
		entry.Message = de.Message
		entry.LineNumbers = de.LineNumbers
	}

	return entry
}
