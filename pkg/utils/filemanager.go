// =============================================================================
// DDOT Validator - File Management Utilities
// =============================================================================
//
// This module handles the file operations around a processing run:
//   - Discovering DDOT files in the input directory
//   - Naming output files
//   - Archiving inputs and outputs after a successful run
//   - Writing the error log and the processing summary
//
// DIRECTORY STRUCTURE:
//
//   ./input/              <- DDOT files waiting to be processed
//   ./output/             <- Generated json/xml/xlsx/yaml outputs
//   ./input_archive/      <- Inputs moved here after success
//   ./output_archive/     <- Copies of generated outputs
//   ./logs/               <- ddot_errors_*.log and ddot_summary_*.log
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// timestampLayout names log files and fills the {timestamp} placeholder.
const timestampLayout = "20060102_150405"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles discovery and archiving for one run.
type FileManager struct {
	InputDir         string
	OutputDir        string
	InputArchiveDir  string
	OutputArchiveDir string

	// UseTimestampSubdirs archives into YYYY/MM/DD subdirectories.
	UseTimestampSubdirs bool

	// ArchiveOnSuccess enables archiving. When false the archive methods
	// return the original path unchanged.
	ArchiveOnSuccess bool
}

// NewFileManager creates a FileManager with archiving enabled.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
	}
}

// DiscoverInputFiles returns the regular files in InputDir matching pattern,
// sorted by name. An empty pattern means "*.ddot".
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.ddot"
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		result = append(result, file)
	}
	sort.Strings(result)

	return result, nil
}

// ArchiveInputFile moves a processed input into InputArchiveDir.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath, err := fm.prepareArchivePath(fm.InputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	// Rename fails across filesystems; fall back to copy and remove.
	if err := os.Rename(filePath, archivePath); err != nil {
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveOutputFile copies a generated output into OutputArchiveDir. The
// original stays in OutputDir.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath, err := fm.prepareArchivePath(fm.OutputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

func (fm *FileManager) prepareArchivePath(archiveDir, filePath string) (string, error) {
	if fm.UseTimestampSubdirs {
		now := time.Now()
		archiveDir = filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	return filepath.Join(archiveDir, filepath.Base(filePath)), nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands format and appends ext (without the dot)
// when the result does not already end with it.
//
// PLACEHOLDERS:
//   - {uuid}:      a new random UUID
//   - {timestamp}: YYYYMMDD_HHMMSS
//   - {date}:      YYYYMMDD
//   - {time}:      HHMMSS
//   - {key}:       any key from params, e.g. {name}
//
// EXAMPLE:
//   GenerateOutputFileName("{name}_{date}", "json", map[string]string{"name": "sites"})
//   -> "sites_20240115.json"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format(timestampLayout),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	suffix := "." + strings.TrimPrefix(ext, ".")
	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(suffix)) {
		result += suffix
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// ERROR LOGGING
// =============================================================================

// ErrorLogEntry describes one file that failed processing.
type ErrorLogEntry struct {
	Timestamp time.Time
	FileName  string

	// Kind is the failure category, e.g. "DuplicateSite".
	Kind string

	Message string

	// LineNumbers are the DDOT lines involved, when known.
	LineNumbers []int
}

// WriteErrorLog writes entries to ddot_errors_<timestamp>.log in dir and
// returns the log path. Nothing is written when entries is empty.
func WriteErrorLog(entries []ErrorLogEntry, dir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(dir, fmt.Sprintf("ddot_errors_%s.log", time.Now().Format(timestampLayout)))

	err := writeReport(logPath, func(w *bufio.Writer) {
		fmt.Fprintf(w, "DDOT Validator - Error Log\n"+
			"Generated: %s\n"+
			"Total Errors: %d\n"+
			"%s\n\n",
			time.Now().Format("2006-01-02 15:04:05"), len(entries), rule)

		for i, entry := range entries {
			fmt.Fprintf(w, "Error #%d\n"+
				"  Timestamp:  %s\n"+
				"  File:       %s\n"+
				"  Kind:       %s\n"+
				"  Message:    %s\n",
				i+1,
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.FileName,
				entry.Kind,
				entry.Message)
			if len(entry.LineNumbers) > 0 {
				fmt.Fprintf(w, "  Lines:      %s\n", types.JoinInts(entry.LineNumbers))
			}
			w.WriteString("\n")
		}

		fmt.Fprintf(w, "%s\nEnd of Error Log\n", rule)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// SUMMARY LOGGING
// =============================================================================

// ProcessingSummary aggregates a processing run.
type ProcessingSummary struct {
	StartTime         time.Time
	EndTime           time.Time
	TotalFiles        int
	SuccessfulFiles   int
	FailedFiles       int
	TotalLines        int
	TotalTransactions int
	TotalRecords      int
	ProcessedFiles    []ProcessedFileInfo
	FailedFilesList   []FailedFileInfo
}

// ProcessedFileInfo describes one successfully processed file.
type ProcessedFileInfo struct {
	InputFile    string
	OutputFiles  []string
	ArchivePath  string
	Lines        int
	Transactions int
	Records      int
	ProcessTime  time.Duration
}

// FailedFileInfo describes one failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	ErrorKind    string
}

// WriteSummaryLog writes ddot_summary_<timestamp>.log to dir.
func WriteSummaryLog(summary ProcessingSummary, dir string) (string, error) {
	summaryPath := filepath.Join(dir, fmt.Sprintf("ddot_summary_%s.log", time.Now().Format(timestampLayout)))

	err := writeReport(summaryPath, func(w *bufio.Writer) {
		fmt.Fprintf(w, "DDOT Validator - Processing Summary\n"+
			"%s\n\n"+
			"Run Information:\n"+
			"  Start Time:     %s\n"+
			"  End Time:       %s\n"+
			"  Duration:       %s\n\n"+
			"Statistics:\n"+
			"  Total Files:        %d\n"+
			"  Successful:         %d\n"+
			"  Failed:             %d\n"+
			"  Total Lines:        %d\n"+
			"  Total Transactions: %d\n"+
			"  Total Site Records: %d\n\n",
			rule,
			summary.StartTime.Format("2006-01-02 15:04:05"),
			summary.EndTime.Format("2006-01-02 15:04:05"),
			summary.EndTime.Sub(summary.StartTime).String(),
			summary.TotalFiles,
			summary.SuccessfulFiles,
			summary.FailedFiles,
			summary.TotalLines,
			summary.TotalTransactions,
			summary.TotalRecords)

		if len(summary.ProcessedFiles) > 0 {
			fmt.Fprintf(w, "Successful Files:\n%s\n", thinRule)
			for _, pf := range summary.ProcessedFiles {
				fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
				for _, out := range pf.OutputFiles {
					fmt.Fprintf(w, "  Output:       %s\n", out)
				}
				if pf.ArchivePath != "" {
					fmt.Fprintf(w, "  Archived To:  %s\n", pf.ArchivePath)
				}
				fmt.Fprintf(w, "  Transactions: %d\n", pf.Transactions)
				fmt.Fprintf(w, "  Site Records: %d\n", pf.Records)
				fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime.String())
			}
		}

		if len(summary.FailedFilesList) > 0 {
			fmt.Fprintf(w, "Failed Files:\n%s\n", thinRule)
			for _, ff := range summary.FailedFilesList {
				fmt.Fprintf(w, "  File:  %s\n", ff.InputFile)
				fmt.Fprintf(w, "  Kind:  %s\n", ff.ErrorKind)
				fmt.Fprintf(w, "  Error: %s\n\n", ff.ErrorMessage)
			}
		}

		fmt.Fprintf(w, "%s\nEnd of Summary\n", rule)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write summary log: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

const (
	rule     = "================================================================================"
	thinRule = "--------------------------------------------------------------------------------"
)

func writeReport(path string, body func(w *bufio.Writer)) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	body(w)
	return w.Flush()
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
