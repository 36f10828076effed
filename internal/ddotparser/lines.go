// =============================================================================
// DDOT Validator - DDOT Parser Module
// =============================================================================
//
// This module turns the raw text of a DDOT file into transactions and
// key/value tokens. It handles:
//   - Line splitting (LF and CRLF terminators)
//   - Header removal (the first line is never read)
//   - Structural line validation (length and site-number column)
//   - Grouping of contiguous lines into per-site transactions
//   - Tokenizing of "CODE=VALUE*" / "CODE#VALUE$" payloads
//
// LINE LAYOUT:
//   columns  1-5   agency code
//   columns  6-20  site number
//   column   21    must be a space
//   columns 22-80  payload
//
// Structural validation collects every violation before failing. Everything
// downstream of it fails on the first problem.
//
// =============================================================================

package ddotparser

import (
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// =============================================================================
// LINE LAYOUT CONSTANTS
// =============================================================================

const (
	// MaxLineLength is the longest accepted line, in characters.
	MaxLineLength = 80

	// MinLineLength is the shortest accepted line: the site key plus the
	// separator column.
	MinLineLength = 21

	// SiteKeyLength is the width of agency code plus site number.
	SiteKeyLength = 20

	// AgencyCodeLength is the width of the agency code.
	AgencyCodeLength = 5

	// FirstDataLine is the 1-based number of the first line after the header.
	FirstDataLine = 2
)

// =============================================================================
// LINE SPLITTING
// =============================================================================

// SplitLines splits file content into data lines and validates their shape.
//
// The first line is discarded as a header and one trailing empty line is
// dropped. Lines are returned unchanged; line i of the result is line i+2 of
// the file.
//
// ERRORS:
//   - KindEmptyInput if content is empty
//   - KindNoTransactions if the content has no line after the header
//   - KindValidation listing every structural violation
func SplitLines(content string) ([]string, error) {
	if content == "" {
		return nil, types.NewError(types.KindEmptyInput, "DDOT file is empty")
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	// Drop the header.
	lines = lines[1:]
	if len(lines) == 0 {
		return nil, types.NewError(types.KindNoTransactions, "DDOT file contains no transactions")
	}

	// Tolerate a terminal line terminator. A header followed only by a
	// terminator yields no lines and no error.
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return []string{}, nil
	}

	if violations := ValidateLines(lines); !violations.Empty() {
		return nil, &types.Error{
			Kind:       types.KindValidation,
			Message:    FormatViolations(violations),
			Violations: &violations,
		}
	}

	return lines, nil
}

// =============================================================================
// STRUCTURAL VALIDATION
// =============================================================================

// ValidateLines checks every line against the structural rules. A line is
// reported under at most one rule: too long wins over too short, which wins
// over a bad site-number column.
func ValidateLines(lines []string) types.LineViolations {
	var v types.LineViolations

	for i, line := range lines {
		lineNumber := i + FirstDataLine
		chars := []rune(line)

		switch {
		case len(chars) > MaxLineLength:
			v.TooLong = append(v.TooLong, lineNumber)
		case len(chars) < MinLineLength:
			v.TooShort = append(v.TooShort, lineNumber)
		case chars[SiteKeyLength] != ' ':
			v.BadSiteFormat = append(v.BadSiteFormat, lineNumber)
		}
	}

	return v
}

// FormatViolations renders violations as a single message, one clause per
// non-empty category in the order too long, too short, bad site format.
func FormatViolations(v types.LineViolations) string {
	var clauses []string

	if len(v.TooLong) > 0 {
		clauses = append(clauses, "lines longer than 80 characters: "+types.JoinInts(v.TooLong))
	}
	if len(v.TooShort) > 0 {
		clauses = append(clauses, "lines shorter than 21 characters: "+types.JoinInts(v.TooShort))
	}
	if len(v.BadSiteFormat) > 0 {
		clauses = append(clauses, "lines with a bad site number format (column 21 must be a space): "+types.JoinInts(v.BadSiteFormat))
	}

	return "DDOT file failed line validation; " + strings.Join(clauses, "; ")
}
