// =============================================================================
// DDOT Validator - Parsing Pipeline
// =============================================================================
//
// Parse turns the full text of a DDOT file into site records, or a single
// descriptive error. It performs no I/O.
//
// PIPELINE:
//   1. Split and structurally validate lines (all violations reported)
//   2. Group lines into transactions
//   3. Enforce the transaction ceiling (before any token parsing)
//   4. For each transaction, in order: tokenize, then validate/normalize
//      (first failure aborts; the error carries the transaction's lines)
//   5. Keep only site-table records (databaseTableIdentifier "0")
//   6. Reject the file if two records share agency code and site number
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
	"github.com/ginjaninja78/ddot-validator/internal/ddotparser"
	"github.com/ginjaninja78/ddot-validator/internal/types"
	"github.com/ginjaninja78/ddot-validator/internal/validation"
)

// DefaultMaxTransactions is the largest number of transactions a file may
// contain.
const DefaultMaxTransactions = 30000

// SiteTableIdentifier is the databaseTableIdentifier value of site-table
// transactions.
const SiteTableIdentifier = "0"

// ParseOptions configures Parse.
type ParseOptions struct {
	// MaxTransactions is the transaction ceiling. Zero means
	// DefaultMaxTransactions.
	MaxTransactions int

	// Logger receives debug events for each stage. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultParseOptions returns the options used by Parse.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		MaxTransactions: DefaultMaxTransactions,
		Logger:          zerolog.Nop(),
	}
}

// Parse parses DDOT file content with the default options.
func Parse(content string) ([]types.SiteRecord, error) {
	records, _, err := ParseWithStats(content, DefaultParseOptions())
	return records, err
}

// ParseWithStats parses DDOT file content and reports stage counts.
func ParseWithStats(content string, opts ParseOptions) ([]types.SiteRecord, types.Stats, error) {
	var stats types.Stats

	limit := opts.MaxTransactions
	if limit <= 0 {
		limit = DefaultMaxTransactions
	}
	log := opts.Logger

	lines, err := ddotparser.SplitLines(content)
	if err != nil {
		return nil, stats, err
	}
	stats.Lines = len(lines)

	transactions := ddotparser.GroupTransactions(lines)
	stats.Transactions = len(transactions)
	log.Debug().Int("lines", stats.Lines).Int("transactions", stats.Transactions).Msg("grouped transactions")

	if len(transactions) > limit {
		return nil, stats, types.NewError(types.KindTooManyTransactions,
			"DDOT file contains %d transactions; the maximum is %d", len(transactions), limit)
	}

	validator := validation.NewValidator()
	parsed := make([]types.SiteRecord, 0, len(transactions))

	for _, tx := range transactions {
		pairs, err := ddotparser.ParseTokens(tx.KeyValuePairs)
		if err != nil {
			return nil, stats, types.WithLines(err, tx.LineNumbers)
		}

		record, err := validator.Validate(tx, pairs)
		if err != nil {
			return nil, stats, types.WithLines(err, tx.LineNumbers)
		}

		parsed = append(parsed, record)
	}

	records := FilterSiteRecords(parsed)
	stats.Filtered = len(parsed) - len(records)
	stats.Records = len(records)
	log.Debug().Int("records", stats.Records).Int("filtered", stats.Filtered).Msg("filtered site records")

	if err := CheckDuplicateSites(records); err != nil {
		return nil, stats, err
	}

	return records, stats, nil
}

// FilterSiteRecords keeps the records whose databaseTableIdentifier is "0".
func FilterSiteRecords(records []types.SiteRecord) []types.SiteRecord {
	filtered := make([]types.SiteRecord, 0, len(records))
	for _, record := range records {
		if record[string(codes.DatabaseTableIdentifier)] == SiteTableIdentifier {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// siteID is the identity of a site record.
type siteID struct {
	agencyCode string
	siteNumber string
}

// CheckDuplicateSites fails when two records share agency code and site
// number. Offending sites are listed in order of first appearance.
func CheckDuplicateSites(records []types.SiteRecord) error {
	counts := make(map[siteID]int, len(records))
	var order []siteID

	for _, record := range records {
		id := siteID{agencyCode: record.AgencyCode(), siteNumber: record.SiteNumber()}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	var duplicates []string
	for _, id := range order {
		if counts[id] > 1 {
			duplicates = append(duplicates,
				fmt.Sprintf("%s/%s (%d times)", strings.TrimSpace(id.agencyCode), strings.TrimSpace(id.siteNumber), counts[id]))
		}
	}

	if len(duplicates) > 0 {
		return types.NewError(types.KindDuplicateSite,
			"DDOT file contains duplicate site transactions: %s", strings.Join(duplicates, ", "))
	}
	return nil
}
