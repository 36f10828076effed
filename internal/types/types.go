// =============================================================================
// DDOT Validator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - ddotparser
//   - validation
//   - converter
//   - xmlwriter / xlsxwriter
//
// =============================================================================

package types

import "sort"

// =============================================================================
// RECORD ATTRIBUTE NAMES
// =============================================================================

// Attribute names attached to every SiteRecord from the site key rather than
// from the code table.
const (
	AttrAgencyCode = "agencyCode"
	AttrSiteNumber = "siteNumber"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction is one site's key/value data gathered from one or more
// contiguous lines sharing the same site key.
type Transaction struct {
	// AgencyCode is columns 1-5 of the site key.
	AgencyCode string

	// SiteNumber is columns 6-20 of the site key.
	SiteNumber string

	// KeyValuePairs is the concatenated payload of every contributing line,
	// joined by a single space.
	KeyValuePairs string

	// LineNumbers are the 1-based line numbers of the contributing lines in
	// the original file (the header is line 1).
	LineNumbers []int
}

// KeyValuePair is a single (code, raw value) token extracted from a
// transaction payload.
type KeyValuePair struct {
	Key   string
	Value string
}

// =============================================================================
// SITE RECORD
// =============================================================================

// SiteRecord maps attribute names to (possibly normalized) values. Every
// record carries agencyCode and siteNumber.
type SiteRecord map[string]string

// AgencyCode returns the record's agency code.
func (r SiteRecord) AgencyCode() string {
	return r[AttrAgencyCode]
}

// SiteNumber returns the record's site number.
func (r SiteRecord) SiteNumber() string {
	return r[AttrSiteNumber]
}

// Keys returns the record's attribute names in sorted order so writers
// produce deterministic output.
func (r SiteRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// PARSE STATISTICS
// =============================================================================

// Stats describes how much of a file the pipeline consumed.
type Stats struct {
	// Lines is the number of data lines (header excluded).
	Lines int

	// Transactions is the number of grouped transactions.
	Transactions int

	// Records is the number of site records returned.
	Records int

	// Filtered is the number of transactions dropped because they target a
	// database table other than the site table.
	Filtered int
}
