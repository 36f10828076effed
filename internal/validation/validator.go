// =============================================================================
// DDOT Validator - Validation Engine
// =============================================================================
//
// This module applies the business rules to a tokenized transaction and
// produces the attribute mapping for its site.
//
// VALIDATION STEPS (in order, first failure wins):
//   1. At most one station-name code (12 or 900)
//   2. Exactly one transaction-type code (T)
//   3. Every code present in the code table
//   4. Translation of codes to attribute names
//   5. Transaction type is A (add) or M (modify)
//   6. Normalization of specific attribute values
//
// ERROR HANDLING:
//   Validation of a transaction stops at the first failed rule. The caller is
//   responsible for annotating the error with the transaction's line numbers.
//
// =============================================================================

package validation

import (
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// =============================================================================
// VALIDATOR
// =============================================================================

// validTransactionTypes are the accepted values of the transactionType
// attribute.
var validTransactionTypes = map[string]bool{
	"A": true,
	"M": true,
}

// Validator checks and translates transactions.
type Validator struct {
	normalizer *Normalizer
}

// NewValidator creates a Validator with the standard normalization rules.
func NewValidator() *Validator {
	return &Validator{normalizer: NewNormalizer()}
}

// Validate checks a transaction's key/value pairs and returns the translated,
// normalized site record.
func (v *Validator) Validate(tx types.Transaction, pairs []types.KeyValuePair) (types.SiteRecord, error) {
	if err := checkStationName(pairs); err != nil {
		return nil, err
	}
	if err := checkTransactionTypeCount(pairs); err != nil {
		return nil, err
	}
	if err := checkCodes(pairs); err != nil {
		return nil, err
	}

	record := Translate(tx, pairs)

	if err := checkTransactionType(record); err != nil {
		return nil, err
	}

	v.normalizer.Apply(record)

	return record, nil
}

// =============================================================================
// RULES
// =============================================================================

// checkStationName fails when more than one pair maps to stationName.
func checkStationName(pairs []types.KeyValuePair) error {
	count := 0
	for _, pair := range pairs {
		if attr, ok := codes.Lookup(pair.Key); ok && attr == codes.StationName {
			count++
		}
	}
	if count > 1 {
		return types.NewError(types.KindDuplicateStationName,
			"transaction contains %d station name codes (12 and 900 are mutually exclusive)", count)
	}
	return nil
}

// checkTransactionTypeCount fails unless exactly one pair has key "T".
func checkTransactionTypeCount(pairs []types.KeyValuePair) error {
	count := 0
	for _, pair := range pairs {
		if pair.Key == codes.TransactionTypeCode {
			count++
		}
	}
	if count != 1 {
		return types.NewError(types.KindMissingTransactionType,
			"transaction must contain exactly one transaction type (T) code, found %d", count)
	}
	return nil
}

// checkCodes fails listing every key that is not in the code table.
func checkCodes(pairs []types.KeyValuePair) error {
	var invalid []string
	for _, pair := range pairs {
		if _, ok := codes.Lookup(pair.Key); !ok {
			invalid = append(invalid, pair.Key)
		}
	}

	if len(invalid) > 0 {
		return types.NewError(types.KindInvalidCodes,
			"transaction contains invalid component codes: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// checkTransactionType fails unless transactionType is A or M.
func checkTransactionType(record types.SiteRecord) error {
	value := record[string(codes.TransactionType)]
	if !validTransactionTypes[value] {
		return types.NewError(types.KindInvalidTransactionType,
			"invalid transaction type %q (must be A or M)", value)
	}
	return nil
}

// =============================================================================
// TRANSLATION
// =============================================================================

// Translate maps each known code to its attribute name and attaches the
// transaction's agency code and site number. Unknown codes are skipped. When
// a code repeats, the last value wins.
func Translate(tx types.Transaction, pairs []types.KeyValuePair) types.SiteRecord {
	record := make(types.SiteRecord, len(pairs)+2)

	for _, pair := range pairs {
		attr, ok := codes.Lookup(pair.Key)
		if !ok {
			continue
		}
		record[string(attr)] = pair.Value
	}

	record[types.AttrAgencyCode] = tx.AgencyCode
	record[types.AttrSiteNumber] = tx.SiteNumber

	return record
}
