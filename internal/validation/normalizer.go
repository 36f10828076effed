// =============================================================================
// DDOT Validator - Normalization Rules
// =============================================================================
//
// Normalization rewrites a handful of attribute values into the form the
// site table expects. Each rule applies only when its attribute is present in
// the record.
//
//   stationName       strip one surrounding pair of single quotes
//   latitude          leading space unless already signed or spaced
//   longitude         latitude rule, then pad a one-digit degree field
//   siteWebReadyCode  "C" becomes "Y"
//
// =============================================================================

package validation

import (
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// NormalizeFunc rewrites a single attribute value.
type NormalizeFunc func(value string) string

// Normalizer holds the per-attribute rules.
type Normalizer struct {
	rules map[codes.Attribute]NormalizeFunc
}

// NewNormalizer creates a Normalizer with the standard rules.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		rules: map[codes.Attribute]NormalizeFunc{
			codes.StationName:      NormalizeStationName,
			codes.Latitude:         NormalizeLatitude,
			codes.Longitude:        NormalizeLongitude,
			codes.SiteWebReadyCode: NormalizeSiteWebReadyCode,
		},
	}
}

// Apply rewrites the record in place.
func (n *Normalizer) Apply(record types.SiteRecord) {
	for attr, rule := range n.rules {
		value, ok := record[string(attr)]
		if !ok {
			continue
		}
		record[string(attr)] = rule(value)
	}
}

// NormalizeStationName strips one leading and one trailing single quote, only
// when both are present.
//
// EXAMPLE:
//   "'ABC'" -> "ABC"
//   "'ABC"  -> "'ABC"
func NormalizeStationName(value string) string {
	if !strings.HasPrefix(value, "'") || !strings.HasSuffix(value, "'") {
		return value
	}
	if len(value) < 2 {
		return ""
	}
	return value[1 : len(value)-1]
}

// NormalizeLatitude prepends a space to a non-empty value that does not
// already start with a space or a hyphen.
//
// EXAMPLE:
//   "453015"  -> " 453015"
//   "-453015" -> "-453015"
func NormalizeLatitude(value string) string {
	if value == "" || value[0] == ' ' || value[0] == '-' {
		return value
	}
	return " " + value
}

// NormalizeLongitude applies the latitude rule, then inserts a '0' after the
// first character when the second character is neither '1' nor '0'. Values
// shorter than two characters are left as they are after the first step.
//
// EXAMPLE:
//   "5"    -> " 05"
//   "-5"   -> "-05"
//   "100"  -> " 100"
func NormalizeLongitude(value string) string {
	value = NormalizeLatitude(value)
	if len(value) < 2 {
		return value
	}
	if value[1] != '1' && value[1] != '0' {
		return value[:1] + "0" + value[1:]
	}
	return value
}

// NormalizeSiteWebReadyCode rewrites "C" to "Y".
func NormalizeSiteWebReadyCode(value string) string {
	if value == "C" {
		return "Y"
	}
	return value
}
