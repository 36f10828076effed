// =============================================================================
// DDOT Validator - Code Table
// =============================================================================
//
// The code table maps the short field codes used in DDOT payloads (numeric
// strings or single letters) to the attribute names carried by a parsed site
// record.
//
// Two codes, "12" and "900", both map to stationName. They are the two
// historical station-name fields; a single transaction may use only one of
// them (enforced by the validation package).
//
// The table is built once at package initialization and has no mutation path.
// Callers get lookups or copies, never the map itself.
//
// =============================================================================

package codes

import (
	"sort"
	"strconv"
)

// Attribute is the semantic name a code translates to.
type Attribute string

// Attributes referenced directly by validation and normalization rules.
const (
	DatabaseTableIdentifier Attribute = "databaseTableIdentifier"
	TransactionType         Attribute = "transactionType"
	StationName             Attribute = "stationName"
	Latitude                Attribute = "latitude"
	Longitude               Attribute = "longitude"
	SiteWebReadyCode        Attribute = "siteWebReadyCode"
)

// TransactionTypeCode is the code whose value selects the transaction type.
const TransactionTypeCode = "T"

// NewTransactionMarker starts a new transaction within a site-key group when
// it prefixes a line payload.
const NewTransactionMarker = "R="

var table = map[string]Attribute{
	"R":   DatabaseTableIdentifier,
	"T":   TransactionType,
	"3":   "dataReliabilityCode",
	"5":   "projectNumber",
	"6":   "districtCode",
	"7":   "stateFipsCode",
	"8":   "countyCode",
	"9":   Latitude,
	"10":  Longitude,
	"11":  "coordinateAccuracyCode",
	"12":  StationName,
	"13":  "landNet",
	"14":  "mapName",
	"15":  "mapScale",
	"16":  "altitude",
	"17":  "altitudeMethodCode",
	"18":  "altitudeAccuracyValue",
	"19":  "topographicCode",
	"20":  "hydrologicUnitCode",
	"21":  "firstConstructionDate",
	"22":  "altitudeDatumCode",
	"23":  "primaryUseOfSiteCode",
	"24":  "primaryUseOfWaterCode",
	"25":  "secondaryUseOfWaterCode",
	"26":  "tertiaryUseOfWaterCode",
	"27":  "holeDepth",
	"28":  "wellDepth",
	"29":  "sourceOfDepthCode",
	"32":  SiteWebReadyCode,
	"35":  "coordinateMethodCode",
	"36":  "coordinateDatumCode",
	"39":  "nationalWaterUseCode",
	"41":  "countryCode",
	"42":  "minorCivilDivisionCode",
	"301": "secondaryUseOfSiteCode",
	"302": "tertiaryUseOfSiteCode",
	"711": "siteEstablishmentDate",
	"712": "gwFileCode",
	"713": "aquiferTypeCode",
	"714": "aquiferCode",
	"715": "nationalAquiferCode",
	"801": "basinCode",
	"802": "siteTypeCode",
	"803": "agencyUseCode",
	"804": "dataTypesCode",
	"805": "instrumentsCode",
	"806": "remarks",
	"808": "drainageArea",
	"809": "contributingDrainageArea",
	"813": "timeZoneCode",
	"814": "daylightSavingsTimeFlag",
	"900": StationName,
}

// Entry is one row of the code table.
type Entry struct {
	Code      string
	Attribute Attribute
}

// Lookup returns the attribute for code.
func Lookup(code string) (Attribute, bool) {
	attr, ok := table[code]
	return attr, ok
}

// Len returns the number of codes in the table.
func Len() int {
	return len(table)
}

// All returns a copy of the table ordered with letter codes first, then
// numeric codes ascending.
func All() []Entry {
	entries := make([]Entry, 0, len(table))
	for code, attr := range table {
		entries = append(entries, Entry{Code: code, Attribute: attr})
	}
	sort.Slice(entries, func(i, j int) bool {
		return codeLess(entries[i].Code, entries[j].Code)
	})
	return entries
}

// Attributes returns the distinct attribute names in the table, sorted.
func Attributes() []Attribute {
	seen := make(map[Attribute]bool, len(table))
	attrs := make([]Attribute, 0, len(table))
	for _, attr := range table {
		if !seen[attr] {
			seen[attr] = true
			attrs = append(attrs, attr)
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
	return attrs
}

func codeLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr != nil && bErr != nil:
		return a < b
	case aErr != nil:
		return true
	case bErr != nil:
		return false
	default:
		return ai < bi
	}
}
