package ddotparser

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// =============================================================================
// TOKEN GRAMMAR
// =============================================================================
//
// A payload is a run of tokens of the form
//
//   CODE=VALUE*      or      CODE#VALUE$
//
// each optionally followed by whitespace. The separator ('=' or '#') and the
// ending character ('*' or '$') are not required to pair up.
//
// The ending token is searched from the start of the remaining payload, not
// from after the separator. A key that itself contains '*' or '$' therefore
// ends the value early; such a value is returned empty.
//
// =============================================================================

const separatorChars = "=#"

// endingToken matches an ending character plus any trailing whitespace.
// Whitespace is Unicode whitespace, not just ASCII: vertical tab, the
// information separators, NEL and every Z category rune.
var endingToken = regexp.MustCompile(`[*$][\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*`)

// ParseTokens splits a transaction payload into ordered key/value pairs.
//
// ERRORS:
//   - KindNoTokens if payload is empty
//   - KindMissingSeparator if a key has no '=' or '#' after it
//   - KindMissingEndingToken if no '*' or '$' remains
func ParseTokens(payload string) ([]types.KeyValuePair, error) {
	if payload == "" {
		return nil, types.NewError(types.KindNoTokens, "transaction has no key/value tokens")
	}

	var pairs []types.KeyValuePair
	remaining := payload

	for remaining != "" {
		sep := strings.IndexAny(remaining, separatorChars)
		if sep < 0 {
			return nil, types.NewError(types.KindMissingSeparator,
				"missing '=' or '#' separator in %q", remaining)
		}
		key := remaining[:sep]

		end := endingToken.FindStringIndex(remaining)
		if end == nil {
			return nil, types.NewError(types.KindMissingEndingToken,
				"missing '*' or '$' ending token in %q", remaining)
		}

		valueStart := sep + 1
		value := ""
		if end[0] > valueStart {
			value = remaining[valueStart:end[0]]
		}

		pairs = append(pairs, types.KeyValuePair{Key: key, Value: value})
		remaining = remaining[end[1]:]
	}

	return pairs, nil
}

// FormatTokens renders pairs back into payload form using the '=' / '*'
// convention, separated by a single space.
func FormatTokens(pairs []types.KeyValuePair) string {
	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pair.Key)
		b.WriteByte('=')
		b.WriteString(pair.Value)
		b.WriteByte('*')
	}
	return b.String()
}
