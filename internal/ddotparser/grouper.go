package ddotparser

import (
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// =============================================================================
// TRANSACTION GROUPING
// =============================================================================

// GroupTransactions groups validated lines into transactions.
//
// GROUPING LOGIC:
//   Consecutive lines with the same 20-character site key form a group. Only
//   contiguous runs are grouped: the same site appearing again after another
//   site's lines starts a new group.
//
//   Within a group, a payload beginning with "R=" closes the transaction
//   accumulated so far (if any) and starts a new one. The remainder of the
//   group is always emitted as the final transaction.
//
// Document order is preserved. Lines must already have passed SplitLines.
func GroupTransactions(lines []string) []types.Transaction {
	var transactions []types.Transaction

	var (
		currentKey string
		inGroup    bool
		buf        transactionBuffer
	)

	for i, line := range lines {
		chars := []rune(line)
		siteKey := string(chars[:SiteKeyLength])
		payload := string(chars[SiteKeyLength+1:])
		lineNumber := i + FirstDataLine

		if !inGroup || siteKey != currentKey {
			if inGroup {
				transactions = append(transactions, buf.emit(currentKey))
			}
			currentKey = siteKey
			inGroup = true
		}

		if strings.HasPrefix(payload, codes.NewTransactionMarker) && len(buf.payloads) > 0 {
			transactions = append(transactions, buf.emit(currentKey))
		}

		buf.payloads = append(buf.payloads, payload)
		buf.lineNumbers = append(buf.lineNumbers, lineNumber)
	}

	if inGroup {
		transactions = append(transactions, buf.emit(currentKey))
	}

	return transactions
}

// transactionBuffer accumulates the lines of the transaction being built.
type transactionBuffer struct {
	payloads    []string
	lineNumbers []int
}

// emit returns the buffered transaction and resets the buffer.
func (b *transactionBuffer) emit(siteKey string) types.Transaction {
	key := []rune(siteKey)
	tx := types.Transaction{
		AgencyCode:    string(key[:AgencyCodeLength]),
		SiteNumber:    string(key[AgencyCodeLength:SiteKeyLength]),
		KeyValuePairs: strings.Join(b.payloads, " "),
		LineNumbers:   b.lineNumbers,
	}
	b.payloads = nil
	b.lineNumbers = nil
	return tx
}
