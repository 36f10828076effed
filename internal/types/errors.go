package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which rule a DDOT file violated.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindNoTransactions
	KindValidation
	KindTooManyTransactions
	KindNoTokens
	KindMissingSeparator
	KindMissingEndingToken
	KindDuplicateStationName
	KindMissingTransactionType
	KindInvalidCodes
	KindInvalidTransactionType
	KindDuplicateSite
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindNoTransactions:
		return "NoTransactions"
	case KindValidation:
		return "ValidationError"
	case KindTooManyTransactions:
		return "TooManyTransactions"
	case KindNoTokens:
		return "NoTokens"
	case KindMissingSeparator:
		return "MissingSeparator"
	case KindMissingEndingToken:
		return "MissingEndingToken"
	case KindDuplicateStationName:
		return "DuplicateStationName"
	case KindMissingTransactionType:
		return "MissingTransactionType"
	case KindInvalidCodes:
		return "InvalidCodes"
	case KindInvalidTransactionType:
		return "InvalidTransactionType"
	case KindDuplicateSite:
		return "DuplicateSite"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrEmptyInput             = errors.New("empty input")
	ErrNoTransactions         = errors.New("no transactions")
	ErrValidation             = errors.New("line validation failed")
	ErrTooManyTransactions    = errors.New("too many transactions")
	ErrNoTokens               = errors.New("no tokens")
	ErrMissingSeparator       = errors.New("missing separator")
	ErrMissingEndingToken     = errors.New("missing ending token")
	ErrDuplicateStationName   = errors.New("duplicate station name")
	ErrMissingTransactionType = errors.New("missing transaction type")
	ErrInvalidCodes           = errors.New("invalid codes")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrDuplicateSite          = errors.New("duplicate site")
)

var sentinels = map[Kind]error{
	KindEmptyInput:             ErrEmptyInput,
	KindNoTransactions:         ErrNoTransactions,
	KindValidation:             ErrValidation,
	KindTooManyTransactions:    ErrTooManyTransactions,
	KindNoTokens:               ErrNoTokens,
	KindMissingSeparator:       ErrMissingSeparator,
	KindMissingEndingToken:     ErrMissingEndingToken,
	KindDuplicateStationName:   ErrDuplicateStationName,
	KindMissingTransactionType: ErrMissingTransactionType,
	KindInvalidCodes:           ErrInvalidCodes,
	KindInvalidTransactionType: ErrInvalidTransactionType,
	KindDuplicateSite:          ErrDuplicateSite,
}

// LineViolations lists the line numbers that failed each structural rule.
type LineViolations struct {
	TooLong       []int
	TooShort      []int
	BadSiteFormat []int
}

// Empty reports whether no line failed any rule.
func (v LineViolations) Empty() bool {
	return len(v.TooLong) == 0 && len(v.TooShort) == 0 && len(v.BadSiteFormat) == 0
}

// Error is the single failure type returned by the DDOT pipeline.
type Error struct {
	Kind    Kind
	Message string

	// LineNumbers are the contributing lines of the failing transaction.
	// Empty for file-level failures.
	LineNumbers []int

	// Violations is set for KindValidation only.
	Violations *LineViolations
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.LineNumbers) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (lines: %s)", e.Message, JoinInts(e.LineNumbers))
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == sentinels[e.Kind]
}

// WithLines returns err annotated with a transaction's line numbers. Errors
// that are not *Error are wrapped as KindUnknown.
func WithLines(err error, lines []int) error {
	if err == nil {
		return nil
	}
	var de *Error
	if !errors.As(err, &de) {
		return &Error{Kind: KindUnknown, Message: err.Error(), LineNumbers: lines}
	}
	annotated := *de
	annotated.LineNumbers = append([]int(nil), lines...)
	return &annotated
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// JoinInts renders line numbers as "2, 3, 7".
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
