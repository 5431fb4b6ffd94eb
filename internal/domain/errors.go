package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every one of them is fatal for the mission being processed.
var (
	ErrMalformedRecord       = errors.New("malformed record")
	ErrUnknownAircraft       = errors.New("unknown aircraft")
	ErrMissingStormReference = errors.New("missing storm reference")
	ErrOutOfRangeCoordinate  = errors.New("out of range coordinate")
	ErrInvalidDirective      = errors.New("invalid intermediate directive")
)

// RecordError ties an error kind to the mission-file line that triggered it.
type RecordError struct {
	Kind   error
	Line   int    // 1-based line number in the mission file, 0 when not line-specific
	Text   string // raw line content
	Reason string
}

func (e *RecordError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v: %s", e.Line, e.Kind, e.Reason)
	}
	return fmt.Sprintf("line %d: %v: %s (%q)", e.Line, e.Kind, e.Reason, e.Text)
}

func (e *RecordError) Unwrap() error { return e.Kind }

// NewRecordError builds a RecordError with a formatted reason.
func NewRecordError(kind error, line int, text, format string, args ...any) *RecordError {
	return &RecordError{Kind: kind, Line: line, Text: text, Reason: fmt.Sprintf(format, args...)}
}

// ErrorKind returns a short label for the kind wrapped by err, suitable for
// metric labels. Unrecognized errors are labelled "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrUnknownAircraft):
		return "unknown_aircraft"
	case errors.Is(err, ErrMissingStormReference):
		return "missing_storm_reference"
	case errors.Is(err, ErrOutOfRangeCoordinate):
		return "out_of_range_coordinate"
	case errors.Is(err, ErrInvalidDirective):
		return "invalid_directive"
	default:
		return "other"
	}
}
