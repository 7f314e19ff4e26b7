package table

import (
	"fmt"
	"strings"
)

// EmptySourceError reports a source without a header, or a source that has
// a header but no data rows where at least one is required.
type EmptySourceError struct {
	Source string
	// HeaderOnly is true when the header was present.
	HeaderOnly bool
}

func (e *EmptySourceError) Error() string {
	if e.HeaderOnly {
		return fmt.Sprintf("%s contains only a header", e.Source)
	}
	return fmt.Sprintf("%s is empty or has no header", e.Source)
}

// SchemaError reports required columns absent from a header.
type SchemaError struct {
	Source string
	// Missing lists the absent columns in sorted order.
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is missing required columns: [%s]",
		e.Source, strings.Join(e.Missing, ", "))
}

// MalformedRowError reports a data row that is too short or carries a
// non-integer metric.
type MalformedRowError struct {
	Source string
	Line   int
	Row    []string
	Cause  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed data in %s on line %d: %q: %v",
		e.Source, e.Line, e.Row, e.Cause)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Cause
}

// DuplicateKeyError reports a composite key seen twice in one source.
type DuplicateKeyError struct {
	Source string
	Key    Key
	Line   int
	// FirstLine is where the key was first seen.
	FirstLine int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s found in %s on line %d (first seen on line %d)",
		e.Key, e.Source, e.Line, e.FirstLine)
}
