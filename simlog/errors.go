package simlog

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ParseError reports a line that does not match a strict grammar.
type ParseError struct {
	// Source names the input.
	Source string
	// Line is the 1-based line number, blank lines included.
	Line int
	// Content is the offending line as read.
	Content string
	// Cause is set when the line matched but a field could not be
	// converted.
	Cause error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("could not parse %s line %d: %q", e.Source, e.Line, e.Content)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsParseError reports whether err carries a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
