package deeplink

import (
	"errors"
	"fmt"
)

// PatternError reports a template that cannot be compiled.
type PatternError struct {
	// Template is the full template being compiled.
	Template string

	// Segment is the offending segment.
	Segment string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("deeplink: pattern %q: segment %q: %s", e.Template, e.Segment, e.Message)
}

// IsPatternError reports whether err is or wraps a PatternError.
func IsPatternError(err error) bool {
	var pe *PatternError
	return errors.As(err, &pe)
}
