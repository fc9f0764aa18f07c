package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is a route table error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsCompileError reports whether err wraps a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// formatCUEError converts the first CUE error into a CompileError for
// field, keeping its source position when CUE reports one.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	ce := &CompileError{Field: field, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		ce.Message = errs[0].Error()
		if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
			ce.Pos = positions[0]
		}
	}
	return ce
}
