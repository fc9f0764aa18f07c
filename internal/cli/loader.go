package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/navkit/internal/compiler"
)

// LoadError is a route table loading failure with a stable code.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// Error code constants, shared by every command.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E002" // Path not found
	ErrCodeCUE            = "E003" // CUE syntax or evaluation error
	ErrCodeNoDeeplink     = "E004" // deeplink block missing
	ErrCodeNoRoutes       = "E005" // routes list missing or malformed
	ErrCodeBadPattern     = "E006" // pattern failed to compile
	ErrCodeBadRouteName   = "E007" // route name empty or invalid
	ErrCodeBadField       = "E008" // other field has the wrong type
	ErrCodeScenario       = "E010" // scenario file invalid
	ErrCodeJournal        = "E020" // journal could not be opened or read
	ErrCodeUnknownSession = "E021" // session not in journal
)

// LoadRoutes compiles the route table at path, converting failures to
// *LoadError.
func LoadRoutes(path string) (*compiler.RouteTable, error) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "no route table given (pass a path or set routes in config)"}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("route table not found: %s", path)}
	}

	table, err := compiler.LoadRouteTable(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return table, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Error(),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeCUE
	case field == "deeplink":
		return ErrCodeNoDeeplink
	case field == "routes":
		return ErrCodeNoRoutes
	case strings.HasSuffix(field, ".pattern"):
		return ErrCodeBadPattern
	case strings.HasSuffix(field, ".route"):
		return ErrCodeBadRouteName
	case strings.HasPrefix(field, "routes["), field == "schemes", field == "hosts":
		return ErrCodeBadField
	default:
		return ErrCodeGeneric
	}
}
