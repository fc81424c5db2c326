package device

import (
	"errors"
	"fmt"
)

// Private constants (alphabetical)
const (
	// errorPrefix marks every error raised by this package.
	errorPrefix = "device: "
)

// Public types (alphabetical)

// ParseError reports tool output that does not have the shape a parser
// requires. Unlike a dropped list entry it is not recoverable.
type ParseError struct {
	// Source names the command whose output was parsed.
	Source string

	// Output is the raw text that failed to parse.
	Output string

	// Reason describes what was expected.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%scannot parse %s output %q: %s", errorPrefix, e.Source, e.Output, e.Reason)
}

// Public functions (alphabetical)

// FormatError creates an error carrying the package prefix.
func FormatError(format string, args ...interface{}) error {
	return fmt.Errorf(errorPrefix+format, args...)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}
