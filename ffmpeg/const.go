// Package ffmpeg turns screen recordings into palette-optimized GIFs and
// shrinks them until they fit the sharing budget. It builds the ffmpeg
// invocation, measures each result and drives the retry loop.
package ffmpeg

import (
	"fmt"
)

// Private constants (alphabetical)
const (
	// bytesPerMegabyte converts byte counts to decimal megabytes.
	bytesPerMegabyte = 1_000_000

	// errorPrefix is used as a prefix for all error messages from this package.
	errorPrefix = "ffmpeg: "

	// maxSizeMegabytes is the budget expressed in decimal megabytes.
	maxSizeMegabytes = MaxSizeBytes / bytesPerMegabyte
)

// Public constants (alphabetical)
const (
	// DefaultFrameRate is the frame rate of the first encode attempt.
	DefaultFrameRate = 30

	// DefaultMaxAttempts bounds the retry loop when the caller does not
	// choose a limit. Zero disables the bound.
	DefaultMaxAttempts = 8

	// MaxSizeBytes is the largest GIF that can be attached to a GitHub
	// issue or pull request.
	MaxSizeBytes = 10_000_000

	// MinFrameRate is the lowest frame rate the converter will request.
	MinFrameRate = 1
)

// Public functions (alphabetical)

// FormatError creates a standardized error message with the package prefix.
func FormatError(format string, args ...interface{}) error {
	return fmt.Errorf(errorPrefix+format, args...)
}

// Megabytes converts a byte count to decimal megabytes.
func Megabytes(bytes int64) float64 {
	return float64(bytes) / bytesPerMegabyte
}
