package ffmpeg

import (
	"errors"
	"strings"
)

// EncodeError reports an ffmpeg run that wrote diagnostics or failed.
type EncodeError struct {
	// Stderr is the raw diagnostic output of ffmpeg.
	Stderr string

	// Err is the process error, if the run also exited unsuccessfully.
	Err error
}

func (e *EncodeError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return errorPrefix + "encoding failed: " + msg
}

func (e *EncodeError) Unwrap() error { return e.Err }

// IsEncodeError reports whether err wraps an *EncodeError.
func IsEncodeError(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}
