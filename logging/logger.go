// Package logging builds the zerolog logger shared by all screenrec packages.
package logging

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Verbose enables debug output;
// otherwise only warnings and errors are shown so the status lines printed by
// the CLI stay readable. Colors follow fatih/color's terminal detection.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, TimeFormat: time.TimeOnly}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
