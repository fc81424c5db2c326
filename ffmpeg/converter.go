package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/torre76/screenrec/device"
)

// Private constants (alphabetical)
const (
	// minWidth keeps the scale filter valid after many resolution cuts.
	minWidth = 1

	// outputDirPerm is used when the output directory must be created.
	outputDirPerm = 0o755
)

// Public types (alphabetical)

// Converter turns a recording into a GIF below MaxSizeBytes, asking its
// Decider how to degrade the output while it is too large.
//
// A Converter owns the source file and every GIF it writes for the duration
// of a Convert call.
type Converter struct {
	// Encoder runs a single encode.
	Encoder Encoder

	// Decider is consulted whenever a GIF is over budget.
	Decider Decider

	// Observer receives progress events. May be nil.
	Observer Observer

	// Logger receives debug and warning output.
	Logger zerolog.Logger

	// OutputDir is where GIFs are written.
	OutputDir string

	// MaxAttempts bounds the number of encodes; once reached the last GIF is
	// kept as is. Zero means unbounded.
	MaxAttempts int

	// Now returns the current time, used for naming outputs. Defaults to
	// time.Now.
	Now func() time.Time
}

// Public functions (alphabetical)

// NewConverter creates a Converter with DefaultMaxAttempts.
func NewConverter(encoder Encoder, decider Decider, outputDir string, logger zerolog.Logger) *Converter {
	return &Converter{
		Encoder:     encoder,
		Decider:     decider,
		Logger:      logger,
		OutputDir:   outputDir,
		MaxAttempts: DefaultMaxAttempts,
		Now:         time.Now,
	}
}

// Public methods (alphabetical)

// Convert encodes source at geometry and frameRate, then keeps re-encoding
// with degraded parameters while the result is over budget and the Decider
// asks for another attempt. On success source is deleted and the final GIF
// is described by the returned Result.
//
// When an encode fails the partial GIF is removed and source is left in
// place for the caller to deal with. The same holds when ctx is cancelled.
func (c *Converter) Convert(ctx context.Context, source string, geometry device.Geometry, frameRate int) (*Result, error) {
	if c.Encoder == nil || c.Decider == nil {
		return nil, FormatError("converter requires an encoder and a decider")
	}
	if geometry.Width <= 0 || geometry.Height <= 0 {
		return nil, FormatError("invalid geometry %s", geometry)
	}
	if err := os.MkdirAll(c.OutputDir, outputDirPerm); err != nil {
		return nil, FormatError("creating output directory: %w", err)
	}

	observer := c.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	attempt := Attempt{Number: 1, SourcePath: source, Geometry: geometry, FrameRate: frameRate}
	for {
		destination := c.destination()
		log := c.Logger.With().Int("attempt", attempt.Number).Str("destination", destination).Logger()
		log.Debug().
			Int("fps", attempt.FrameRate).
			Str("geometry", attempt.Geometry.String()).
			Msg("encoding")

		observer.AttemptStarted(attempt, destination)
		err := c.Encoder.Encode(ctx, attempt, destination)
		observer.AttemptFinished(attempt, destination, err)
		if err != nil {
			c.discard(destination)
			return nil, err
		}

		size, err := fileSize(destination)
		if err != nil {
			return nil, err
		}
		sizeMB := Megabytes(size)
		log.Debug().Int64("bytes", size).Msg("measured output")

		if size < MaxSizeBytes {
			return c.finish(source, destination, size, attempt, false)
		}

		if c.MaxAttempts > 0 && attempt.Number >= c.MaxAttempts {
			log.Warn().Int("max_attempts", c.MaxAttempts).Msg("attempt limit reached, keeping oversized GIF")
			return c.finish(source, destination, size, attempt, true)
		}

		decision, err := c.Decider.Decide(ctx, sizeMB)
		if err != nil {
			c.discard(destination)
			return nil, err
		}

		next := attempt
		next.Number++
		switch decision {
		case KeepAsIs:
			return c.finish(source, destination, size, attempt, true)
		case RepeatWithLowerFrameRate:
			next.FrameRate = max(ScaleFrameRate(sizeMB, attempt.FrameRate), MinFrameRate)
		case RepeatWithLowerResolution:
			next.Geometry = ScaleGeometry(sizeMB, attempt.Geometry)
			if next.Geometry.Width < minWidth {
				if next.Geometry.Width > 0 {
					next.Geometry = next.Geometry.Scale(minWidth / next.Geometry.Width)
				} else {
					next.Geometry.Width = minWidth
				}
			}
		default:
			c.discard(destination)
			return nil, FormatError("unknown decision %v", decision)
		}

		log.Debug().Stringer("decision", decision).Float64("size_mb", sizeMB).Msg("retrying")
		c.discard(destination)
		observer.Retrying(next, sizeMB, decision)
		attempt = next
	}
}

// Private methods (alphabetical)

// destination returns the path of the next GIF.
func (c *Converter) destination() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return filepath.Join(c.OutputDir, fmt.Sprintf("recording_%d.gif", now().Unix()))
}

// discard removes a superseded or partial GIF.
func (c *Converter) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.Logger.Warn().Err(err).Str("path", path).Msg("could not remove intermediate GIF")
	}
}

// finish accepts destination as the final GIF and deletes the source.
func (c *Converter) finish(source, destination string, size int64, a Attempt, overBudget bool) (*Result, error) {
	if err := os.Remove(source); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, FormatError("removing source %s: %w", source, err)
	}
	return &Result{
		Path:       destination,
		SizeBytes:  size,
		Attempts:   a.Number,
		FrameRate:  a.FrameRate,
		Geometry:   a.Geometry,
		OverBudget: overBudget,
	}, nil
}

// Private functions (alphabetical)

// fileSize returns the size of the file at path.
func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, FormatError("measuring %s: %w", path, err)
	}
	return info.Size(), nil
}
