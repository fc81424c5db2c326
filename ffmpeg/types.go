package ffmpeg

import (
	"context"
	"fmt"

	"github.com/torre76/screenrec/device"
)

// Public constants (alphabetical)
const (
	// KeepAsIs accepts the current GIF even though it is over budget.
	KeepAsIs Decision = iota

	// RepeatWithLowerFrameRate encodes again with fewer frames per second.
	RepeatWithLowerFrameRate

	// RepeatWithLowerResolution encodes again with a smaller output width.
	RepeatWithLowerResolution
)

// Public types (alphabetical)

// Attempt holds the parameters of a single encode.
type Attempt struct {
	// Number counts attempts within one Convert call, starting at 1.
	Number int

	// SourcePath is the video being converted.
	SourcePath string

	// Geometry is the requested output size. Only the width is passed to
	// ffmpeg; the height follows the aspect ratio.
	Geometry device.Geometry

	// FrameRate is the number of frames sampled per second.
	FrameRate int
}

// Decision is what to do with a GIF that exceeds MaxSizeBytes.
type Decision int

// Decider chooses how to proceed with an oversized GIF.
type Decider interface {
	// Decide is called with the size of the current result in decimal
	// megabytes.
	Decide(ctx context.Context, sizeMB float64) (Decision, error)
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(ctx context.Context, sizeMB float64) (Decision, error)

// Observer is notified about the progress of a conversion. Implementations
// must not block.
type Observer interface {
	// AttemptStarted is called right before ffmpeg is started.
	AttemptStarted(a Attempt, destination string)

	// AttemptFinished is called when ffmpeg has exited, with its error if any.
	AttemptFinished(a Attempt, destination string, err error)

	// Retrying is called once the next attempt's parameters are known.
	Retrying(next Attempt, sizeMB float64, decision Decision)
}

// Result describes the GIF a conversion settled on.
type Result struct {
	// Path is the location of the final GIF.
	Path string

	// SizeBytes is the size of the final GIF.
	SizeBytes int64

	// Attempts is the number of encodes that were run.
	Attempts int

	// FrameRate is the frame rate of the final GIF.
	FrameRate int

	// Geometry is the requested size of the final GIF.
	Geometry device.Geometry

	// OverBudget is set when the GIF was kept although it exceeds MaxSizeBytes.
	OverBudget bool
}

// Public methods (alphabetical)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, sizeMB float64) (Decision, error) {
	return f(ctx, sizeMB)
}

// String returns a human readable name for the decision.
func (d Decision) String() string {
	switch d {
	case KeepAsIs:
		return "keep as is"
	case RepeatWithLowerFrameRate:
		return "lower frame rate"
	case RepeatWithLowerResolution:
		return "lower resolution"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Private types (alphabetical)

// nopObserver ignores every event.
type nopObserver struct{}

func (nopObserver) AttemptStarted(Attempt, string)         {}
func (nopObserver) AttemptFinished(Attempt, string, error) {}
func (nopObserver) Retrying(Attempt, float64, Decision)    {}
