package ffmpeg

import (
	"context"

	"github.com/torre76/screenrec/command"
)

// Encoder produces the GIF for one attempt at destination.
type Encoder interface {
	Encode(ctx context.Context, a Attempt, destination string) error
}

// CommandEncoder runs the ffmpeg binary through a command.Runner.
type CommandEncoder struct {
	// Binary is the ffmpeg executable, a path or a name resolved via PATH.
	Binary string

	// Runner executes the binary.
	Runner command.Runner
}

// NewCommandEncoder creates an encoder for the ffmpeg at binary.
func NewCommandEncoder(binary string, runner command.Runner) *CommandEncoder {
	return &CommandEncoder{Binary: binary, Runner: runner}
}

// Encode runs ffmpeg for a. Any output on stderr is a failure, whatever the
// exit status; ffmpeg runs at -loglevel error, so it only writes there when
// something went wrong.
func (e *CommandEncoder) Encode(ctx context.Context, a Attempt, destination string) error {
	args := BuildArgs(e.Binary, a, destination)
	out, err := e.Runner.Run(ctx, args[0], args[1:]...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if out.Stderr != "" {
		return &EncodeError{Stderr: out.Stderr, Err: err}
	}
	if err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}
