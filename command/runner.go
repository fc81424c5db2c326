// Package command runs external tools by argument vector and hands their
// captured output back to the caller. It is the single place where screenrec
// touches os/exec, so the parsers and the conversion engine can be tested
// against canned output.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Private constants (alphabetical)
const (
	// interruptGrace is how long a capture tool gets to flush its file after
	// it has been sent an interrupt before it is killed.
	interruptGrace = 10 * time.Second
)

// Public types (alphabetical)

// Output holds the captured streams of one finished process.
type Output struct {
	// Stdout is everything the process wrote to standard output.
	Stdout string

	// Stderr is everything the process wrote to standard error.
	Stderr string
}

// Runner executes external commands. Implementations block until the
// process exits.
type Runner interface {
	// Run executes name with args and returns its captured output. A non-zero
	// exit status is reported as an error alongside whatever was captured.
	Run(ctx context.Context, name string, args ...string) (Output, error)

	// RunUntilInterrupted executes a long-running capture tool. Cancelling
	// ctx asks the tool to stop with an interrupt and waits for it to exit;
	// that path is a normal stop and returns nil.
	RunUntilInterrupted(ctx context.Context, name string, args ...string) error
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Logger receives one debug line per invocation.
	Logger zerolog.Logger
}

// Public functions (alphabetical)

// NewExecRunner creates a Runner that logs through logger.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Public methods (alphabetical)

// Run executes the command and captures stdout and stderr separately. The
// process is detached from terminal signals so a Control-C surfaces as a
// cancelled ctx rather than as a failure of the tool.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	r.Logger.Debug().Str("cmd", name).Strs("args", args).Msg("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	detachFromTerminalSignals(cmd)

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// RunUntilInterrupted starts the capture tool and waits for it. The tool runs
// in its own process group so a terminal Control-C reaches only screenrec;
// when ctx is cancelled the tool receives os.Interrupt, which is how simctl
// and screenrecord finalize their output file.
func (r *ExecRunner) RunUntilInterrupted(ctx context.Context, name string, args ...string) error {
	r.Logger.Debug().Str("cmd", name).Strs("args", args).Msg("starting capture")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	detachFromTerminalSignals(cmd)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = interruptGrace

	err := cmd.Run()
	if ctx.Err() != nil {
		// Stopped on request. The exit status of an interrupted tool is not
		// meaningful here.
		r.Logger.Debug().Str("cmd", name).Msg("capture interrupted")
		return nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
