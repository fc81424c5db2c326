//go:build unix

package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RunnerTestSuite exercises ExecRunner against /bin/sh.
type RunnerTestSuite struct {
	suite.Suite
	runner *ExecRunner
}

// SetupTest creates a silent runner.
func (s *RunnerTestSuite) SetupTest() {
	s.runner = NewExecRunner(zerolog.Nop())
}

// TestRunCapturesStreams checks that stdout and stderr are kept apart.
func (s *RunnerTestSuite) TestRunCapturesStreams() {
	out, err := s.runner.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "out\n", out.Stdout)
	assert.Equal(s.T(), "err\n", out.Stderr)
}

// TestRunExitStatus checks that a failing command returns its output and an error.
func (s *RunnerTestSuite) TestRunExitStatus() {
	out, err := s.runner.Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "sh -c")
	assert.Equal(s.T(), "broken\n", out.Stderr)
}

// TestRunCancelled checks that a cancelled context wins over the exit status.
func (s *RunnerTestSuite) TestRunCancelled() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.runner.Run(ctx, "sh", "-c", "sleep 5")
	assert.True(s.T(), errors.Is(err, context.DeadlineExceeded))
}

// TestRunUntilInterruptedStops checks that cancellation is a normal stop.
func (s *RunnerTestSuite) TestRunUntilInterruptedStops() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := s.runner.RunUntilInterrupted(ctx, "sleep", "5")
	assert.NoError(s.T(), err)
	assert.Less(s.T(), time.Since(start), 4*time.Second)
}

// TestRunUntilInterruptedFailure checks that an early exit is reported.
func (s *RunnerTestSuite) TestRunUntilInterruptedFailure() {
	err := s.runner.RunUntilInterrupted(context.Background(), "sh", "-c", "exit 2")
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "status 2")
}

// TestRunnerSuite runs the runner test suite.
func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}
