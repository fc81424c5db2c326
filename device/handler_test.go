package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/torre76/screenrec/command"
)

// fakeRunner answers commands from a table keyed by the joined argument
// vector and records every invocation.
type fakeRunner struct {
	outputs     map[string]command.Output
	errs        map[string]error
	calls       []string
	interrupted []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]command.Output),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (command.Output, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err := ctx.Err(); err != nil {
		return command.Output{}, err
	}
	return f.outputs[key], f.errs[key]
}

func (f *fakeRunner) RunUntilInterrupted(ctx context.Context, name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	f.interrupted = append(f.interrupted, key)
	return f.errs[key]
}

// HandlerTestSuite exercises both platform handlers against a fake runner.
type HandlerTestSuite struct {
	suite.Suite
	tempDir string
	runner  *fakeRunner
	slept   []time.Duration
	opts    Options
}

// SetupTest creates a fresh runner and output directory for every test.
func (s *HandlerTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.runner = newFakeRunner()
	s.slept = nil
	s.opts = Options{
		AndroidHome: "/sdk",
		Logger:      zerolog.Nop(),
		Now:         func() time.Time { return time.Unix(1700000000, 0) },
		OutputDir:   filepath.Join(s.tempDir, "out"),
		Runner:      s.runner,
		Sleep:       func(d time.Duration) { s.slept = append(s.slept, d) },
	}
}

// TestNewHandler checks the closed set of platforms.
func (s *HandlerTestSuite) TestNewHandler() {
	ios, err := NewHandler(PlatformIOS, s.opts)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), PlatformIOS, ios.Platform())

	android, err := NewHandler(PlatformAndroid, s.opts)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), PlatformAndroid, android.Platform())

	_, err = NewHandler(Platform("windows"), s.opts)
	assert.Error(s.T(), err)

	noSDK := s.opts
	noSDK.AndroidHome = ""
	_, err = NewHandler(PlatformAndroid, noSDK)
	assert.Error(s.T(), err)
}

// TestParsePlatform checks name normalization.
func (s *HandlerTestSuite) TestParsePlatform() {
	p, err := ParsePlatform(" iOS ")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), PlatformIOS, p)

	p, err = ParsePlatform("android")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), PlatformAndroid, p)

	_, err = ParsePlatform("symbian")
	assert.Error(s.T(), err)
}

// TestIOSFlow lists, sizes and records a simulator.
func (s *HandlerTestSuite) TestIOSFlow() {
	udid := "A1B2C3D4-E5F6-4A7B-8C9D-0E1F2A3B4C5D"
	s.runner.outputs["xcrun simctl list"] = command.Output{Stdout: simctlListOutput}
	s.runner.outputs["xcrun simctl io "+udid+" enumerate"] = command.Output{Stdout: simctlEnumerateOutput}

	handler, err := NewHandler(PlatformIOS, s.opts)
	require.NoError(s.T(), err)
	ctx := context.Background()

	devices, err := handler.ListDevices(ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), devices, 2)
	assert.Equal(s.T(), udid, devices[0].ID)

	geometries, err := handler.Geometries(ctx, devices[0], []float64{1.0, 0.5})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []Geometry{{Width: 1170, Height: 2532}, {Width: 585, Height: 1266}}, geometries)

	path, err := handler.Record(ctx, devices[0])
	require.NoError(s.T(), err)
	assert.Equal(s.T(), filepath.Join(s.opts.OutputDir, "recording_1700000000.mp4"), path)
	assert.Equal(s.T(), []string{"xcrun simctl io " + udid + " recordVideo " + path}, s.runner.interrupted)

	info, err := os.Stat(s.opts.OutputDir)
	require.NoError(s.T(), err)
	assert.True(s.T(), info.IsDir())
}

// TestIOSGeometriesWithoutDisplay checks that a missing display yields no
// sizes rather than an error.
func (s *HandlerTestSuite) TestIOSGeometriesWithoutDisplay() {
	handler, err := NewHandler(PlatformIOS, s.opts)
	require.NoError(s.T(), err)

	geometries, err := handler.Geometries(context.Background(), Device{Name: "x", ID: "y"}, []float64{1.0})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), geometries)
}

// TestAndroidFlow lists, sizes and records an emulator, including the pull
// and cleanup of the device-side file.
func (s *HandlerTestSuite) TestAndroidFlow() {
	adb := filepath.Join("/sdk", "platform-tools", "adb")
	s.runner.outputs[adb+" devices"] = command.Output{Stdout: "List of devices attached\nemulator-5554\tdevice\n"}
	s.runner.outputs[adb+" -s emulator-5554 shell wm size"] = command.Output{Stdout: "Physical size: 1920x1080\n"}

	handler, err := NewHandler(PlatformAndroid, s.opts)
	require.NoError(s.T(), err)
	ctx, cancel := context.WithCancel(context.Background())

	devices, err := handler.ListDevices(ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []Device{{Name: "emulator-5554", ID: "emulator-5554"}}, devices)

	geometries, err := handler.Geometries(ctx, devices[0], []float64{1.0, 0.8})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []Geometry{{Width: 1080, Height: 1920}, {Width: 864, Height: 1536}}, geometries)

	// The user stopping the capture cancels ctx before the pull.
	cancel()
	path, err := handler.Record(ctx, devices[0])
	require.NoError(s.T(), err)

	remote := "/sdcard/video_1700000000.mp4"
	assert.Equal(s.T(), filepath.Join(s.opts.OutputDir, "recording_1700000000.mp4"), path)
	assert.Equal(s.T(), []string{adb + " -s emulator-5554 shell screenrecord " + remote}, s.runner.interrupted)
	assert.Equal(s.T(), []string{
		adb + " devices",
		adb + " -s emulator-5554 shell wm size",
		adb + " -s emulator-5554 pull " + remote + " " + path,
		adb + " -s emulator-5554 shell rm -f " + remote,
	}, s.runner.calls)
	assert.Equal(s.T(), []time.Duration{500 * time.Millisecond, time.Second}, s.slept)
}

// TestAndroidPullFailure checks that a failed transfer is reported.
func (s *HandlerTestSuite) TestAndroidPullFailure() {
	adb := filepath.Join("/sdk", "platform-tools", "adb")
	remote := "/sdcard/video_1700000000.mp4"
	local := filepath.Join(s.opts.OutputDir, "recording_1700000000.mp4")
	s.runner.errs[adb+" -s serial pull "+remote+" "+local] = errors.New("device offline")

	handler, err := NewHandler(PlatformAndroid, s.opts)
	require.NoError(s.T(), err)

	_, err = handler.Record(context.Background(), Device{Name: "serial", ID: "serial"})
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "device offline")
}

// TestAndroidGeometryParseFailure checks that a malformed size is fatal.
func (s *HandlerTestSuite) TestAndroidGeometryParseFailure() {
	adb := filepath.Join("/sdk", "platform-tools", "adb")
	s.runner.outputs[adb+" -s serial shell wm size"] = command.Output{Stdout: "Physical size: unknown"}

	handler, err := NewHandler(PlatformAndroid, s.opts)
	require.NoError(s.T(), err)

	_, err = handler.Geometries(context.Background(), Device{Name: "serial", ID: "serial"}, []float64{1.0})
	assert.True(s.T(), IsParseError(err))
}

// TestHandlerSuite runs the handler test suite.
func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
