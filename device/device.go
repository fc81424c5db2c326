package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/torre76/screenrec/command"
)

// Private constants (alphabetical)
const (
	// outputDirPerm is used when the local output directory must be created.
	outputDirPerm = 0o755
)

// Public constants (alphabetical)
const (
	// PlatformAndroid selects adb-driven Android devices and emulators.
	PlatformAndroid Platform = "android"

	// PlatformIOS selects booted iOS simulators through simctl.
	PlatformIOS Platform = "ios"
)

// Public types (alphabetical)

// Device is a recordable device as reported by the platform tooling.
type Device struct {
	// Name is what the user sees when choosing a device.
	Name string

	// ID addresses the device in tool invocations. On iOS it is the
	// simulator UDID, on Android it equals Name.
	ID string
}

// Handler is implemented by exactly one type per Platform.
type Handler interface {
	// Platform reports which platform the handler drives.
	Platform() Platform

	// ListDevices returns the devices that can be recorded right now. An
	// empty result means nothing is available and is not an error.
	ListDevices(ctx context.Context) ([]Device, error)

	// Geometries returns the device screen size scaled by each fraction, in
	// order. An empty result means no size could be determined.
	Geometries(ctx context.Context, dev Device, fractions []float64) ([]Geometry, error)

	// Record captures the screen until ctx is cancelled and returns the path
	// of the local video file.
	Record(ctx context.Context, dev Device) (string, error)
}

// Options carries what the handlers need from the outside world.
type Options struct {
	// AndroidHome is the Android SDK root. Only the Android handler reads it.
	AndroidHome string

	// Logger receives debug output.
	Logger zerolog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// OutputDir is the local directory recordings are written to.
	OutputDir string

	// Runner executes the platform tools.
	Runner command.Runner

	// Sleep pauses between tool invocations that need the device to settle.
	// Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Platform names a supported device platform.
type Platform string

// Public functions (alphabetical)

// NewHandler returns the Handler for platform.
func NewHandler(platform Platform, opts Options) (Handler, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Runner == nil {
		return nil, FormatError("no command runner configured")
	}

	switch platform {
	case PlatformIOS:
		return &IOSHandler{opts: opts}, nil
	case PlatformAndroid:
		if opts.AndroidHome == "" {
			return nil, FormatError("android SDK location is required")
		}
		return &AndroidHandler{opts: opts}, nil
	default:
		return nil, FormatError("unknown platform %q", platform)
	}
}

// ParsePlatform maps a user supplied name onto a Platform.
func ParsePlatform(name string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(name))); p {
	case PlatformAndroid, PlatformIOS:
		return p, nil
	default:
		return "", FormatError("invalid platform %q, valid options are %q and %q", name, PlatformIOS, PlatformAndroid)
	}
}

// Private functions (alphabetical)

// localRecordingPath builds the timestamp-named local capture path and makes
// sure its directory exists.
func localRecordingPath(outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return "", FormatError("creating output directory: %w", err)
	}
	return filepath.Join(outputDir, fmt.Sprintf("recording_%d.mp4", now.Unix())), nil
}
