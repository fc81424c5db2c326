package device

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Private constants (alphabetical)
const (
	adbDaemonMarker = "*"
	pullSettleDelay = 500 * time.Millisecond
	rmSettleDelay   = time.Second
)

// Private variables (alphabetical)

// numberRegex matches every run of digits in "wm size" output.
var numberRegex = regexp.MustCompile(`\d+`)

// Public types (alphabetical)

// AndroidHandler drives devices and emulators through adb from the SDK.
type AndroidHandler struct {
	opts Options
}

// Public functions (alphabetical)

// ParseBridgeGeometry reads the "wm size" output, which must contain exactly
// two numbers: height first, then width.
func ParseBridgeGeometry(raw string) (Geometry, error) {
	tokens := numberRegex.FindAllString(raw, -1)
	if len(tokens) != 2 {
		return Geometry{}, &ParseError{
			Source: "wm size",
			Output: raw,
			Reason: fmt.Sprintf("expected 2 numbers, found %d", len(tokens)),
		}
	}

	height, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Geometry{}, &ParseError{Source: "wm size", Output: raw, Reason: err.Error()}
	}
	width, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Geometry{}, &ParseError{Source: "wm size", Output: raw, Reason: err.Error()}
	}
	if width <= 0 || height <= 0 {
		return Geometry{}, &ParseError{
			Source: "wm size",
			Output: raw,
			Reason: fmt.Sprintf("non-positive size %dx%d", height, width),
		}
	}
	return Geometry{Width: float64(width), Height: float64(height)}, nil
}

// ParseBridgeList extracts device serials from "adb devices" output. The
// serial doubles as display name.
func ParseBridgeList(raw string) []Device {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, adbDaemonMarker) {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	if len(lines) == 0 {
		return nil
	}

	var devices []Device
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		serial, _, _ := strings.Cut(line, "\t")
		devices = append(devices, Device{Name: serial, ID: serial})
	}
	return devices
}

// Public methods (alphabetical)

// Geometries queries "wm size" and scales the result by fractions.
func (h *AndroidHandler) Geometries(ctx context.Context, dev Device, fractions []float64) ([]Geometry, error) {
	out, err := h.opts.Runner.Run(ctx, h.adb(), "-s", dev.ID, "shell", "wm", "size")
	if err != nil {
		return nil, FormatError("querying screen size of %s: %w", dev.Name, err)
	}

	base, err := ParseBridgeGeometry(out.Stdout)
	if err != nil {
		return nil, err
	}
	return ExpandGeometries(base, fractions), nil
}

// ListDevices returns every device adb knows about.
func (h *AndroidHandler) ListDevices(ctx context.Context) ([]Device, error) {
	out, err := h.opts.Runner.Run(ctx, h.adb(), "devices")
	if err != nil {
		return nil, FormatError("listing devices: %w", err)
	}
	return ParseBridgeList(out.Stdout), nil
}

// Platform returns PlatformAndroid.
func (h *AndroidHandler) Platform() Platform {
	return PlatformAndroid
}

// Record runs screenrecord on the device until ctx is cancelled, then pulls
// the file to the output directory and removes the device copy.
func (h *AndroidHandler) Record(ctx context.Context, dev Device) (string, error) {
	now := h.opts.Now()
	remote := fmt.Sprintf("/sdcard/video_%d.mp4", now.Unix())

	if err := h.opts.Runner.RunUntilInterrupted(ctx, h.adb(), "-s", dev.ID, "shell", "screenrecord", remote); err != nil {
		return "", FormatError("recording %s: %w", dev.Name, err)
	}

	destination, err := localRecordingPath(h.opts.OutputDir, now)
	if err != nil {
		return "", err
	}

	// ctx is normally cancelled by now; the transfer must still run.
	transferCtx := context.WithoutCancel(ctx)

	h.opts.Sleep(pullSettleDelay)
	if _, err := h.opts.Runner.Run(transferCtx, h.adb(), "-s", dev.ID, "pull", remote, destination); err != nil {
		return "", FormatError("pulling %s from %s: %w", remote, dev.Name, err)
	}

	h.opts.Sleep(rmSettleDelay)
	if _, err := h.opts.Runner.Run(transferCtx, h.adb(), "-s", dev.ID, "shell", "rm", "-f", remote); err != nil {
		h.opts.Logger.Warn().Err(err).Str("path", remote).Msg("could not remove recording from device")
	}
	return destination, nil
}

// Private methods (alphabetical)

// adb returns the adb binary inside the SDK.
func (h *AndroidHandler) adb() string {
	return filepath.Join(h.opts.AndroidHome, "platform-tools", "adb")
}
