package device

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Private constants (alphabetical)
const (
	bootedMarker       = "Booted"
	defaultHeightKey   = "Default height"
	defaultWidthKey    = "Default width"
	displayClassMarker = "Class: Display"
	displayIndexMarker = "Display class: 0"
	simctlBinary       = "xcrun"
	simctlSectionBreak = "\n\n"
	simctlSubcommand   = "simctl"
)

// Private variables (alphabetical)

// parenthesizedRegex captures the text of every "(...)" group, non-greedy.
var parenthesizedRegex = regexp.MustCompile(`\((.*?)\)`)

// Public types (alphabetical)

// IOSHandler drives booted iOS simulators with xcrun simctl.
type IOSHandler struct {
	opts Options
}

// Public functions (alphabetical)

// ParseSimulatorGeometry extracts the default size of display 0 from the
// output of "simctl io <udid> enumerate". The boolean is false when the
// display section or one of its size fields is missing or not positive.
func ParseSimulatorGeometry(raw string) (Geometry, bool) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	for _, section := range strings.Split(raw, simctlSectionBreak) {
		if !strings.Contains(section, displayClassMarker) || !strings.Contains(section, displayIndexMarker) {
			continue
		}

		width, okWidth := sectionInt(section, defaultWidthKey)
		height, okHeight := sectionInt(section, defaultHeightKey)
		if !okWidth || !okHeight || width <= 0 || height <= 0 {
			return Geometry{}, false
		}
		return Geometry{Width: float64(width), Height: float64(height)}, true
	}
	return Geometry{}, false
}

// ParseSimulatorList extracts booted simulators from "simctl list" output.
// Lines whose identifier is not a UUID v4 are skipped.
func ParseSimulatorList(raw string) []Device {
	var devices []Device
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, bootedMarker) {
			continue
		}
		if dev, ok := parseSimulatorLine(line); ok {
			devices = append(devices, dev)
		}
	}
	return devices
}

// Public methods (alphabetical)

// Geometries queries the simulator's display and scales it by fractions.
func (h *IOSHandler) Geometries(ctx context.Context, dev Device, fractions []float64) ([]Geometry, error) {
	out, err := h.opts.Runner.Run(ctx, simctlBinary, simctlSubcommand, "io", dev.ID, "enumerate")
	if err != nil {
		return nil, FormatError("querying display of %s: %w", dev.Name, err)
	}

	base, ok := ParseSimulatorGeometry(out.Stdout)
	if !ok {
		h.opts.Logger.Debug().Str("device", dev.ID).Msg("no display section in simctl output")
		return nil, nil
	}
	return ExpandGeometries(base, fractions), nil
}

// ListDevices returns every booted simulator.
func (h *IOSHandler) ListDevices(ctx context.Context) ([]Device, error) {
	out, err := h.opts.Runner.Run(ctx, simctlBinary, simctlSubcommand, "list")
	if err != nil {
		return nil, FormatError("listing simulators: %w", err)
	}
	return ParseSimulatorList(out.Stdout), nil
}

// Platform returns PlatformIOS.
func (h *IOSHandler) Platform() Platform {
	return PlatformIOS
}

// Record runs simctl recordVideo until ctx is cancelled.
func (h *IOSHandler) Record(ctx context.Context, dev Device) (string, error) {
	destination, err := localRecordingPath(h.opts.OutputDir, h.opts.Now())
	if err != nil {
		return "", err
	}

	if err := h.opts.Runner.RunUntilInterrupted(ctx, simctlBinary, simctlSubcommand, "io", dev.ID, "recordVideo", destination); err != nil {
		return "", FormatError("recording %s: %w", dev.Name, err)
	}
	return destination, nil
}

// Private functions (alphabetical)

// parseSimulatorLine turns one booted line of "simctl list" into a Device.
func parseSimulatorLine(line string) (Device, bool) {
	var groups []string
	for _, match := range parenthesizedRegex.FindAllStringSubmatch(line, -1) {
		if match[1] != bootedMarker {
			groups = append(groups, match[1])
		}
	}
	if len(groups) == 0 {
		return Device{}, false
	}

	name, _, _ := strings.Cut(line, "(")
	if !IsUUIDv4(groups[0]) {
		// Same-named simulators are told apart by their runtime or model.
		name += "(" + groups[0] + ")"
	}

	id := groups[len(groups)-1]
	if !IsUUIDv4(id) {
		return Device{}, false
	}
	return Device{Name: strings.TrimSpace(name), ID: id}, true
}

// sectionInt finds the first "key: value" line for key and parses its value.
func sectionInt(section, key string) (int, bool) {
	for _, line := range strings.Split(section, "\n") {
		k, v, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(k) != key {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
