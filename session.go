package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/gertd/go-pluralize"
	"github.com/torre76/screenrec/device"
	"github.com/torre76/screenrec/ffmpeg"
	"github.com/torre76/screenrec/prompt"
)

// Private variables (alphabetical)

// pluralizeClient formats device and attempt counts.
var pluralizeClient = pluralize.NewClient()

// Private types (alphabetical)

// converter turns a recording into a GIF. *ffmpeg.Converter implements it.
type converter interface {
	Convert(ctx context.Context, source string, geometry device.Geometry, frameRate int) (*ffmpeg.Result, error)
}

// session runs one select, record and convert cycle.
type session struct {
	// handler lists, measures and records devices of one platform.
	handler device.Handler

	// converter turns the recording into the final GIF.
	converter converter

	// choose asks the user for a device or a resolution.
	choose prompt.ChooseFunc

	// fractions are the relative resolutions offered to the user.
	fractions []float64

	// frameRate is the frame rate of the first encode.
	frameRate int

	// out receives the status lines.
	out io.Writer

	// notify derives a context that is cancelled on Control-C.
	notify func(ctx context.Context) (context.Context, context.CancelFunc)
}

// Private functions (alphabetical)

// interruptContext cancels the returned context on os.Interrupt.
func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// isAbort reports whether err means the user gave up.
func isAbort(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, prompt.ErrAborted)
}

// Private methods (alphabetical)

// aborted reports a user abort. Aborting is not an error, so it returns nil.
func (s *session) aborted() error {
	color.New(color.FgYellow).Fprintln(s.out, "❌ Aborted")
	return nil
}

// run executes the whole cycle. A user abort is not an error.
func (s *session) run(ctx context.Context) error {
	regularStyle := color.New(color.Reset)
	valueStyle := color.New(color.Bold)
	successStyle := color.New(color.FgGreen, color.Bold)
	warningStyle := color.New(color.FgYellow)

	devices, err := s.handler.ListDevices(ctx)
	if err != nil {
		return err
	}

	dev, found, err := s.selectDevice(ctx, devices)
	if err != nil {
		if isAbort(err) {
			return s.aborted()
		}
		return err
	}
	if !found {
		warningStyle.Fprintln(s.out, "🤷 No device found")
		return nil
	}

	geometries, err := s.handler.Geometries(ctx, dev, s.fractions)
	if err != nil {
		return err
	}
	if len(geometries) == 0 {
		warningStyle.Fprintf(s.out, "🤷 Could not read the screen size of %s\n", dev.Name)
		return nil
	}

	geometry, err := s.selectGeometry(ctx, geometries)
	if err != nil {
		if isAbort(err) {
			return s.aborted()
		}
		return err
	}

	regularStyle.Fprintln(s.out, "🎥 Started recording! Press Control-C to stop …")
	captureCtx, stopCapture := s.notify(ctx)
	source, err := s.handler.Record(captureCtx, dev)
	stopCapture()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		os.Remove(source)
		return s.aborted()
	}

	regularStyle.Fprintln(s.out, "\n👍 Recording completed")
	regularStyle.Fprintln(s.out, "⏳ Converting video to GIF …")

	convertCtx, stopConvert := s.notify(ctx)
	defer stopConvert()
	result, err := s.converter.Convert(convertCtx, source, geometry, s.frameRate)
	if err != nil {
		if isAbort(err) {
			os.Remove(source)
			return s.aborted()
		}
		return err
	}

	if result.OverBudget {
		warningStyle.Fprintf(s.out, "⚠️ The GIF is %.2f MB, above the %.0f MB limit\n",
			ffmpeg.Megabytes(result.SizeBytes), ffmpeg.Megabytes(ffmpeg.MaxSizeBytes))
	}
	successStyle.Fprintln(s.out, "✅ Your GIF is ready. Rock on!")
	regularStyle.Fprintf(s.out, "  📁 ")
	valueStyle.Fprintf(s.out, "%s\n", result.Path)
	regularStyle.Fprintf(s.out, "  📦 %.2f MB after %s\n",
		ffmpeg.Megabytes(result.SizeBytes), pluralizeClient.Pluralize("attempt", result.Attempts, true))
	return nil
}

// selectDevice picks the only device or asks the user to choose.
func (s *session) selectDevice(ctx context.Context, devices []device.Device) (device.Device, bool, error) {
	if len(devices) == 0 {
		return device.Device{}, false, nil
	}

	color.New(color.Reset).Fprintf(s.out, "🔎 Found %s\n", pluralizeClient.Pluralize("device", len(devices), true))

	idx := 0
	if len(devices) > 1 {
		names := make([]string, 0, len(devices))
		for _, d := range devices {
			names = append(names, d.Name)
		}
		var err error
		idx, err = s.choose(ctx, "Choose a device:", names)
		if err != nil {
			return device.Device{}, false, err
		}
		if idx < 0 || idx >= len(devices) {
			return device.Device{}, false, fmt.Errorf("device choice %d out of range", idx)
		}
	}

	color.New(color.Reset).Fprintf(s.out, "📱 Selected %s\n", devices[idx].Name)
	return devices[idx], true, nil
}

// selectGeometry asks the user for the output resolution.
func (s *session) selectGeometry(ctx context.Context, geometries []device.Geometry) (device.Geometry, error) {
	labels := make([]string, 0, len(geometries))
	for _, g := range geometries {
		labels = append(labels, g.String())
	}

	idx, err := s.choose(ctx, "Which resolution?", labels)
	if err != nil {
		return device.Geometry{}, err
	}
	if idx < 0 || idx >= len(geometries) {
		return device.Geometry{}, fmt.Errorf("resolution choice %d out of range", idx)
	}

	color.New(color.Reset).Fprintf(s.out, "🆗 Selected %s\n", labels[idx])
	return geometries[idx], nil
}
