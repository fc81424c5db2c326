package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/torre76/screenrec/ffmpeg"
)

// Private constants (alphabetical)
const (
	// pollInterval is how often the growing GIF is measured.
	pollInterval = 200 * time.Millisecond
)

// Private types (alphabetical)

// progressObserver shows a spinner with the size of the GIF being written
// and announces every retry.
type progressObserver struct {
	// out receives the spinner and the retry messages.
	out io.Writer

	// interval is the polling period of the destination size.
	interval time.Duration

	// mu guards the state of the running attempt below.
	mu sync.Mutex

	// bar is the spinner of the running attempt, nil between attempts.
	bar *progressbar.ProgressBar

	// stop asks the polling goroutine to exit.
	stop chan struct{}

	// done is closed by the polling goroutine when it has exited.
	done chan struct{}
}

// Private functions (alphabetical)

// newProgressObserver creates an observer that writes to out.
func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out, interval: pollInterval}
}

// Private methods (alphabetical)

// AttemptStarted implements ffmpeg.Observer. It starts a spinner and a
// goroutine that follows the size of destination.
func (p *progressObserver) AttemptStarted(a ffmpeg.Attempt, destination string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(fmt.Sprintf("🎞️ Attempt %d: %s at %d fps", a.Number, a.Geometry, a.FrameRate)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go p.poll(p.bar, destination, p.stop, p.done)
}

// AttemptFinished implements ffmpeg.Observer. It stops the polling
// goroutine and clears the spinner.
func (p *progressObserver) AttemptFinished(a ffmpeg.Attempt, destination string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	close(p.stop)
	<-p.done
	if info, statErr := os.Stat(destination); statErr == nil && err == nil {
		_ = p.bar.Set64(info.Size())
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// Retrying implements ffmpeg.Observer.
func (p *progressObserver) Retrying(next ffmpeg.Attempt, sizeMB float64, decision ffmpeg.Decision) {
	style := color.New(color.Reset)
	switch decision {
	case ffmpeg.RepeatWithLowerFrameRate:
		style.Fprintf(p.out, "🔁 Trying again with %d frames per second …\n", next.FrameRate)
	case ffmpeg.RepeatWithLowerResolution:
		style.Fprintf(p.out, "🔁 Trying again with resolution of %s …\n", next.Geometry)
	default:
		style.Fprintf(p.out, "🔁 Trying again (%s) …\n", decision)
	}
}

// poll updates bar with the size of destination until stop is closed.
// A missing file only refreshes the spinner.
func (p *progressObserver) poll(bar *progressbar.ProgressBar, destination string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if info, err := os.Stat(destination); err == nil {
				_ = bar.Set64(info.Size())
			} else {
				_ = bar.Add64(0)
			}
		}
	}
}
