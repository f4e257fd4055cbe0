// Package cli renders deepzoom results on a terminal: a spinner with a
// progress bar while tiles evaluate, an ASCII preview of tiles, orbit
// tables, and the JSON, quiet and file output modes.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/deepzoom/internal/mandelbrot"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 40
)

// FormatExecutionDuration shows µs below a millisecond, ms below a second
// and the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// progressBar renders progress in [0, 1] as a bar of length runes.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func progressLine(numTiles int, progress float64, eta string) string {
	label := "Progress"
	if numTiles > 1 {
		label = fmt.Sprintf("Tiles (%d)", numTiles)
	}
	return fmt.Sprintf("%s: %6.2f%% [%s] ETA: %s", label, progress*100, progressBar(progress, ProgressBarWidth), eta)
}

// DisplayProgress drives a spinner from tile progress updates until
// progressChan is closed, then prints a final 100% line. It runs in its own
// goroutine and calls wg.Done on return.
//
// Parameters:
//   - wg: Signalled when the display has finished.
//   - progressChan: Updates from a mandelbrot.ChannelObserver.
//   - numTiles: The number of tiles contributing to the average.
//   - out: Destination of the spinner.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan mandelbrot.ProgressUpdate, numTiles int, out io.Writer) {
	defer wg.Done()
	if numTiles <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressState(numTiles)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintln(out, progressLine(numTiles, 1, "< 1s"))
				return
			}
			state.Update(update.TileIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" " + progressLine(numTiles, state.Average(), FormatETA(state.ETA())))
		}
	}
}
