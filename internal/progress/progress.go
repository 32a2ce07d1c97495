// Package progress draws a terminal progress bar for prune runs.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/panbanda/jsprune/pkg/analyzer"
)

// Bar wraps a progress bar fed by an analyzer.Tracker.
type Bar struct {
	bar   *progressbar.ProgressBar
	w     io.Writer
	label string
}

// New creates a bar writing to stderr.
func New(label string) *Bar {
	return NewWithWriter(label, os.Stderr)
}

// NewWithWriter creates a bar writing to w. The total is unknown until
// the tracker reports it.
func NewWithWriter(label string, w io.Writer) *Bar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{bar: bar, w: w, label: label}
}

// Tracker returns a tracker that advances the bar on each Tick.
func (b *Bar) Tracker() *analyzer.Tracker {
	return analyzer.NewTracker(func(current, total int, name string) {
		if total > 0 && b.bar.GetMax() != total {
			b.bar.ChangeMax(total)
		}
		b.bar.Describe(fmt.Sprintf("%s %s", b.label, name))
		_ = b.bar.Set(current)
	})
}

// FinishSuccess clears the bar completely.
func (b *Bar) FinishSuccess() {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}

// FinishError clears the bar and prints err.
func (b *Bar) FinishError(err error) {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
	fmt.Fprintf(b.w, "  %s error: %v\n", b.label, err)
}
