// Package progress shows the user that a CLI query is still running.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides feedback while a query waits on a backend.
type Reporter interface {
	Start(message string)
	Stop()
}

// NewReporter returns a Spinner writing to stderr, or a CIReporter if the
// CI environment variable is set. quiet disables all output.
func NewReporter(quiet bool) Reporter {
	if quiet {
		return Silent{}
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: os.Stderr}
	}
	return NewSpinner(os.Stderr)
}

// spinInterval is how often the spinner advances.
const spinInterval = 100 * time.Millisecond

// Spinner animates an indeterminate progress bar until stopped.
type Spinner struct {
	w    io.Writer
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner returns a Spinner that draws to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	s.done = make(chan struct{})

	bar, done := s.bar, s.done
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
}

// Stop clears the spinner. It is safe to call without Start.
func (s *Spinner) Stop() {
	s.mu.Lock()
	bar, done := s.bar, s.done
	s.bar, s.done = nil, nil
	s.mu.Unlock()

	if bar == nil {
		return
	}
	close(done)
	s.wg.Wait()
	_ = bar.Finish()
}

// CIReporter prints plain lines suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	start time.Time
}

func (r *CIReporter) Start(message string) {
	r.start = time.Now()
	fmt.Fprintf(r.w, "%s...\n", message)
}

func (r *CIReporter) Stop() {
	fmt.Fprintf(r.w, "done in %s\n", time.Since(r.start).Round(time.Millisecond))
}

// Silent discards all progress output.
type Silent struct{}

func (Silent) Start(string) {}
func (Silent) Stop()        {}
