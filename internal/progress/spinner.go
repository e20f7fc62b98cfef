// Package progress renders stage spinners for interactive runs.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const renderInterval = 120 * time.Millisecond

// Spinner decorates one long-running stage with an indeterminate
// terminal indicator. A single render goroutine owns the output; Stop
// signals it and waits for it to exit, so nothing is written after
// Stop returns.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
	stop sync.Once
}

// Start launches a spinner labeled with the stage description.
func Start(w io.Writer, label string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(renderInterval/2),
		progressbar.OptionClearOnFinish(),
	)
	s := &Spinner{bar: bar, done: make(chan struct{})}
	s.wg.Add(1)
	go s.render()
	return s
}

func (s *Spinner) render() {
	defer s.wg.Done()
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_ = s.bar.Add(1)
		}
	}
}

// Describe updates the spinner label mid-stage. Safe on a nil spinner.
func (s *Spinner) Describe(label string) {
	if s == nil {
		return
	}
	s.bar.Describe(label)
}

// Stop halts rendering and clears the spinner line. It returns only
// after the render goroutine has exited. Safe to call repeatedly and
// on a nil spinner.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.stop.Do(func() {
		close(s.done)
		s.wg.Wait()
		_ = s.bar.Finish()
	})
}

// Starter launches stage spinners. A nil Starter disables decoration.
type Starter func(label string) *Spinner

// WriterStarter returns a Starter rendering to w.
func WriterStarter(w io.Writer) Starter {
	return func(label string) *Spinner {
		return Start(w, label)
	}
}
