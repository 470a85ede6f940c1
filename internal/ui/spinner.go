package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Spinner animates a single indeterminate step, such as applying the schema
// or building indexes.
type Spinner struct {
	ui    *UI
	label string
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
	began   time.Time
}

// Spinner animation frames (braille pattern).
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new animated spinner.
func (u *UI) NewSpinner(label string) *Spinner {
	return &Spinner{
		ui:    u,
		label: label,
		done:  make(chan struct{}),
	}
}

// Start begins the animation. Without a terminal it prints the label once.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.began = time.Now()
	s.mu.Unlock()

	if !s.ui.Styled() {
		fmt.Fprintf(s.ui.Out, "%s...", s.label)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frame := 0
		style := lipgloss.NewStyle().Foreground(ColorPrimary)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(s.ui.Out, "\r%s %s...", style.Render(spinnerFrames[frame]), s.label)
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// stop ends the animation once; it reports false if the spinner never ran
func (s *Spinner) stop() bool {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return false
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	return true
}

// Success stops the spinner and shows the elapsed time.
func (s *Spinner) Success(msg string) {
	if !s.stop() {
		return
	}
	took := FormatDuration(time.Since(s.began))

	if !s.ui.Styled() {
		fmt.Fprintf(s.ui.Out, " %s (%s)\n", msg, took)
		return
	}
	fmt.Fprintf(s.ui.Out, "\r\033[K%s %s... %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		s.label,
		msg,
		StyleMuted.Render(took),
	)
}

// Error stops the spinner and shows an error message.
func (s *Spinner) Error(msg string) {
	if !s.stop() {
		return
	}

	if !s.ui.Styled() {
		fmt.Fprintf(s.ui.Out, " %s\n", msg)
		return
	}
	fmt.Fprintf(s.ui.Out, "\r\033[K%s %s... %s\n",
		StyleError.Render(SymbolError),
		s.label,
		StyleError.Render(msg),
	)
}
