package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// TextProgress reports phases and sales days as plain lines. It is the
// Progress used when output is not a terminal.
type TextProgress struct {
	mu sync.Mutex

	// Configuration
	output     io.Writer
	updateFreq time.Duration

	// State
	totalDays int
	days      int
	sales     int64
	startTime time.Time
	lastPrint time.Time
}

// NewTextProgress creates a reporter writing to output (os.Stderr if nil).
// Day lines are throttled to one per updateFreq; zero means one per second.
func NewTextProgress(output io.Writer, updateFreq time.Duration) *TextProgress {
	if output == nil {
		output = os.Stderr
	}
	if updateFreq == 0 {
		updateFreq = time.Second
	}
	return &TextProgress{
		output:     output,
		updateFreq: updateFreq,
		startTime:  time.Now(),
	}
}

// PhaseStarted prints the phase name
func (p *TextProgress) PhaseStarted(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.output, "%s...\n", name)
}

// PhaseDone prints the phase count and duration
func (p *TextProgress) PhaseDone(name string, count int64, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.output, "  -> %s: %d in %s\n", name, count, formatDuration(d))
}

// DaysPlanned sets the number of days the sales phase will write
func (p *TextProgress) DaysPlanned(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalDays = total
	p.days = 0
	p.sales = 0
	p.startTime = time.Now()
}

// DayWritten counts a written day and prints progress when due. The last
// day always prints.
func (p *TextProgress) DayWritten(day time.Time, sales int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.days++
	p.sales += int64(sales)

	now := time.Now()
	if p.days < p.totalDays && now.Sub(p.lastPrint) < p.updateFreq {
		return
	}
	p.lastPrint = now
	p.render(day)
}

// render outputs the current progress
func (p *TextProgress) render(day time.Time) {
	elapsed := time.Since(p.startTime)

	rate := float64(p.sales) / elapsed.Seconds()
	if elapsed.Seconds() < 0.01 {
		rate = 0
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s", day.Format(time.DateOnly)))

	if p.totalDays > 0 {
		pct := float64(p.days) / float64(p.totalDays) * 100
		sb.WriteString(fmt.Sprintf(" day %d/%d (%.1f%%)", p.days, p.totalDays, pct))

		if p.days > 0 && p.days < p.totalDays {
			perDay := elapsed / time.Duration(p.days)
			eta := perDay * time.Duration(p.totalDays-p.days)
			sb.WriteString(fmt.Sprintf(" ETA: %s", formatDuration(eta)))
		}
	}

	sb.WriteString(fmt.Sprintf(" %d sales (%.0f/s)\n", p.sales, rate))
	fmt.Fprint(p.output, sb.String())
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, mins)
}
