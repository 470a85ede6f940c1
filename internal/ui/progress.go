package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// DaysBar renders progress over the days of the sales horizon.
// It is not safe for concurrent use; PhaseList serializes access.
type DaysBar struct {
	bar   progress.Model
	total int
	days  int
	sales int64
	last  time.Time
	start time.Time
}

// NewDaysBar creates a bar for total days.
func (u *UI) NewDaysBar(total int) *DaysBar {
	return &DaysBar{
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		total: total,
		start: time.Now(),
	}
}

// Advance records one written day.
func (b *DaysBar) Advance(day time.Time, sales int) {
	b.days++
	b.sales += int64(sales)
	b.last = day
}

// Done reports whether every planned day was written.
func (b *DaysBar) Done() bool {
	return b.days >= b.total
}

// Percent returns the completed share in [0, 1].
func (b *DaysBar) Percent() float64 {
	if b.total <= 0 {
		return 1
	}
	return min(float64(b.days)/float64(b.total), 1)
}

// View renders the bar with the day count, last day and sales rate.
func (b *DaysBar) View() string {
	elapsed := time.Since(b.start)
	rate := 0.0
	if elapsed > 10*time.Millisecond {
		rate = float64(b.sales) / elapsed.Seconds()
	}

	detail := fmt.Sprintf("%d/%d days", b.days, b.total)
	if !b.last.IsZero() {
		detail += " " + b.last.Format(time.DateOnly)
	}
	if b.days > 0 && b.days < b.total {
		eta := elapsed / time.Duration(b.days) * time.Duration(b.total-b.days)
		detail += " ETA " + FormatDuration(eta)
	}

	return fmt.Sprintf("%s %s %s",
		b.bar.ViewAs(b.Percent()),
		StyleMuted.Render(detail),
		fmt.Sprintf("%s sales %.0f/s", FormatCount(b.sales), rate),
	)
}
