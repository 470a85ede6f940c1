package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PhaseList tracks the generation phases with live updates. It satisfies the
// generator's Progress interface; the sales phase shows a bar over days.
//
// On a terminal the whole list is redrawn in place. Otherwise each phase
// prints one line when it finishes.
type PhaseList struct {
	ui    *UI
	mu    sync.Mutex
	items map[string]*phaseItem
	order []string
	days  *DaysBar

	lineCount  int
	lastRender time.Time
	minRedraw  time.Duration
}

type phaseItem struct {
	name    string
	status  Status
	count   int64
	started time.Time
	took    time.Duration
}

// NewPhaseList creates a tracker for the named phases, all pending.
func (u *UI) NewPhaseList(phases []string) *PhaseList {
	l := &PhaseList{
		ui:        u,
		items:     make(map[string]*phaseItem, len(phases)),
		minRedraw: 100 * time.Millisecond,
	}
	for _, name := range phases {
		l.items[name] = &phaseItem{name: name, status: StatusPending}
		l.order = append(l.order, name)
	}
	return l
}

// Skip marks a phase that will not run.
func (l *PhaseList) Skip(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if item, ok := l.items[name]; ok {
		item.status = StatusSkipped
	}
}

// PhaseStarted marks a phase as running.
func (l *PhaseList) PhaseStarted(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.item(name)
	item.status = StatusProgress
	item.started = time.Now()
	l.render(true)
}

// PhaseDone marks a phase as complete.
func (l *PhaseList) PhaseDone(name string, count int64, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.item(name)
	item.status = StatusSuccess
	item.count = count
	item.took = d

	if !l.ui.Styled() {
		fmt.Fprintln(l.ui.Out, l.ui.TableRow(name, fmt.Sprintf("%s in %s", FormatCount(count), FormatDuration(d)), StatusSuccess))
		return
	}
	l.render(true)
}

// DaysPlanned sizes the sales bar.
func (l *PhaseList) DaysPlanned(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.days = l.ui.NewDaysBar(total)
	l.render(true)
}

// DayWritten advances the sales bar.
func (l *PhaseList) DayWritten(day time.Time, sales int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.days == nil {
		return
	}
	l.days.Advance(day, sales)
	l.render(l.days.Done())
}

// Fail marks the running phase as failed and redraws.
func (l *PhaseList) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, name := range l.order {
		item := l.items[name]
		if item.status == StatusProgress {
			item.status = StatusError
			if !l.ui.Styled() {
				fmt.Fprintln(l.ui.Out, l.ui.TableRow(name, err.Error(), StatusError))
			}
		}
	}
	l.render(true)
}

// item returns the tracked phase, adding unknown names at the end
func (l *PhaseList) item(name string) *phaseItem {
	item, ok := l.items[name]
	if !ok {
		item = &phaseItem{name: name, status: StatusPending}
		l.items[name] = item
		l.order = append(l.order, name)
	}
	return item
}

// render redraws every line in place. Unforced redraws are throttled.
func (l *PhaseList) render(force bool) {
	if !l.ui.Styled() {
		return
	}
	if !force && time.Since(l.lastRender) < l.minRedraw {
		return
	}
	l.lastRender = time.Now()

	var sb strings.Builder
	if l.lineCount > 0 {
		fmt.Fprintf(&sb, "\033[%dA", l.lineCount)
	}
	lines := 0
	for _, name := range l.order {
		fmt.Fprintf(&sb, "\033[K%s\n", l.renderItem(l.items[name]))
		lines++
	}
	fmt.Fprint(l.ui.Out, sb.String())
	l.lineCount = lines
}

func (l *PhaseList) renderItem(item *phaseItem) string {
	nameStyle := lipgloss.NewStyle().Width(20)
	var symbol, detail string

	switch item.status {
	case StatusPending:
		symbol = StyleMuted.Render(SymbolPending)
		detail = StyleMuted.Render("waiting...")

	case StatusProgress:
		symbol = StyleProgress.Render(SymbolProgress)
		if l.days != nil && !l.days.Done() {
			detail = l.days.View()
		} else {
			detail = StyleMuted.Render("running " + FormatDuration(time.Since(item.started)))
		}

	case StatusSuccess:
		symbol = StyleSuccess.Render(SymbolSuccess)
		detail = fmt.Sprintf("%s %s", FormatCount(item.count), StyleMuted.Render("in "+FormatDuration(item.took)))

	case StatusError:
		symbol = StyleError.Render(SymbolError)
		detail = StyleError.Render("failed")

	case StatusSkipped:
		symbol = StyleWarning.Render(SymbolWarning)
		detail = StyleMuted.Render("skipped")
	}

	return fmt.Sprintf("  %s %s %s", symbol, nameStyle.Render(item.name), detail)
}
