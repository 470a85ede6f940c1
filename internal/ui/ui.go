// Package ui provides styled terminal output for the datagen CLI.
// It uses the Charm.sh ecosystem for TUI styling with automatic fallback
// to plain text for non-TTY environments.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// UI holds the terminal state and provides styled output methods.
type UI struct {
	IsTTY   bool
	Width   int
	NoColor bool

	// Out receives everything the UI prints
	Out io.Writer
}

// KV represents a key-value pair for summary displays.
type KV struct {
	Key   string
	Value string
}

// noColorEnv is the standard environment variable to disable colors.
var noColorEnv = os.Getenv("NO_COLOR") != ""

// New creates a UI on stdout with TTY detection.
func New() *UI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	return &UI{
		IsTTY:   isTTY,
		Width:   width,
		NoColor: noColorEnv,
		Out:     os.Stdout,
	}
}

// NewPlain creates an unstyled UI writing to out.
func NewPlain(out io.Writer) *UI {
	return &UI{Width: 80, NoColor: true, Out: out}
}

// SetNoColor disables colors and animations.
func (u *UI) SetNoColor(noColor bool) {
	u.NoColor = noColor
}

// Styled reports whether output gets colors and live redraws.
func (u *UI) Styled() bool {
	return u.IsTTY && !u.NoColor
}

// Header renders a bordered header box.
func (u *UI) Header(title string) string {
	if !u.Styled() {
		return fmt.Sprintf("=== %s ===", title)
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 2)

	return style.Render(title)
}

// KeyValue renders a styled key-value pair.
func (u *UI) KeyValue(key, value string) string {
	if !u.Styled() {
		return fmt.Sprintf("%-12s %s", key+":", value)
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(14)
	valueStyle := lipgloss.NewStyle().
		Bold(true)

	return "  " + keyStyle.Render(key) + " " + valueStyle.Render(value)
}

// Success renders a success message with a green checkmark.
func (u *UI) Success(msg string) string {
	if !u.Styled() {
		return "[OK] " + msg
	}
	return StyleSuccess.Render(SymbolSuccess+" ") + msg
}

// Error renders an error message with a red X.
func (u *UI) Error(msg string) string {
	if !u.Styled() {
		return "[FAILED] " + msg
	}
	return StyleError.Render(SymbolError + " " + msg)
}

// Warning renders a warning message.
func (u *UI) Warning(msg string) string {
	if !u.Styled() {
		return "[WARN] " + msg
	}
	return StyleWarning.Render(SymbolWarning + " " + msg)
}

// Muted renders dim text.
func (u *UI) Muted(msg string) string {
	if !u.Styled() {
		return msg
	}
	return StyleMuted.Render(msg)
}

// SummaryBox renders a bordered summary section. A "Status" entry is
// colored by its value.
func (u *UI) SummaryBox(title string, items []KV) string {
	if !u.Styled() {
		var sb strings.Builder
		fmt.Fprintf(&sb, "\n=== %s ===\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "%-18s %s\n", item.Key+":", item.Value)
		}
		return sb.String()
	}

	maxKeyWidth := 0
	for _, item := range items {
		maxKeyWidth = max(maxKeyWidth, lipgloss.Width(item.Key))
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(maxKeyWidth + 2)
	valueStyle := lipgloss.NewStyle().Bold(true)

	lines := make([]string, 0, len(items))
	for _, item := range items {
		value := item.Value
		lower := strings.ToLower(value)
		switch {
		case item.Key == "Status" && strings.Contains(lower, "success"):
			value = StyleSuccess.Render(SymbolSuccess + " " + value)
		case item.Key == "Status" && (strings.Contains(lower, "fail") || strings.Contains(lower, "interrupt")):
			value = StyleError.Render(SymbolError + " " + value)
		default:
			value = valueStyle.Render(value)
		}
		lines = append(lines, "  "+keyStyle.Render(item.Key)+" "+value)
	}

	color := ColorSuccess
	for _, item := range items {
		if item.Key == "Status" && !strings.Contains(strings.ToLower(item.Value), "success") {
			color = ColorError
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	return "\n" + titleStyle.Render("  "+title) + "\n" + boxStyle.Render(strings.Join(lines, "\n"))
}

// TableRow renders a name/value row with a status symbol.
func (u *UI) TableRow(name string, value string, status Status) string {
	if !u.Styled() {
		prefix := ""
		switch status {
		case StatusError:
			prefix = "FAILED: "
		case StatusSkipped:
			prefix = "SKIPPED: "
		}
		return fmt.Sprintf("  %-20s %s%s", name+":", prefix, value)
	}

	nameStyle := lipgloss.NewStyle().Width(20)
	symbol, styled := " ", value

	switch status {
	case StatusSuccess:
		symbol = StyleSuccess.Render(SymbolSuccess)
	case StatusError:
		symbol = StyleError.Render(SymbolError)
		styled = StyleError.Render(value)
	case StatusPending:
		symbol = StyleMuted.Render(SymbolPending)
		styled = StyleMuted.Render(value)
	case StatusProgress:
		symbol = StyleProgress.Render(SymbolProgress)
	case StatusSkipped:
		symbol = StyleWarning.Render(SymbolWarning)
		styled = StyleMuted.Render("skipped: " + value)
	}

	return fmt.Sprintf("  %s %s %s", symbol, nameStyle.Render(name), styled)
}

// Status represents the status of an operation.
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusProgress
	StatusSuccess
	StatusError
	StatusSkipped
)

// Println writes a line to Out
func (u *UI) Println(line string) {
	fmt.Fprintln(u.Out, line)
}

// Section prints a section title.
func (u *UI) Section(title string) {
	if !u.Styled() {
		fmt.Fprintf(u.Out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(u.Out, "\n%s\n", lipgloss.NewStyle().Bold(true).Render(title))
}
