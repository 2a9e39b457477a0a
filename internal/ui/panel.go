package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with counts.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel prints lines inside a frame.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}

func OK(w io.Writer, msg string) { fmt.Fprintln(w, Current().Success.Render(Current().SymOK+" "+msg)) }

func Fail(w io.Writer, msg string) { fmt.Fprintln(w, Current().Error.Render(Current().SymFail+" "+msg)) }

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
