package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles + symbols.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.Color

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:    "neon",
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),

			Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
			Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Help:        lipgloss.NewStyle().Faint(true),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("93"),

			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,

			Selected:    plain.Reverse(true),
			Done:        plain,
			Help:        plain,
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.Color(""),

			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			SymOK: "ok", SymFail: "error:",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:    "classic",
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		SymOK: "✔", SymFail: "✖",
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Box renders a checkbox for done.
func Box(done bool) string {
	t := Current()
	if done {
		return t.Success.Render(t.BoxChecked)
	}
	return t.Muted.Render(t.BoxUnchecked)
}
