package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

var (
	addKey       = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey      = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleKey    = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey    = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	deleteAllKey = key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all"))
	openKey      = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	backKey      = key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back"))
	refreshKey   = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	copyKey      = key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id"))
	logoutKey    = key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout"))
	quitKey      = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	confirmKey   = key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm"))
	cancelKey    = key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel"))

	nextFieldKey = key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field"))
	prevFieldKey = key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field"))
	submitKey    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	registerKey  = key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register"))
	toLoginKey   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to login"))
)

// formKeys feeds bubbles/help on the login and register forms.
type formKeys []key.Binding

func (k formKeys) ShortHelp() []key.Binding  { return k }
func (k formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k} }
