package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"

	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

// checklistItem adapts model.Checklist to bubbles/list.Item
type checklistItem struct{ model.Checklist }

func (i checklistItem) FilterValue() string { return i.Name }

type checklistDelegate struct{}

func (d checklistDelegate) Height() int                               { return 1 }
func (d checklistDelegate) Spacing() int                              { return 0 }
func (d checklistDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d checklistDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(checklistItem)
	t := ui.Current()
	done, _ := model.Stats(it.Items)
	line := fmt.Sprintf("%s %s %s",
		ui.Box(it.ChecklistCompletionStatus),
		ui.Truncate(it.Name, 60),
		t.Muted.Render(fmt.Sprintf("(%d/%s)", done, english.Plural(len(it.Items), "item", ""))),
	)
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type checklistsPage struct {
	env    *env
	vm     *viewmodel.Checklists
	list   list.Model
	spin   spinner.Model
	ti     textinput.Model
	adding bool
	note   string // last transient notice
}

func newChecklistsPage(e *env) *checklistsPage {
	t := ui.Current()
	l := list.New(nil, checklistDelegate{}, e.width-4, e.height-8)
	l.Title = "My Checklists"
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("checklist", "checklists")
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, openKey, deleteKey, logoutKey} }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{addKey, openKey, deleteKey, refreshKey, copyKey, logoutKey, quitKey}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter checklist title"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &checklistsPage{
		env:  e,
		vm:   viewmodel.NewChecklists(e.deps, e.client),
		list: l,
		spin: sp,
		ti:   ti,
	}
}

func (p *checklistsPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, run(p.env.ctx, p.vm.Load))
}

func (p *checklistsPage) sync() tea.Cmd {
	st := p.vm.State()
	items := make([]list.Item, 0, len(st.Checklists))
	for _, c := range st.Checklists {
		items = append(items, checklistItem{c})
	}
	return p.list.SetItems(items)
}

func (p *checklistsPage) selected() (model.Checklist, bool) {
	it, ok := p.list.SelectedItem().(checklistItem)
	return it.Checklist, ok
}

func (p *checklistsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width-4, msg.Height-8)
		return p, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd
	case doneMsg:
		return p, p.sync()
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *checklistsPage) handleKey(msg tea.KeyMsg) (page, tea.Cmd) {
	// inline add
	if p.adding {
		switch msg.String() {
		case "enter":
			name := p.ti.Value()
			p.adding = false
			p.ti.SetValue("")
			p.ti.Blur()
			return p, run(p.env.ctx, func(ctx context.Context) error { return p.vm.Create(ctx, name) })
		case "esc":
			p.adding = false
			p.ti.SetValue("")
			p.ti.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.ti, cmd = p.ti.Update(msg)
		return p, cmd
	}

	// delete confirmation
	if p.vm.State().Phase == viewmodel.PendingConfirmation {
		switch {
		case key.Matches(msg, confirmKey):
			return p, run(p.env.ctx, p.vm.ConfirmDelete)
		case key.Matches(msg, cancelKey):
			p.vm.CancelDelete()
		}
		return p, nil
	}

	p.note = ""
	switch {
	case key.Matches(msg, quitKey):
		return p, tea.Quit
	case key.Matches(msg, addKey):
		p.adding = true
		p.ti.Focus()
		return p, textinput.Blink
	case key.Matches(msg, refreshKey):
		return p, run(p.env.ctx, p.vm.Load)
	case key.Matches(msg, logoutKey):
		_ = p.vm.Logout()
		return p, nil
	}

	cl, ok := p.selected()
	if ok {
		switch {
		case key.Matches(msg, openKey):
			p.env.router.Navigate(nav.ChecklistPath(cl.ID))
			return p, nil
		case key.Matches(msg, deleteKey):
			return p, run(p.env.ctx, func(ctx context.Context) error {
				_, err := p.vm.RequestDelete(ctx, cl)
				return err
			})
		case key.Matches(msg, copyKey):
			if err := clipboard.WriteAll(cl.ID.String()); err != nil {
				p.env.deps.Logger.Printf("copy id: %v", err)
				p.note = "clipboard unavailable"
			} else {
				p.note = "copied id " + cl.ID.String()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *checklistsPage) View() string {
	t := ui.Current()
	st := p.vm.State()

	var b strings.Builder
	switch {
	case st.Loading:
		b.WriteString(p.spin.View() + " Loading checklists...\n")
	case len(st.Checklists) == 0:
		b.WriteString(t.Muted.Render("No checklists yet. Press a to add one.") + "\n")
	default:
		done := 0
		for _, c := range st.Checklists {
			if c.ChecklistCompletionStatus {
				done++
			}
		}
		b.WriteString(t.Muted.Render(ui.ProgressBar(done, len(st.Checklists), 28)) + "\n")
	}
	b.WriteString(p.list.View())

	if p.adding {
		b.WriteString("\n" + ui.PanelString("Add checklist\n"+p.ti.View()))
	}
	if st.Phase == viewmodel.PendingConfirmation && st.Pending != nil {
		msg := fmt.Sprintf("%q still has %s. Delete it anyway? (y/n)",
			st.Pending.Name, english.Plural(len(st.Pending.Items), "item", ""))
		b.WriteString("\n" + ui.PanelString(t.Error.Render(msg)))
	}
	if p.note != "" {
		b.WriteString("\n" + t.Muted.Render(p.note))
	}
	return b.String()
}
