package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

// itemRow adapts model.Item to bubbles/list.Item
type itemRow struct{ model.Item }

func (i itemRow) FilterValue() string { return i.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(itemRow)
	t := ui.Current()
	text := ui.Truncate(it.Name, 80)
	if it.ItemCompletionStatus {
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+ui.Box(it.ItemCompletionStatus)+" "+text)
}

type detailPage struct {
	env     *env
	vm      *viewmodel.Items
	list    list.Model
	spin    spinner.Model
	ti      textinput.Model
	editing bool // form open, for add or rename
}

func newDetailPage(e *env, id model.ID) *detailPage {
	t := ui.Current()
	l := list.New(nil, itemDelegate{}, e.width-4, e.height-9)
	l.Title = "Checklist Detail"
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, editKey, toggleKey, deleteKey} }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, deleteKey, deleteAllKey, refreshKey, backKey, quitKey}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter item name"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &detailPage{
		env:  e,
		vm:   viewmodel.NewItems(e.deps, e.client, id),
		list: l,
		spin: sp,
		ti:   ti,
	}
}

func (p *detailPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, run(p.env.ctx, p.vm.Load))
}

func (p *detailPage) sync() tea.Cmd {
	st := p.vm.State()
	rows := make([]list.Item, 0, len(st.Items))
	for _, it := range st.Items {
		rows = append(rows, itemRow{it})
	}
	return p.list.SetItems(rows)
}

func (p *detailPage) selected() (model.Item, bool) {
	it, ok := p.list.SelectedItem().(itemRow)
	return it.Item, ok
}

func (p *detailPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width-4, msg.Height-9)
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

func (p *detailPage) closeForm() {
	p.editing = false
	p.ti.SetValue("")
	p.ti.Blur()
}

func (p *detailPage) handleKey(msg tea.KeyMsg) (page, tea.Cmd) {
	// add / rename form
	if p.editing {
		switch msg.String() {
		case "enter":
			p.vm.SetInput(p.ti.Value())
			p.closeForm()
			return p, run(p.env.ctx, p.vm.Submit)
		case "esc":
			p.vm.CancelEdit()
			p.closeForm()
			return p, nil
		}
		var cmd tea.Cmd
		p.ti, cmd = p.ti.Update(msg)
		return p, cmd
	}

	switch p.vm.State().Phase {
	case viewmodel.ConfirmingAll:
		switch {
		case key.Matches(msg, confirmKey):
			return p, run(p.env.ctx, p.vm.ConfirmDeleteAll)
		case key.Matches(msg, cancelKey):
			p.vm.CancelDeleteAll()
		}
		return p, nil
	case viewmodel.Deleting:
		return p, nil
	}

	switch {
	case key.Matches(msg, quitKey):
		return p, tea.Quit
	case key.Matches(msg, backKey):
		p.env.router.Navigate(nav.PathChecklists)
		return p, nil
	case key.Matches(msg, refreshKey):
		return p, run(p.env.ctx, p.vm.Load)
	case key.Matches(msg, addKey):
		p.vm.CancelEdit()
		p.editing = true
		p.ti.Focus()
		return p, textinput.Blink
	case key.Matches(msg, deleteAllKey):
		p.vm.RequestDeleteAll()
		return p, nil
	}

	it, ok := p.selected()
	if ok {
		switch {
		case key.Matches(msg, editKey):
			p.vm.BeginEdit(it)
			p.editing = true
			p.ti.SetValue(it.Name)
			p.ti.CursorEnd()
			p.ti.Focus()
			return p, textinput.Blink
		case key.Matches(msg, toggleKey):
			return p, run(p.env.ctx, func(ctx context.Context) error {
				return p.vm.ToggleStatus(ctx, it.ID, it.ItemCompletionStatus)
			})
		case key.Matches(msg, deleteKey):
			return p, run(p.env.ctx, func(ctx context.Context) error { return p.vm.Delete(ctx, it.ID) })
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *detailPage) View() string {
	t := ui.Current()
	st := p.vm.State()
	done, total := p.vm.Progress()

	var b strings.Builder
	header := fmt.Sprintf("%s %d  %s %d  %s",
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), total-done,
		t.Muted.Render(ui.ProgressBar(done, total, 28)))
	b.WriteString(header + "\n")

	switch {
	case st.Phase == viewmodel.Deleting:
		b.WriteString(p.spin.View() + " Deleting All...\n")
	case st.Loading:
		b.WriteString(p.spin.View() + " Processing...\n")
	case len(st.Items) == 0:
		b.WriteString(t.Muted.Render("No items available. Add one to get started!") + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(p.list.View())

	if p.editing {
		title := "Add Item"
		if st.EditingID != "" {
			title = "Update Item"
		}
		b.WriteString("\n" + ui.PanelString(title+"\n"+p.ti.View()))
	}
	if st.Phase == viewmodel.ConfirmingAll {
		msg := fmt.Sprintf("Delete all %d items? (y/n)", len(st.Items))
		b.WriteString("\n" + ui.PanelString(t.Error.Render(msg)))
	}
	return b.String()
}
