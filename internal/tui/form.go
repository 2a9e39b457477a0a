package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

// form is the field handling shared by login and register.
type form struct {
	fields []textinput.Model
	focus  int
	spin   spinner.Model
	help   help.Model
}

func newForm(labels ...string) form {
	f := form{spin: spinner.New(), help: help.New()}
	f.spin.Spinner = spinner.Dot
	for _, l := range labels {
		ti := textinput.New()
		ti.Prompt = ui.Current().Muted.Render(l + ": ")
		ti.Placeholder = "Enter your " + strings.ToLower(l)
		ti.CharLimit = 200
		if l == "Password" {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, ti)
	}
	f.fields[0].Focus()
	return f
}

func (f *form) value(i int) string { return f.fields[i].Value() }

func (f *form) move(delta int) {
	f.fields[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, nextFieldKey):
			f.move(1)
			return nil
		case key.Matches(k, prevFieldKey):
			f.move(-1)
			return nil
		}
	}
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

func (f *form) view(title string, st viewmodel.AuthState, busy, hint string, keys formKeys) string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(t.Title.Render(title) + "\n\n")
	if st.Error != "" {
		b.WriteString(t.Error.Render(st.Error) + "\n\n")
	}
	for _, fld := range f.fields {
		b.WriteString(fld.View() + "\n")
	}
	b.WriteString("\n")
	if st.Loading {
		b.WriteString(f.spin.View() + " " + busy + "\n")
	} else {
		b.WriteString(t.Muted.Render(hint) + "\n")
	}
	b.WriteString("\n" + f.help.View(keys))
	return b.String()
}

// ---------- login ----------

type loginPage struct {
	env  *env
	vm   *viewmodel.Auth
	form form
}

func newLoginPage(e *env) *loginPage {
	return &loginPage{
		env:  e,
		vm:   viewmodel.NewAuth(e.deps, e.client),
		form: newForm("Username", "Password"),
	}
}

func (p *loginPage) Init() tea.Cmd { return tea.Batch(textinput.Blink, p.form.spin.Tick) }

func (p *loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.form.spin, cmd = p.form.spin.Update(msg)
		return p, cmd
	case doneMsg:
		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, registerKey):
			p.env.router.Navigate(nav.PathRegister)
			return p, nil
		case key.Matches(msg, submitKey):
			if p.vm.State().Loading {
				return p, nil
			}
			user, pass := p.form.value(0), p.form.value(1)
			return p, run(p.env.ctx, func(ctx context.Context) error { return p.vm.Login(ctx, user, pass) })
		}
	}
	return p, p.form.update(msg)
}

func (p *loginPage) View() string {
	return p.form.view("Login To Do List App", p.vm.State(), "Logging in...",
		"Don't have an account? ctrl+r to register",
		formKeys{nextFieldKey, submitKey, registerKey})
}

// ---------- register ----------

type registerPage struct {
	env  *env
	vm   *viewmodel.Auth
	form form
}

func newRegisterPage(e *env) *registerPage {
	return &registerPage{
		env:  e,
		vm:   viewmodel.NewAuth(e.deps, e.client),
		form: newForm("Username", "Password", "Email"),
	}
}

func (p *registerPage) Init() tea.Cmd { return tea.Batch(textinput.Blink, p.form.spin.Tick) }

func (p *registerPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.form.spin, cmd = p.form.spin.Update(msg)
		return p, cmd
	case doneMsg:
		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, toLoginKey):
			p.env.router.Navigate(nav.PathLogin)
			return p, nil
		case key.Matches(msg, submitKey):
			if p.vm.State().Loading {
				return p, nil
			}
			user, pass, email := p.form.value(0), p.form.value(1), p.form.value(2)
			return p, run(p.env.ctx, func(ctx context.Context) error { return p.vm.Register(ctx, user, pass, email) })
		}
	}
	return p, p.form.update(msg)
}

func (p *registerPage) View() string {
	return p.form.view("Create Your Account", p.vm.State(), "Registering...",
		"Already have an account? esc to log in",
		formKeys{nextFieldKey, submitKey, toLoginKey})
}
