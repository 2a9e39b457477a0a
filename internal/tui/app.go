// Package tui is the interactive client: one Bubble Tea page per route,
// each driving its view-model through background commands.
package tui

import (
	"context"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/session"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

type Options struct {
	Client  *api.Client
	Session *session.Session
	Logger  *log.Logger
	Start   string // initial path, "/" when empty
}

// env is what every page shares.
type env struct {
	ctx    context.Context
	client *api.Client
	router *nav.Router
	deps   viewmodel.Deps
	width  int
	height int
}

// page is one screen of the app.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View() string
}

type routeMsg struct{ route nav.Route }

// doneMsg reports a finished view-model call; pages re-read their state.
type doneMsg struct{ err error }

type Model struct {
	env    *env
	routes chan nav.Route
	page   page
}

func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	router := nav.NewRouter(opts.Session)
	start := opts.Start
	if start == "" {
		start = nav.PathLogin
		if opts.Session.Authenticated() {
			start = nav.PathChecklists
		}
	}
	router.Navigate(start)

	routes := make(chan nav.Route, 16)
	router.Subscribe(func(rt nav.Route) { routes <- rt })

	e := &env{
		ctx:    context.Background(),
		client: opts.Client,
		router: router,
		deps:   viewmodel.Deps{Session: opts.Session, Nav: router, Logger: logger},
		width:  80,
		height: 24,
	}
	m := Model{env: e, routes: routes}
	m.page = m.pageFor(router.Current())
	return m
}

// Run starts the program on the alternate screen.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.page.Init(), waitRoute(m.routes))
}

func waitRoute(ch <-chan nav.Route) tea.Cmd {
	return func() tea.Msg { return routeMsg{route: <-ch} }
}

func (m Model) pageFor(rt nav.Route) page {
	switch rt.Page {
	case nav.PageRegister:
		return newRegisterPage(m.env)
	case nav.PageChecklists:
		return newChecklistsPage(m.env)
	case nav.PageChecklist:
		return newDetailPage(m.env, rt.ChecklistID())
	}
	return newLoginPage(m.env)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.env.width, m.env.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case routeMsg:
		// every page entry re-fetches; nothing carries over
		m.page = m.pageFor(msg.route)
		return m, tea.Batch(m.page.Init(), waitRoute(m.routes))
	}
	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return ui.PanelString(m.page.View())
}

// run turns a blocking view-model call into a command.
func run(ctx context.Context, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg { return doneMsg{err: fn(ctx)} }
}
