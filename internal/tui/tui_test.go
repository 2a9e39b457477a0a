package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/api/apitest"
	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/session"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

func newModel(t *testing.T, srv *apitest.Server, token string) Model {
	t.Helper()
	sess, err := session.New(session.NewMemoryStore(token))
	if err != nil {
		t.Fatal(err)
	}
	return New(Options{Client: api.New(srv.BaseURL(), sess), Session: sess})
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs a view-model command the way the runtime would and feeds the
// result back to the page.
func exec(t *testing.T, p page, cmd tea.Cmd) page {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(doneMsg)
	if !ok {
		t.Fatal("command did not produce doneMsg")
	}
	p, _ = p.Update(msg)
	return p
}

func TestStartPageFollowsSession(t *testing.T) {
	srv := apitest.New(t)

	if _, ok := newModel(t, srv, "").page.(*loginPage); !ok {
		t.Error("anonymous start should be the login page")
	}
	if _, ok := newModel(t, srv, srv.IssueToken()).page.(*checklistsPage); !ok {
		t.Error("authenticated start should be the checklists page")
	}
}

func TestChecklistsPageLoadsAndConfirmsDelete(t *testing.T) {
	srv := apitest.New(t)
	cl := srv.AddChecklist("groceries", "milk", "eggs")
	m := newModel(t, srv, srv.IssueToken())
	p := m.page.(*checklistsPage)

	exec(t, p, run(m.env.ctx, p.vm.Load))
	if n := len(p.list.Items()); n != 1 {
		t.Fatalf("list rows = %d, want 1", n)
	}

	_, cmd := p.Update(keyPress("d"))
	exec(t, p, cmd)
	if got := p.vm.State().Phase; got != viewmodel.PendingConfirmation {
		t.Fatalf("phase = %v, want pending-confirmation", got)
	}
	if !strings.Contains(p.View(), "Delete it anyway?") {
		t.Error("confirmation prompt not rendered")
	}

	_, cmd = p.Update(keyPress("y"))
	exec(t, p, cmd)
	if _, ok := srv.Checklist(cl.ID); ok {
		t.Error("checklist still on server after confirm")
	}
	if n := len(p.list.Items()); n != 0 {
		t.Errorf("list rows = %d, want 0", n)
	}
}

func TestChecklistsPageCancelKeepsChecklist(t *testing.T) {
	srv := apitest.New(t)
	cl := srv.AddChecklist("groceries", "milk")
	m := newModel(t, srv, srv.IssueToken())
	p := m.page.(*checklistsPage)
	exec(t, p, run(m.env.ctx, p.vm.Load))

	_, cmd := p.Update(keyPress("d"))
	exec(t, p, cmd)
	p.Update(keyPress("n"))

	if got := p.vm.State().Phase; got != viewmodel.Idle {
		t.Errorf("phase = %v, want idle", got)
	}
	if _, ok := srv.Checklist(cl.ID); !ok {
		t.Error("checklist deleted despite cancel")
	}
}

func TestOpenChecklistSwitchesPage(t *testing.T) {
	srv := apitest.New(t)
	cl := srv.AddChecklist("groceries", "milk")
	m := newModel(t, srv, srv.IssueToken())
	p := m.page.(*checklistsPage)
	exec(t, p, run(m.env.ctx, p.vm.Load))

	p.Update(keyPress("enter"))
	rt := <-m.routes
	if rt.Page != nav.PageChecklist || rt.ChecklistID() != cl.ID {
		t.Fatalf("route = %+v", rt)
	}

	next, _ := m.Update(routeMsg{route: rt})
	d, ok := next.(Model).page.(*detailPage)
	if !ok {
		t.Fatal("route did not open the detail page")
	}
	exec(t, d, run(m.env.ctx, d.vm.Load))
	if n := len(d.list.Items()); n != 1 {
		t.Errorf("detail rows = %d, want 1", n)
	}
}

func TestDetailPageToggleAndAdd(t *testing.T) {
	srv := apitest.New(t)
	cl := srv.AddChecklist("groceries", "milk")
	m := newModel(t, srv, srv.IssueToken())
	d := newDetailPage(m.env, cl.ID)
	exec(t, d, run(m.env.ctx, d.vm.Load))

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	exec(t, d, cmd)
	if done, total := d.vm.Progress(); done != 1 || total != 1 {
		t.Errorf("progress = %d/%d, want 1/1", done, total)
	}

	d.Update(keyPress("a"))
	for _, r := range "bread" {
		d.Update(keyPress(string(r)))
	}
	_, cmd = d.Update(keyPress("enter"))
	exec(t, d, cmd)

	got, _ := srv.Checklist(cl.ID)
	if len(got.Items) != 2 || got.Items[1].Name != "bread" {
		t.Errorf("server items = %+v", got.Items)
	}
	if d.editing {
		t.Error("form still open after submit")
	}
}

func TestDetailPageDeleteAll(t *testing.T) {
	srv := apitest.New(t)
	cl := srv.AddChecklist("groceries", "milk", "eggs", "bread")
	m := newModel(t, srv, srv.IssueToken())
	d := newDetailPage(m.env, cl.ID)
	exec(t, d, run(m.env.ctx, d.vm.Load))

	d.Update(keyPress("D"))
	if !strings.Contains(d.View(), "Delete all 3 items?") {
		t.Fatal("delete-all prompt not rendered")
	}
	_, cmd := d.Update(keyPress("y"))
	exec(t, d, cmd)

	if got := srv.CountMethod("DELETE"); got != 3 {
		t.Errorf("DELETE requests = %d, want 3", got)
	}
	if n := len(d.list.Items()); n != 0 {
		t.Errorf("rows after delete-all = %d", n)
	}
}

func TestUnauthorizedRoutesToLogin(t *testing.T) {
	srv := apitest.New(t)
	m := newModel(t, srv, "stale-token")
	p := m.page.(*checklistsPage)

	exec(t, p, run(m.env.ctx, p.vm.Load))
	rt := <-m.routes
	if rt.Page != nav.PageLogin {
		t.Fatalf("route after 401 = %v", rt.Page)
	}
	next, _ := m.Update(routeMsg{route: rt})
	if _, ok := next.(Model).page.(*loginPage); !ok {
		t.Error("login page not shown after 401")
	}
}

func TestLoginPageSubmits(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ann", "secret")
	m := newModel(t, srv, "")
	p := m.page.(*loginPage)

	for _, r := range "ann" {
		p.Update(keyPress(string(r)))
	}
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "secret" {
		p.Update(keyPress(string(r)))
	}
	_, cmd := p.Update(keyPress("enter"))
	exec(t, p, cmd)

	if !m.env.deps.Session.Authenticated() {
		t.Fatal("token not stored")
	}
	if rt := <-m.routes; rt.Page != nav.PageChecklists {
		t.Errorf("route after login = %v", rt.Page)
	}
}
