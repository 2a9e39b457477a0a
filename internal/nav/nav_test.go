package nav

import (
	"testing"

	"github.com/idilsaglam/checklist/internal/model"
)

type fakeAuth bool

func (f *fakeAuth) Authenticated() bool { return bool(*f) }

func TestMatch(t *testing.T) {
	auth := fakeAuth(true)
	r := NewRouter(&auth)

	tests := []struct {
		path string
		page Page
		id   string
	}{
		{"/", PageLogin, ""},
		{"/register", PageRegister, ""},
		{"/checklists", PageChecklists, ""},
		{"/checklist/42", PageChecklist, "42"},
		{"/checklist/abc-def", PageChecklist, "abc-def"},
		{"/nowhere", PageLogin, ""},
	}
	for _, tc := range tests {
		rt := r.Match(tc.path)
		if rt.Page != tc.page {
			t.Errorf("Match(%q).Page = %v, want %v", tc.path, rt.Page, tc.page)
		}
		if string(rt.ChecklistID()) != tc.id {
			t.Errorf("Match(%q).ChecklistID = %q, want %q", tc.path, rt.ChecklistID(), tc.id)
		}
	}
}

func TestNavigateGatesProtectedPages(t *testing.T) {
	auth := fakeAuth(false)
	r := NewRouter(&auth)

	var seen []Route
	r.Subscribe(func(rt Route) { seen = append(seen, rt) })

	for _, p := range []string{PathChecklists, ChecklistPath("7")} {
		r.Navigate(p)
		if r.Current().Page != PageLogin {
			t.Errorf("logged out Navigate(%q) landed on %v", p, r.Current().Page)
		}
	}

	r.Navigate(PathRegister)
	if r.Current().Page != PageRegister {
		t.Errorf("register should be public, got %v", r.Current().Page)
	}

	auth = true
	r.Navigate(ChecklistPath("7"))
	if got := r.Current(); got.Page != PageChecklist || got.ChecklistID() != "7" {
		t.Errorf("logged in Navigate = %+v", got)
	}
	if len(seen) != 4 {
		t.Errorf("subscriber saw %d routes, want 4", len(seen))
	}
}

func TestChecklistPathRoundTrip(t *testing.T) {
	auth := fakeAuth(true)
	r := NewRouter(&auth)

	for _, id := range []model.ID{"42", "a b", "a?b", "a/b", "50%"} {
		rt := r.Resolve(ChecklistPath(id))
		if rt.Page != PageChecklist || rt.ChecklistID() != id {
			t.Errorf("Resolve(ChecklistPath(%q)) = %v %q", id, rt.Page, rt.ChecklistID())
		}
	}
}
