// Package nav maps the client's four paths to pages and keeps logged-out
// users off the protected ones.
package nav

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/checklist/internal/model"
)

const (
	PathLogin      = "/"
	PathRegister   = "/register"
	PathChecklists = "/checklists"
)

type Page int

const (
	PageLogin Page = iota
	PageRegister
	PageChecklists
	PageChecklist
)

var pageNames = map[Page]string{
	PageLogin:      "login",
	PageRegister:   "register",
	PageChecklists: "checklists",
	PageChecklist:  "checklist",
}

func (p Page) String() string { return pageNames[p] }

// Protected pages require a session token.
func (p Page) Protected() bool { return p == PageChecklists || p == PageChecklist }

type Route struct {
	Page   Page
	Path   string
	Params map[string]string
}

func (r Route) ChecklistID() model.ID { return model.ID(r.Params["checklistId"]) }

// Navigator is what view-models use to move the user around.
type Navigator interface {
	Navigate(path string)
}

// Auth reports whether a credential is present.
type Auth interface {
	Authenticated() bool
}

func ChecklistPath(id model.ID) string { return "/checklist/" + url.PathEscape(id.String()) }

type Router struct {
	table *mux.Router
	auth  Auth

	mu        sync.Mutex
	current   Route
	listeners []func(Route)
}

func NewRouter(auth Auth) *Router {
	// match on the escaped path so an id holding "/" stays one segment
	t := mux.NewRouter().UseEncodedPath()
	t.Path(PathLogin).Name(PageLogin.String())
	t.Path(PathRegister).Name(PageRegister.String())
	t.Path(PathChecklists).Name(PageChecklists.String())
	t.Path("/checklist/{checklistId}").Name(PageChecklist.String())
	return &Router{
		table:   t,
		auth:    auth,
		current: Route{Page: PageLogin, Path: PathLogin},
	}
}

// Match resolves path without gating. Unknown paths resolve to login.
func (r *Router) Match(path string) Route {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return Route{Page: PageLogin, Path: PathLogin}
	}
	var m mux.RouteMatch
	if !r.table.Match(req, &m) || m.Route == nil {
		return Route{Page: PageLogin, Path: PathLogin}
	}
	params := make(map[string]string, len(m.Vars))
	for k, v := range m.Vars {
		if u, err := url.PathUnescape(v); err == nil {
			v = u
		}
		params[k] = v
	}
	name := m.Route.GetName()
	for p, n := range pageNames {
		if n == name {
			return Route{Page: p, Path: path, Params: params}
		}
	}
	return Route{Page: PageLogin, Path: PathLogin}
}

// Resolve applies credential gating: protected pages resolve to login when
// the session has no token.
func (r *Router) Resolve(path string) Route {
	rt := r.Match(path)
	if rt.Page.Protected() && !r.auth.Authenticated() {
		return Route{Page: PageLogin, Path: PathLogin}
	}
	return rt
}

// Navigate moves to path and notifies subscribers with the resolved route.
func (r *Router) Navigate(path string) {
	rt := r.Resolve(path)
	r.mu.Lock()
	r.current = rt
	ls := append([]func(Route){}, r.listeners...)
	r.mu.Unlock()
	for _, fn := range ls {
		fn(rt)
	}
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Subscribe(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
