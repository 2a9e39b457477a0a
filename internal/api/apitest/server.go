// Package apitest runs an in-memory checklist REST server for tests. It
// records every request so tests can assert exactly what a client sent.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/checklist/internal/model"
)

// Prefix is where the API is mounted, matching the production base URL.
const Prefix = "/api"

// Request is one recorded call.
type Request struct {
	Method string
	Path   string // without Prefix
	Auth   string
	Body   map[string]any
}

func (r Request) Key() string { return r.Method + " " + r.Path }

type user struct {
	password string
	email    string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	omitToken  bool
	regToken   bool
	users      map[string]user
	tokens     map[string]bool
	issued     int
	checklists []*model.Checklist
	nextID     int
	requests   []Request
	failures   map[string]int
}

// New starts a server and closes it when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		users:    map[string]user{},
		tokens:   map[string]bool{},
		failures: map[string]int{},
		nextID:   1,
	}
	r := mux.NewRouter()
	api := r.PathPrefix(Prefix).Subrouter()
	api.Use(s.record, s.inject)

	api.HandleFunc("/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireToken)
	authed.HandleFunc("/checklist", s.listChecklists).Methods(http.MethodGet)
	authed.HandleFunc("/checklist", s.createChecklist).Methods(http.MethodPost)
	authed.HandleFunc("/checklist/{id}", s.deleteChecklist).Methods(http.MethodDelete)
	authed.HandleFunc("/checklist/{id}/item", s.listItems).Methods(http.MethodGet)
	authed.HandleFunc("/checklist/{id}/item", s.createItem).Methods(http.MethodPost)
	authed.HandleFunc("/checklist/{id}/item/rename/{itemId}", s.renameItem).Methods(http.MethodPut)
	authed.HandleFunc("/checklist/{id}/item/{itemId}", s.setStatus).Methods(http.MethodPut)
	authed.HandleFunc("/checklist/{id}/item/{itemId}", s.deleteItem).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is what a client should be configured with.
func (s *Server) BaseURL() string { return s.URL + Prefix }

// AddUser registers an account directly.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = user{password: password}
}

// LoginOmitsToken makes /login succeed without a token in data.
func (s *Server) LoginOmitsToken(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = v
}

// RegisterIssuesToken makes /register log the new user in.
func (s *Server) RegisterIssuesToken(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regToken = v
}

// IssueToken returns a token the server accepts.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked()
}

// RevokeTokens makes every issued token answer 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]bool{}
}

// AddChecklist seeds a checklist with pending items.
func (s *Server) AddChecklist(name string, items ...string) model.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := &model.Checklist{ID: s.newIDLocked(), Name: name}
	for _, it := range items {
		cl.Items = append(cl.Items, model.Item{ID: s.newIDLocked(), Name: it})
	}
	s.checklists = append(s.checklists, cl)
	return *cl
}

// Checklist returns the server's copy of a checklist.
func (s *Server) Checklist(id model.ID) (model.Checklist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cl := range s.checklists {
		if cl.ID == id {
			c := *cl
			c.Items = append([]model.Item(nil), cl.Items...)
			return c, true
		}
	}
	return model.Checklist{}, false
}

// Fail answers method+path (without Prefix) with status until cleared.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// CountMethod returns how many requests used method.
func (s *Server) CountMethod(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// ---------- middleware ----------

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		req := Request{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, Prefix),
			Auth:   r.Header.Get("Authorization"),
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &req.Body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, Prefix)]
		s.mu.Unlock()
		if ok {
			writeJSON(w, status, 0, http.StatusText(status), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := s.tokens[tok]
		s.mu.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, 4010, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------- handlers ----------

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.Username]
	if !ok || u.password != body.Password {
		writeJSON(w, http.StatusUnauthorized, 4011, "invalid username or password", nil)
		return
	}
	if s.omitToken {
		writeJSON(w, http.StatusOK, 2110, "login ok", map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, 2110, "login ok", map[string]string{"token": s.issueLocked()})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct{ Username, Password, Email string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	defer s.mu.Unlock()
	if body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, 4000, "username and password required", nil)
		return
	}
	if _, exists := s.users[body.Username]; exists {
		writeJSON(w, http.StatusConflict, 4090, "username taken", nil)
		return
	}
	s.users[body.Username] = user{password: body.Password, email: body.Email}
	if s.regToken {
		writeJSON(w, http.StatusOK, 2000, "registered", map[string]string{"token": s.issueLocked()})
		return
	}
	writeJSON(w, http.StatusOK, 2000, "registered", nil)
}

func (s *Server) listChecklists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Checklist, 0, len(s.checklists))
	for _, cl := range s.checklists {
		c := *cl
		c.ChecklistCompletionStatus = complete(cl.Items)
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, 2100, "checklists", out)
}

func (s *Server) createChecklist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := &model.Checklist{ID: s.newIDLocked(), Name: body.Name}
	s.checklists = append(s.checklists, cl)
	writeJSON(w, http.StatusOK, 2000, "created", cl)
}

func (s *Server) deleteChecklist(w http.ResponseWriter, r *http.Request) {
	id := model.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cl := range s.checklists {
		if cl.ID == id {
			s.checklists = append(s.checklists[:i], s.checklists[i+1:]...)
			writeJSON(w, http.StatusOK, 2000, "deleted", nil)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, 4040, "checklist not found", nil)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	s.withChecklist(w, r, func(cl *model.Checklist) {
		writeJSON(w, http.StatusOK, 2000, "items", append([]model.Item{}, cl.Items...))
	})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemName string `json:"itemName"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.withChecklist(w, r, func(cl *model.Checklist) {
		it := model.Item{ID: s.newIDLocked(), Name: body.ItemName}
		cl.Items = append(cl.Items, it)
		writeJSON(w, http.StatusOK, 2000, "created", it)
	})
}

func (s *Server) renameItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemName string `json:"itemName"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.withItem(w, r, func(cl *model.Checklist, i int) {
		cl.Items[i].Name = body.ItemName
		writeJSON(w, http.StatusOK, 2000, "renamed", cl.Items[i])
	})
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemCompletionStatus string `json:"itemCompletionStatus"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.withItem(w, r, func(cl *model.Checklist, i int) {
		switch model.Status(body.ItemCompletionStatus) {
		case model.StatusCompleted:
			cl.Items[i].ItemCompletionStatus = true
		case model.StatusPending:
			cl.Items[i].ItemCompletionStatus = false
		default:
			writeJSON(w, http.StatusBadRequest, 4000, "bad status "+strconv.Quote(body.ItemCompletionStatus), nil)
			return
		}
		writeJSON(w, http.StatusOK, 2000, "updated", cl.Items[i])
	})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(cl *model.Checklist, i int) {
		cl.Items = append(cl.Items[:i], cl.Items[i+1:]...)
		writeJSON(w, http.StatusOK, 2000, "deleted", nil)
	})
}

// ---------- helpers ----------

func (s *Server) withChecklist(w http.ResponseWriter, r *http.Request, fn func(*model.Checklist)) {
	id := model.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cl := range s.checklists {
		if cl.ID == id {
			fn(cl)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, 4040, "checklist not found", nil)
}

func (s *Server) withItem(w http.ResponseWriter, r *http.Request, fn func(*model.Checklist, int)) {
	itemID := model.ID(mux.Vars(r)["itemId"])
	s.withChecklist(w, r, func(cl *model.Checklist) {
		for i, it := range cl.Items {
			if it.ID == itemID {
				fn(cl, i)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, 4041, "item not found", nil)
	})
}

func (s *Server) issueLocked() string {
	s.issued++
	tok := fmt.Sprintf("tok-%d", s.issued)
	s.tokens[tok] = true
	return tok
}

func (s *Server) newIDLocked() model.ID {
	id := model.ID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

func complete(items []model.Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.ItemCompletionStatus {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status, code int, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": code,
		"message":    msg,
		"data":       data,
	})
}
