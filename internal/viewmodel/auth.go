package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/nav"
)

const (
	MsgLoginNoToken   = "Login failed. No token returned."
	MsgLoginFailed    = "Login failed. Please check your username and password."
	MsgRegisterFailed = "Registration failed. Please try again."
)

type AuthState struct {
	Loading bool
	Error   string
}

// Auth drives the login and register forms.
type Auth struct {
	deps Deps
	svc  AuthService

	mu    sync.Mutex
	state AuthState
}

func NewAuth(deps Deps, svc AuthService) *Auth {
	return &Auth{deps: deps, svc: svc}
}

func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Auth) begin() {
	a.mu.Lock()
	a.state = AuthState{Loading: true}
	a.mu.Unlock()
}

func (a *Auth) end(msg string) {
	a.mu.Lock()
	a.state = AuthState{Error: msg}
	a.mu.Unlock()
}

// Login stores the returned token and moves to the checklists page. On
// failure the form shows a message and nothing is stored.
func (a *Auth) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrMissingField
	}
	a.begin()
	token, err := a.svc.Login(ctx, username, password)
	if err != nil {
		a.deps.logger().Printf("login: %v", err)
		if errors.Is(err, api.ErrNoToken) {
			a.end(MsgLoginNoToken)
		} else {
			a.end(MsgLoginFailed)
		}
		return err
	}
	if err := a.deps.Session.Set(token); err != nil {
		a.deps.logger().Printf("login: %v", err)
		a.end(MsgLoginFailed)
		return err
	}
	a.end("")
	a.deps.Nav.Navigate(nav.PathChecklists)
	return nil
}

// Register creates the account. When the server logs the user in straight
// away the token is kept and the checklists page opens; otherwise the user
// is sent to login.
func (a *Auth) Register(ctx context.Context, username, password, email string) error {
	if strings.TrimSpace(username) == "" || password == "" || strings.TrimSpace(email) == "" {
		return ErrMissingField
	}
	a.begin()
	token, err := a.svc.Register(ctx, username, password, email)
	if err != nil {
		a.deps.logger().Printf("register: %v", err)
		a.end(MsgRegisterFailed)
		return err
	}
	a.end("")
	if token != "" {
		if err := a.deps.Session.Set(token); err != nil {
			a.deps.logger().Printf("register: %v", err)
		} else {
			a.deps.Nav.Navigate(nav.PathChecklists)
			return nil
		}
	}
	a.deps.Nav.Navigate(nav.PathLogin)
	return nil
}
