package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Session is the credential every view-model and the API client share.
// Writes happen only on login, registration, logout and auth failure.
type Session struct {
	mu    sync.RWMutex
	store Store
	info  *TokenInfo
}

// New loads whatever token the store already holds.
func New(store Store) (*Session, error) {
	ti, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, info: ti}, nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return ""
	}
	return s.info.Token
}

func (s *Session) Authenticated() bool { return s.Token() != "" }

// Info returns a copy of the current token metadata, nil when logged out.
func (s *Session) Info() *TokenInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return nil
	}
	ti := *s.info
	return &ti
}

func (s *Session) Set(token string) error {
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	want := stripBearer(strings.TrimSpace(token))
	ti, err := s.store.Load()
	if err != nil || ti == nil || ti.Token != want {
		// the env override shadows the file; this process still uses the new token
		ti = &TokenInfo{Token: want, Source: "memory", CreatedAt: time.Now()}
	}
	s.mu.Lock()
	s.info = ti
	s.mu.Unlock()
	return nil
}

// Clear forgets the token in memory even if the store cannot be cleared,
// so a rejected credential is never sent again by this process.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.info = nil
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
