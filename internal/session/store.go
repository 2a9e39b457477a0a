package session

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/checklist/internal/store/jsonstore"
)

// EnvToken overrides any stored token when set.
const EnvToken = "CHECKLIST_TOKEN"

type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file" | "memory"
	CreatedAt time.Time `json:"created_at"` // when we saved it
}

// Store persists a single bearer token.
type Store interface {
	Load() (*TokenInfo, error) // nil, nil when logged out
	Save(token string) error
	Clear() error
}

// FileStore keeps one token per API origin in a JSON file, the terminal
// counterpart of browser-origin scoped storage.
type FileStore struct {
	path   string
	origin string
}

type credentialsFile struct {
	Origins map[string]TokenInfo `json:"origins"`
}

func NewFileStore(path, apiURL string) *FileStore {
	return &FileStore{path: path, origin: Origin(apiURL)}
}

// Origin reduces an API base URL to scheme://host.
func Origin(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(apiURL, "/")
	}
	return u.Scheme + "://" + u.Host
}

func (f *FileStore) Load() (*TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	// 2) file
	cf, err := f.read()
	if err != nil {
		return nil, err
	}
	ti, ok := cf.Origins[f.origin]
	if !ok || strings.TrimSpace(ti.Token) == "" {
		return nil, nil // not logged in
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = "file"
	return &ti, nil
}

func (f *FileStore) Save(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	cf, err := f.read()
	if err != nil {
		return err
	}
	cf.Origins[f.origin] = TokenInfo{Token: token, Source: "file", CreatedAt: time.Now()}
	return f.write(cf)
}

func (f *FileStore) Clear() error {
	cf, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := cf.Origins[f.origin]; !ok {
		return nil
	}
	delete(cf.Origins, f.origin)
	if len(cf.Origins) == 0 {
		return jsonstore.Remove(f.path)
	}
	return f.write(cf)
}

func (f *FileStore) read() (*credentialsFile, error) {
	cf := &credentialsFile{}
	if _, err := jsonstore.Load(f.path, cf); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if cf.Origins == nil {
		cf.Origins = map[string]TokenInfo{}
	}
	return cf, nil
}

// write keeps the file owner-only.
func (f *FileStore) write(cf *credentialsFile) error {
	if err := jsonstore.Save(f.path, cf, 0o600); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	return nil
}

// MemoryStore lives only as long as the process.
type MemoryStore struct {
	mu sync.Mutex
	ti *TokenInfo
}

func NewMemoryStore(token string) *MemoryStore {
	m := &MemoryStore{}
	if token != "" {
		_ = m.Save(token)
	}
	return m
}

func (m *MemoryStore) Load() (*TokenInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ti == nil {
		return nil, nil
	}
	ti := *m.ti
	return &ti, nil
}

func (m *MemoryStore) Save(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	m.mu.Lock()
	m.ti = &TokenInfo{Token: token, Source: "memory", CreatedAt: time.Now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.ti = nil
	m.mu.Unlock()
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
