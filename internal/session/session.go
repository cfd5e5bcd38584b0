// Package session owns the authentication token lifecycle: load at startup,
// persist on login, clear on logout, attach to outgoing requests.
package session

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tokenFileName = "token.json"

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// cfgDir resolves the client config directory, honoring XDG_CONFIG_HOME.
func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopcart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopcart")
}

// Session holds the opaque backend credential. It is the only cross-component
// shared mutable state; all reads and writes go through its methods. Apply
// reads the token at request-build time, so the credential carried by a
// request always reflects the latest Set/Clear.
type Session struct {
	mu    sync.RWMutex
	token string
	path  string
}

// New returns a Session backed by the default token file. No disk access
// happens until Load.
func New() *Session {
	return &Session{path: filepath.Join(cfgDir(), tokenFileName)}
}

// Load restores a previously persisted token. A missing token file is not an
// error; it means no session.
func (s *Session) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	tok := strings.TrimSpace(tf.AccessToken)

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return tok, nil
}

// Set makes token the credential for all subsequent requests and persists it.
// The in-memory credential is updated even if persistence fails, so attach
// behavior never lags the caller's intent.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tokenFile{AccessToken: token})
}

// Clear drops the credential from memory and removes the persisted file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Apply attaches the bearer credential to req if a session is active.
func (s *Session) Apply(req *http.Request) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// Token returns the current credential ("" when unauthenticated).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Active reports whether a credential is held.
func (s *Session) Active() bool { return s.Token() != "" }
