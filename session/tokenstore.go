package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tokenFile = "token"

// TokenStore persists the bearer token across process restarts. It is
// the CLI analog of the SPA's durable key/value storage.
//
// Both implementations also expose Token(), satisfying the client's
// TokenSource so the persisted token is re-read on every request.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileStore keeps the token in a 0600 file inside a config directory.
type FileStore struct {
	path string
}

// NewFileStore stores the token under dir. DefaultDir picks the
// conventional location.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, tokenFile)}
}

// DefaultDir returns the per-user config directory for markly.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve config dir: %w", err)
	}
	return filepath.Join(base, "markly"), nil
}

// Load reads the persisted token. A missing file is an empty token, not
// an error.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, creating the directory if needed.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove token: %w", err)
	}
	return nil
}

// Token implements the client's TokenSource. Read failures degrade to an
// unauthenticated request rather than surfacing here.
func (s *FileStore) Token() string {
	tok, _ := s.Load()
	return tok
}

// MemoryStore is an in-process TokenStore for tests and short-lived
// programs.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored token.
func (s *MemoryStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Save replaces the stored token.
func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear drops the stored token.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Token implements the client's TokenSource.
func (s *MemoryStore) Token() string {
	tok, _ := s.Load()
	return tok
}
