package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pi2-study/planor/pkg/domain"
)

// tokensFileName is the fixed storage key for the credential pair.
const tokensFileName = "tokens.json"

// TokenStore persists the JWT pair between requests and between runs.
// Load returns zero Tokens (not an error) when nothing is stored.
type TokenStore interface {
	Load() (domain.Tokens, error)
	Save(domain.Tokens) error
	Clear() error
}

// FileStore keeps the tokens as a JSON file under the planor config dir.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to dir/tokens.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, tokensFileName)}
}

// DefaultConfigDir returns ~/.planor.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".planor"), nil
}

func (s *FileStore) Load() (domain.Tokens, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Tokens{}, nil
		}
		return domain.Tokens{}, fmt.Errorf("read tokens: %w", err)
	}
	var t domain.Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		// A corrupt file is treated as logged-out, not fatal.
		return domain.Tokens{}, nil
	}
	return t, nil
}

func (s *FileStore) Save(t domain.Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// MemStore is an in-memory TokenStore, used in tests and for one-off calls.
type MemStore struct {
	mu sync.Mutex
	t  domain.Tokens
}

// NewMemStore returns a MemStore pre-loaded with the given pair.
func NewMemStore(t domain.Tokens) *MemStore {
	return &MemStore{t: t}
}

func (s *MemStore) Load() (domain.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t, nil
}

func (s *MemStore) Save(t domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = t
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = domain.Tokens{}
	return nil
}
