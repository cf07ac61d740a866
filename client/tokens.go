package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenPair holds the credentials issued by the API.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether the pair carries both tokens.
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// TokenStore persists the token pair between requests. Implementations
// must be safe for concurrent use.
type TokenStore interface {
	Load() (TokenPair, error)
	Save(pair TokenPair) error
	Clear() error
}

// MemoryTokenStore keeps the pair in process memory. It is the default
// store and suits short-lived programs and tests.
type MemoryTokenStore struct {
	mu   sync.RWMutex
	pair TokenPair
}

// NewMemoryTokenStore returns an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, nil
}

func (s *MemoryTokenStore) Save(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	return nil
}

// FileTokenStore persists the pair as a JSON file so sessions survive
// process restarts. The file is written with owner-only permissions.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore returns a store backed by the given path. Parent
// directories are created on first save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TokenPair{}, nil
		}
		return TokenPair{}, fmt.Errorf("read token file: %w", err)
	}

	var pair TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("decode token file: %w", err)
	}
	return pair, nil
}

func (s *FileTokenStore) Save(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token pair: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
