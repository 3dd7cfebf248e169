package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"nota/internal/kv"
)

// Store keeps every value in a map. Contents are lost on restart.
type Store struct {
	mu     sync.Mutex
	values map[string]string
}

func New() *Store {
	return &Store{values: map[string]string{}}
}

// NewFromDir seeds the store from <base>/<key>.json for each known key.
// Missing or empty files are skipped.
func NewFromDir(base string) *Store {
	s := New()
	if base == "" {
		return s
	}
	for _, key := range kv.Keys() {
		raw := readFile(filepath.Join(base, key+".json"))
		if raw == "" {
			continue
		}
		s.values[key] = raw
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

func readFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
