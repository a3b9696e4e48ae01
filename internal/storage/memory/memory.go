// Package memory is an in-process storage.KV, used by tests and by the
// memory data backend.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bolsillo/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
	closed bool
}

func New(seed map[string]string) *Store {
	s := &Store{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

// NewFromFiles seeds the store with the files of base named after the
// storage keys, e.g. base/expenses.json. Missing files are skipped.
func NewFromFiles(base string) *Store {
	seed := map[string]string{}
	keys := []string{
		storage.KeySalary,
		storage.KeyExpenses,
		storage.KeyTodos,
		storage.KeySummaries,
		storage.KeyLastKnownRate,
		storage.KeyTheme,
	}
	for _, key := range keys {
		if v, ok := readFile(filepath.Join(base, key+".json")); ok {
			seed[key] = v
		}
	}
	return New(seed)
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	delete(s.values, key)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func readFile(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", false
	}
	return v, true
}
