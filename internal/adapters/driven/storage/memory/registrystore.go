package memory

import (
	"bytes"
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// RegistryStore is an in-memory implementation of driven.RegistryStore.
type RegistryStore struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes int
}

// NewRegistryStore creates a new in-memory registry store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{
		files: make(map[string][]byte),
	}
}

// Root returns a fixed marker; the store has no location.
func (s *RegistryStore) Root() string {
	return "memory://registry"
}

// ReadFile returns a copy of the file content.
func (s *RegistryStore) ReadFile(_ context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[clean(p)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return bytes.Clone(data), nil
}

// WriteFile stores the content unless it is byte-identical to the current one.
func (s *RegistryStore) WriteFile(_ context.Context, p string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := clean(p)
	if current, ok := s.files[key]; ok && bytes.Equal(current, data) {
		return false, nil
	}
	s.files[key] = bytes.Clone(data)
	s.writes++
	return true, nil
}

// Paths returns every stored path in sorted order.
func (s *RegistryStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Writes returns the number of writes that changed content.
func (s *RegistryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Delete removes a file.
func (s *RegistryStore) Delete(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, clean(p))
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
