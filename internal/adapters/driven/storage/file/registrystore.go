package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// RegistryStore reads and writes registry files below a root directory.
type RegistryStore struct {
	root string
}

// NewRegistryStore creates a store rooted at dir.
func NewRegistryStore(dir string) *RegistryStore {
	return &RegistryStore{root: dir}
}

// Root returns the registry directory.
func (s *RegistryStore) Root() string {
	return s.root
}

// ReadFile returns the file content or domain.ErrNotFound.
func (s *RegistryStore) ReadFile(_ context.Context, p string) ([]byte, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteFile writes data unless the file already holds identical bytes.
func (s *RegistryStore) WriteFile(_ context.Context, p string, data []byte) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	current, err := os.ReadFile(full)
	if err == nil && bytes.Equal(current, data) {
		logger.Debug("unchanged %s", p)
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return false, err
	}
	logger.Debug("wrote %s (%d bytes)", p, len(data))
	return true, nil
}

// resolve maps a registry path to an OS path, rejecting paths that would
// leave the root.
func (s *RegistryStore) resolve(p string) (string, error) {
	cleaned := path.Clean(p)
	if !fs.ValidPath(cleaned) || cleaned == "." {
		return "", fmt.Errorf("%w: registry path %q", domain.ErrInvalidInput, p)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
