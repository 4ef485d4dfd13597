package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-registry/internal/adapters/driven/storage/memory"
	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

// newTestLocator builds a locator with fixed config values and environment.
func newTestLocator(t *testing.T, root string, config, env map[string]string) *Locator {
	t.Helper()
	cfg := memory.NewConfigStore()
	for key, value := range config {
		cfg.Set(key, value)
	}
	loc := NewLocator(root, cfg)
	loc.getenv = func(key string) string { return env[key] }
	return loc
}

func TestLocator_SiblingFallback(t *testing.T) {
	workspace := t.TempDir()
	root := filepath.Join(workspace, "lcod-registry")
	components := filepath.Join(workspace, "lcod-components")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(components, 0o755))

	loc := newTestLocator(t, root, nil, nil)
	got := loc.Locate(ComponentsRepository, "")

	require.True(t, got.Found())
	assert.Equal(t, components, got.Path)
	assert.Len(t, got.Tried, 2)
}

func TestLocator_ResolutionOrder(t *testing.T) {
	root := t.TempDir()
	fromFlag := filepath.Join(root, "flag")
	fromEnv := filepath.Join(root, "env")
	fromConfig := filepath.Join(root, "configured")
	for _, dir := range []string{fromFlag, fromEnv, fromConfig} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	env := map[string]string{EnvComponentsRepo: fromEnv}
	loc := newTestLocator(t, root, map[string]string{"paths.components": "configured"}, env)

	assert.Equal(t, fromFlag, loc.Locate(ComponentsRepository, fromFlag).Path)
	assert.Equal(t, fromEnv, loc.Locate(ComponentsRepository, "").Path)

	loc.getenv = func(string) string { return "" }
	assert.Equal(t, fromConfig, loc.Locate(ComponentsRepository, "").Path)
}

func TestLocator_AbsoluteConfigPath(t *testing.T) {
	root := t.TempDir()
	kernel := filepath.Join(t.TempDir(), "kernel-checkout")
	require.NoError(t, os.MkdirAll(kernel, 0o755))

	loc := newTestLocator(t, root, map[string]string{"paths.kernel": kernel}, nil)
	got := loc.Locate(KernelRepository, "")

	assert.Equal(t, kernel, got.Path)
	assert.Equal(t, []string{kernel}, got.Tried)
}

func TestLocator_MissingOverrideFallsThrough(t *testing.T) {
	root := t.TempDir()
	spec := filepath.Join(root, "lcod-spec")
	require.NoError(t, os.MkdirAll(spec, 0o755))
	env := map[string]string{EnvSpecRepo: filepath.Join(root, "does-not-exist")}

	loc := newTestLocator(t, root, nil, env)
	got := loc.Locate(SpecRepository, "")

	assert.Equal(t, spec, got.Path)
	assert.Equal(t, filepath.Join(root, "does-not-exist"), got.Tried[0])
}

func TestLocator_NotFoundListsCandidates(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "registry")
	require.NoError(t, os.MkdirAll(root, 0o755))

	loc := newTestLocator(t, root, nil, nil)
	got := loc.Locate(KernelRepository, "")

	assert.False(t, got.Found())
	assert.Len(t, got.Tried, 3)
	_, err := got.Require()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnresolvedPath))
	assert.Contains(t, err.Error(), got.Tried[2])
}

func TestLocator_FileIsNotARepository(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lcod-components"), []byte("x"), 0o644))

	loc := newTestLocator(t, root, nil, nil)

	assert.NotEqual(t, filepath.Join(root, "lcod-components"), loc.Locate(ComponentsRepository, "").Path)
}

func TestLocator_Roots(t *testing.T) {
	root := t.TempDir()
	components := filepath.Join(root, "lcod-components")
	require.NoError(t, os.MkdirAll(components, 0o755))

	loc := newTestLocator(t, root, nil, nil)
	roots := loc.Roots("")

	assert.Equal(t, root, roots.Registry)
	assert.Equal(t, components, roots.Components.Path)
	assert.Equal(t, "spec", roots.Spec.Name)
	assert.Equal(t, "kernel", roots.Kernel.Name)
}

func TestRegistryRoot(t *testing.T) {
	dir := t.TempDir()

	got, err := RegistryRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	t.Setenv(EnvRegistryRoot, dir)
	got, err = RegistryRoot("")
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	t.Setenv(EnvRegistryRoot, "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = RegistryRoot("")
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}
