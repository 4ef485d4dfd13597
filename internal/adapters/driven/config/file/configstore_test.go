package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-registry/internal/adapters/driven/storage/memory"
	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
	_, ok := store.Get("paths.components")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "paths = [unterminated")

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_FlattensTables(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[paths]
components = "../components"

[catalogue]
priority = 10
`)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "../components", store.GetString("paths.components"))
	assert.Equal(t, 10, store.GetInt("catalogue.priority"))
}

func TestConfigStore_TypedGettersWrongType(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[registry]
id = 42

[catalogue]
priority = "high"
`)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, store.GetString("registry.id"))
	assert.Zero(t, store.GetInt("catalogue.priority"))
	assert.Empty(t, store.GetString("missing.key"))
	assert.Zero(t, store.GetInt("missing.key"))
}

func TestFlattenMap(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}

	result := flattenMap(input, "")

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, result)
}

func TestSettingsFromConfig_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), SettingsFromConfig(store))
	assert.Equal(t, domain.DefaultSettings(), SettingsFromConfig(nil))
}

func TestSettingsFromConfig_Overrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[registry]
id = "mirror"

[upstream]
repository = "https://example.com/components"
raw_base = "https://raw.example.com/components"
manifest = "registry/components.std.jsonl"

[catalogue]
id = "tooling/extra"
description = "Extra tooling"
priority = 0
`)
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings := SettingsFromConfig(store)

	assert.Equal(t, "mirror", settings.RegistryID)
	assert.Equal(t, "https://example.com/components", settings.Upstream.Repository)
	assert.Equal(t, "https://raw.example.com/components", settings.Upstream.RawBase)
	assert.Equal(t, "registry/components.std.jsonl", settings.Upstream.Manifest)
	assert.Equal(t, "tooling/extra", settings.Catalogue.ID)
	assert.Equal(t, "Extra tooling", settings.Catalogue.Description)
	assert.Equal(t, 0, settings.Catalogue.Priority)
}

func TestSettingsFromConfig_PartialOverlay(t *testing.T) {
	cfg := memory.NewConfigStore()
	cfg.Set("upstream.manifest", "registry/components.std.jsonl")
	cfg.Set("catalogue.priority", int64(0))

	settings := SettingsFromConfig(cfg)

	defaults := domain.DefaultSettings()
	assert.Equal(t, "registry/components.std.jsonl", settings.Upstream.Manifest)
	assert.Equal(t, 0, settings.Catalogue.Priority)
	assert.Equal(t, defaults.RegistryID, settings.RegistryID)
	assert.Equal(t, defaults.Upstream.RawBase, settings.Upstream.RawBase)
	assert.Equal(t, defaults.Catalogue.ID, settings.Catalogue.ID)
}
