package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCmd_Use(t *testing.T) {
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotNil(t, validateCmd.Flags().Lookup("watch"))
}

func TestValidateCmd_PassesAfterImport(t *testing.T) {
	registry, _ := workspace(t)
	_, err := runCLI(t, "--root", registry, "import")
	require.NoError(t, err)

	out, err := runCLI(t, "--root", registry, "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "Registry validation passed.")
}

func TestValidateCmd_ReportsEveryIssue(t *testing.T) {
	registry, _ := workspace(t)
	writeFiles(t, registry, map[string]string{
		"catalog.json": `{"packages": [
  {"id": "lcod://tooling/log", "versionsPath": "packages/tooling/log/versions.json"},
  {"id": "lcod://flow/if"}
]}`,
		"packages/tooling/log/versions.json": `{"id": "lcod://tooling/log", "versions": [
  {"version": "1.9.0"},
  {"version": "1.10.0"}
]}`,
		"packages/tooling/log/1.9.0/manifest.json":  `{"id": "lcod://tooling/log@1.9.0", "source": {"commit": "SPEC_COMMIT_PLACEHOLDER"}, "files": []}`,
		"packages/tooling/log/1.10.0/manifest.json": `{"id": "lcod://tooling/log@1.10.0", "source": {"commit": "abc"}, "files": [{"path": "a", "sha256": "00"}]}`,
	})

	out, errOut, err := runCLIOutput(t, "--root", registry, "validate")

	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "4 issue(s) found.")
	assert.Contains(t, errOut, "Registry validation failed:")
	assert.Contains(t, errOut, "source.commit must not be SPEC_COMMIT_PLACEHOLDER")
	assert.Contains(t, errOut, "files array must be non-empty")
	assert.Contains(t, errOut, "found 1.9.0 before 1.10.0")
	assert.Contains(t, errOut, `lcod://flow/if missing "versionsPath"`)
}

func TestValidateCmd_MissingCatalog(t *testing.T) {
	registry, _ := workspace(t)

	_, errOut, err := runCLIOutput(t, "--root", registry, "validate")

	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, errOut, "failed to read catalog.json")
}

func TestRelevantEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "create", event: fsnotify.Event{Name: "/r/catalog.json", Op: fsnotify.Create}, want: true},
		{name: "write", event: fsnotify.Event{Name: "/r/catalog.json", Op: fsnotify.Write}, want: true},
		{name: "remove", event: fsnotify.Event{Name: "/r/catalog.json", Op: fsnotify.Remove}, want: true},
		{name: "rename", event: fsnotify.Event{Name: "/r/catalog.json", Op: fsnotify.Rename}, want: true},
		{name: "chmod", event: fsnotify.Event{Name: "/r/catalog.json", Op: fsnotify.Chmod}, want: false},
		{name: "hidden file", event: fsnotify.Event{Name: "/r/.catalog.json.swp", Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevantEvent(tt.event))
		})
	}
}

func TestWatchRegistry_CallsOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "tooling"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchRegistry(ctx, root, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "tooling", "versions.json"), []byte("{}"), 0o644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change callback")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchRegistry_MissingRoot(t *testing.T) {
	err := watchRegistry(context.Background(), filepath.Join(t.TempDir(), "missing"), func() {})

	assert.Error(t, err)
}
