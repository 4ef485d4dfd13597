package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	configfile "github.com/lcod-team/lcod-registry/internal/adapters/driven/config/file"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
)

const testCommit = "3f2a9c1d5e7b8a60f1c2d3e4a5b6c7d8e9f00112"

// stubResolver answers revision lookups without git.
type stubResolver struct {
	commit string
	err    error
}

func (s *stubResolver) CurrentRevision(_ context.Context, _ string) (string, error) {
	return s.commit, s.err
}

func (s *stubResolver) CommitTime(_ context.Context, _, _ string) (time.Time, error) {
	return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), s.err
}

// useResolver installs r for the duration of the test.
func useResolver(t *testing.T, r driven.RevisionResolver) {
	t.Helper()
	old := newRevisionResolver
	newRevisionResolver = func() driven.RevisionResolver { return r }
	t.Cleanup(func() { newRevisionResolver = old })
}

// runCLIOutput executes the root command with fresh flag values.
func runCLIOutput(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(configfile.EnvRegistryRoot, "")
	t.Setenv(configfile.EnvComponentsRepo, "")
	t.Setenv(configfile.EnvSpecRepo, "")
	t.Setenv(configfile.EnvKernelRepo, "")

	rootFlag, componentsFlag = "", ""
	verboseFlag, watchFlag = false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIOutput(t, args...)
	return out, err
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// workspace creates a registry and a components checkout side by side and
// returns both paths.
func workspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	registry := filepath.Join(dir, "lcod-registry")
	components := filepath.Join(dir, "lcod-components")
	require.NoError(t, os.MkdirAll(registry, 0o755))
	writeFiles(t, components, map[string]string{
		"registry/components.std.json": `[
  {"id": "lcod://tooling/log@1.0.0", "composePath": "tooling/log/compose.yaml"},
  {"id": "lcod://tooling/log@1.10.0", "composePath": "tooling/log-next/compose.yaml"}
]`,
		"tooling/log/compose.yaml":      "compose: []\n",
		"tooling/log-next/compose.yaml": "compose: [next]\n",
	})
	useResolver(t, &stubResolver{commit: testCommit})
	return registry, components
}
