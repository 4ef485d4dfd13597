package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

const testCommit = "3f2a9c1d5e7b8a60f1c2d3e4a5b6c7d8e9f00112"

var testCommitTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeResolver is a RevisionResolver returning canned answers.
type fakeResolver struct {
	commit  string
	err     error
	at      time.Time
	timeErr error
	calls   int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{commit: testCommit, at: testCommitTime}
}

func (f *fakeResolver) CurrentRevision(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.commit, nil
}

func (f *fakeResolver) CommitTime(_ context.Context, _, commit string) (time.Time, error) {
	if f.timeErr != nil {
		return time.Time{}, f.timeErr
	}
	if commit != f.commit {
		return time.Time{}, fmt.Errorf("%w: unknown commit %s", domain.ErrSubprocessFailure, commit)
	}
	return f.at, nil
}

// writeTree creates files (slash-separated path -> content) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// newUpstream creates an upstream components checkout.
func newUpstream(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, files)
	return dir
}

func testRoots(components string) domain.Roots {
	return domain.Roots{
		Registry:   "memory://registry",
		Components: domain.RepoLocation{Name: "components", Path: components},
	}
}
