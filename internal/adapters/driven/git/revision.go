// Package git resolves upstream revisions by invoking the git binary.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// Ensure RevisionResolver implements the interface.
var _ driven.RevisionResolver = (*RevisionResolver)(nil)

// RevisionResolver runs git in the working copy. Commands are never retried.
type RevisionResolver struct {
	binary string
}

// NewRevisionResolver creates a resolver using the git binary on PATH.
func NewRevisionResolver() *RevisionResolver {
	return &RevisionResolver{binary: "git"}
}

// CurrentRevision returns the commit checked out in repoDir.
func (r *RevisionResolver) CurrentRevision(ctx context.Context, repoDir string) (string, error) {
	out, err := r.run(ctx, repoDir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("%w: git rev-parse HEAD returned no commit", domain.ErrSubprocessFailure)
	}
	return out, nil
}

// CommitTime returns the committer date of commit.
func (r *RevisionResolver) CommitTime(ctx context.Context, repoDir, commit string) (time.Time, error) {
	out, err := r.run(ctx, repoDir, "show", "-s", "--format=%cI", commit)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unexpected commit date %q", domain.ErrSubprocessFailure, out)
	}
	return t.UTC(), nil
}

func (r *RevisionResolver) run(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Debug("git %s (in %s)", strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: git %s: %s", domain.ErrSubprocessFailure, args[0], msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
