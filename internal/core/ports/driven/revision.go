package driven

import (
	"context"
	"time"
)

// RevisionResolver queries a version-controlled working copy.
// Implementations must not retry: a failed lookup wraps
// domain.ErrSubprocessFailure and is fatal to the caller.
type RevisionResolver interface {
	// CurrentRevision returns the commit checked out in repoDir.
	CurrentRevision(ctx context.Context, repoDir string) (string, error)

	// CommitTime returns the committer timestamp of commit.
	CommitTime(ctx context.Context, repoDir, commit string) (time.Time, error)
}
