package driving

import (
	"context"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

// RegistryValidator checks the persisted registry structure.
type RegistryValidator interface {
	// Validate walks catalog, version indices and manifests and returns
	// every issue found. The error return is reserved for failures that
	// prevent validation from running at all.
	Validate(ctx context.Context) (*domain.Report, error)
}
