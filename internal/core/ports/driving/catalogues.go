package driving

import (
	"context"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

// UpdateResult reports which catalogue encodings were rewritten.
type UpdateResult struct {
	Commit   string
	Checksum string
	URL      string

	// Changed maps each encoding to whether its file content changed.
	Changed map[domain.CatalogueEncoding]bool
}

// CatalogueVerification reports a successful cross-validation.
type CatalogueVerification struct {
	Commit string

	// Encodings lists the encodings that were present and verified.
	Encodings []domain.CatalogueEncoding
}

// CatalogueService maintains the pinned upstream catalogue pointer.
type CatalogueService interface {
	// Update regenerates both catalogue encodings from the upstream
	// repository, writing only files whose content changed.
	Update(ctx context.Context) (*UpdateResult, error)

	// Verify checks every present encoding against the upstream repository
	// and against each other.
	Verify(ctx context.Context) (*CatalogueVerification, error)
}
