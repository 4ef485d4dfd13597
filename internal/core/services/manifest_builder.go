package services

import (
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

// ManifestRequest is the input of BuildManifest.
type ManifestRequest struct {
	// ID is the versioned component id, e.g. "lcod://tooling/log@1.0.0".
	ID string

	// SourceFS is the upstream repository; SourceDir is the component
	// directory inside it.
	SourceFS  fs.FS
	SourceDir string

	// Repository, Commit and RelativePath describe provenance. RelativePath
	// prefixes every file path in the manifest.
	Repository   string
	Commit       string
	RelativePath string

	PublishedAt time.Time

	// Dependencies defaults to an empty list.
	Dependencies []string
}

// BuildManifest hashes the component directory and returns its manifest.
func BuildManifest(req ManifestRequest) (*domain.Manifest, domain.VersionedID, error) {
	id, err := domain.ParseVersionedID(req.ID)
	if err != nil {
		return nil, domain.VersionedID{}, err
	}
	if req.SourceFS == nil {
		return nil, id, fmt.Errorf("%w: no source filesystem for %s", domain.ErrInvalidInput, req.ID)
	}

	digests, err := DigestTree(req.SourceFS, req.SourceDir)
	if err != nil {
		return nil, id, err
	}

	files := make([]domain.FileEntry, len(digests))
	for i, f := range digests {
		f.Path = path.Join(req.RelativePath, f.Path)
		files[i] = f
	}

	deps := req.Dependencies
	if deps == nil {
		deps = []string{}
	}

	return &domain.Manifest{
		Schema:      domain.ManifestSchema,
		ID:          id.String(),
		PublishedAt: req.PublishedAt,
		Source: domain.ManifestSource{
			Type:   "git",
			URL:    req.Repository,
			Commit: req.Commit,
			Path:   req.RelativePath,
		},
		Files:        files,
		Dependencies: deps,
	}, id, nil
}
