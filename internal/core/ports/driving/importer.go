package driving

import "context"

// ImportResult summarises one import run.
type ImportResult struct {
	// ManifestPath is the upstream component list that was read.
	ManifestPath string

	// Commit is the upstream revision every manifest was pinned to.
	Commit string

	// Components is the number of entries in the upstream list.
	Components int

	// Imported is the number of manifests written.
	Imported int

	// NewPackages is the number of ids added to the catalog.
	NewPackages int
}

// Importer turns upstream components into registry manifests.
type Importer interface {
	// ImportAll reads the upstream component list and writes a manifest,
	// version index entry and catalog entry for every component.
	// Fails fast on the first error; packages imported earlier remain.
	ImportAll(ctx context.Context) (*ImportResult, error)
}
