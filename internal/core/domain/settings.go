package domain

import (
	"fmt"
	"strings"
)

// Default upstream locations for the lcod-components repository.
const (
	DefaultUpstreamRepository = "https://github.com/lcod-team/lcod-components"
	DefaultUpstreamRawBase    = "https://raw.githubusercontent.com/lcod-team/lcod-components"
	DefaultUpstreamManifest   = "registry/components.std.json"
	DefaultCataloguePriority  = 50
	DefaultCatalogueDesc      = "Standard tooling catalogue exported from lcod-components."
)

// Settings holds registry maintenance configuration.
type Settings struct {
	// RegistryID is written to catalog entries created by an import.
	RegistryID string

	// Upstream describes the components repository the registry is pinned to.
	Upstream UpstreamSettings

	// Catalogue describes the catalogue entry regenerated from the upstream.
	Catalogue CatalogueSettings
}

// UpstreamSettings locates the upstream repository and its manifest.
type UpstreamSettings struct {
	// Repository is recorded as source.url in manifests and metadata.sourceRepo.
	Repository string

	// RawBase prefixes raw file urls: <RawBase>/<commit>/<Manifest>.
	RawBase string

	// Manifest is the component list path relative to the upstream root.
	Manifest string
}

// CatalogueSettings configures the pinned catalogue entry.
type CatalogueSettings struct {
	ID          string
	Description string
	Priority    int
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		RegistryID: DefaultRegistryID,
		Upstream: UpstreamSettings{
			Repository: DefaultUpstreamRepository,
			RawBase:    DefaultUpstreamRawBase,
			Manifest:   DefaultUpstreamManifest,
		},
		Catalogue: CatalogueSettings{
			ID:          DefaultCatalogueID,
			Description: DefaultCatalogueDesc,
			Priority:    DefaultCataloguePriority,
		},
	}
}

// Roots are the resolved repository locations, computed once at startup.
type Roots struct {
	Registry   string
	Components RepoLocation
	Spec       RepoLocation
	Kernel     RepoLocation
}

// RepoLocation is the outcome of locating a collaborating repository.
// Path is empty when no candidate existed.
type RepoLocation struct {
	Name  string
	Path  string
	Tried []string
}

// Found reports whether the repository was located.
func (l RepoLocation) Found() bool {
	return l.Path != ""
}

// Require returns the path or an ErrUnresolvedPath error listing every
// candidate that was tried.
func (l RepoLocation) Require() (string, error) {
	if l.Path != "" {
		return l.Path, nil
	}
	return "", fmt.Errorf("%w: %s repository. Tried: %s", ErrUnresolvedPath, l.Name, strings.Join(l.Tried, ", "))
}
