// Package domain defines the core registry entities for lcod-registry.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PackageID / VersionedID: component identities (lcod://tooling/log@1.0.0)
//   - Manifest: per-version provenance and file digests
//   - VersionIndex: per-package versions ordered newest first
//   - Catalog: global package index
//   - CatalogueEntry: pinned pointer to an upstream component collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
