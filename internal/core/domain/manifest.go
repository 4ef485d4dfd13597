package domain

import "time"

// Schema tags written into persisted registry documents.
const (
	ManifestSchema     = "lcod-registry/manifest@1"
	VersionIndexSchema = "lcod-registry/versions@1"
	CataloguesSchema   = "lcod-registry/catalogues@1"
	ManifestListSchema = "lcod-manifest/list@1"
)

// PlaceholderCommit is the sentinel commit left by scaffolding tools.
// A manifest pinned to it was never imported from a real upstream revision.
const PlaceholderCommit = "SPEC_COMMIT_PLACEHOLDER"

// FileEntry is the digest of one file within a component tree.
type FileEntry struct {
	// Path is POSIX-style and relative; unique within a manifest.
	Path string `json:"path"`

	// SHA256 is 64 lowercase hex characters.
	SHA256 string `json:"sha256"`

	Size int64 `json:"size"`
}

// ManifestSource records where a component version came from.
type ManifestSource struct {
	// Type is the repository kind, always "git" for imported components.
	Type string `json:"type"`

	URL string `json:"url"`

	// Commit is the upstream revision the files were hashed at.
	Commit string `json:"commit"`

	// Path is the component directory relative to the upstream repository root.
	Path string `json:"path"`
}

// Manifest is the per-version record of a component's identity,
// provenance and file digests. Files are sorted by path.
type Manifest struct {
	Schema       string         `json:"schema"`
	ID           string         `json:"id"`
	PublishedAt  time.Time      `json:"publishedAt"`
	Source       ManifestSource `json:"source"`
	Files        []FileEntry    `json:"files"`
	Dependencies []string       `json:"dependencies"`
}

// UpstreamComponent is one entry of the upstream components.std.json list.
type UpstreamComponent struct {
	ID          string `json:"id"`
	ComposePath string `json:"composePath"`
}
