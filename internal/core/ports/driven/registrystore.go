package driven

import "context"

// RegistryStore reads and writes registry files by registry-relative,
// slash-separated path (e.g. "packages/tooling/log/versions.json").
type RegistryStore interface {
	// Root returns a human-readable location of the registry, used in messages.
	Root() string

	// ReadFile returns the file content.
	// Returns an error wrapping domain.ErrNotFound if the file does not exist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the file content, creating parent directories.
	// The write is skipped when the current content is byte-identical;
	// changed reports whether anything was written.
	WriteFile(ctx context.Context, path string, data []byte) (changed bool, err error)
}
