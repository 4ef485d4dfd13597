package domain

import "errors"

// Domain errors represent registry invariant failures.
// Callers wrap them with context using fmt.Errorf("%w: ...").
var (
	// ErrNotFound indicates a requested file or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an id without a version.
	ErrInvalidInput = errors.New("invalid input")

	// Registry Errors.

	// ErrMissingEntry indicates a required record is absent from a catalogue, catalog or index.
	ErrMissingEntry = errors.New("entry missing")

	// ErrChecksumMismatch indicates a declared checksum differs from the recomputed one.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrCommitMismatch indicates a declared commit differs from the upstream revision.
	ErrCommitMismatch = errors.New("commit mismatch")

	// ErrIDMismatch indicates a declared id does not match the computed id.
	ErrIDMismatch = errors.New("id mismatch")

	// ErrOrderingViolation indicates versions are not ordered newest to oldest.
	ErrOrderingViolation = errors.New("ordering violation")

	// ErrStructural indicates malformed JSON, a missing required field or a wrong type.
	ErrStructural = errors.New("structural error")

	// Environment Errors.

	// ErrUnresolvedPath indicates a repository or file could not be located
	// from the configured candidate paths.
	ErrUnresolvedPath = errors.New("cannot locate")

	// ErrSubprocessFailure indicates an external process (revision lookup) exited non-zero.
	ErrSubprocessFailure = errors.New("subprocess failure")
)
