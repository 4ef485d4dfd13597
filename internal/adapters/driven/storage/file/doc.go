// Package file provides the filesystem-backed registry store.
//
// Registry paths are slash-separated and relative to the registry root;
// they are converted to OS paths at this boundary.
package file
