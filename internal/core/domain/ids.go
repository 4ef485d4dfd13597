package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// schemePattern matches the scheme prefix of a package id (e.g. "lcod://").
var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)

// PackageID identifies a component package without a version,
// e.g. "lcod://tooling/log".
type PackageID string

// String returns the string representation.
func (p PackageID) String() string {
	return string(p)
}

// Scheme returns the scheme without the "://" separator.
func (p PackageID) Scheme() string {
	loc := schemePattern.FindStringIndex(string(p))
	if loc == nil {
		return ""
	}
	return string(p)[:loc[1]-len("://")]
}

// Segments returns the path segments following the scheme prefix.
func (p PackageID) Segments() []string {
	loc := schemePattern.FindStringIndex(string(p))
	if loc == nil {
		return nil
	}
	return strings.Split(string(p)[loc[1]:], "/")
}

// Validate checks the scheme prefix and path segments.
func (p PackageID) Validate() error {
	if p == "" {
		return fmt.Errorf("%w: empty package id", ErrInvalidInput)
	}
	if !schemePattern.MatchString(string(p)) {
		return fmt.Errorf("%w: package id %q lacks a scheme prefix", ErrInvalidInput, p)
	}
	for _, seg := range p.Segments() {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: package id %q has an invalid path segment", ErrInvalidInput, p)
		}
	}
	return nil
}

// VersionsPath returns the registry-relative path of the package's version index.
func (p PackageID) VersionsPath() string {
	return "packages/" + strings.Join(p.Segments(), "/") + "/versions.json"
}

// ManifestPath returns the registry-relative path of a version's manifest.
func (p PackageID) ManifestPath(version string) string {
	return "packages/" + strings.Join(p.Segments(), "/") + "/" + version + "/manifest.json"
}

// VersionedID is a package id pinned to a version ("lcod://tooling/log@1.0.0").
type VersionedID struct {
	Package PackageID
	Version string
}

// ParseVersionedID splits raw on the first "@" and validates both halves.
// A missing version is an input error.
func ParseVersionedID(raw string) (VersionedID, error) {
	base, version, found := strings.Cut(raw, "@")
	pkg := PackageID(base)
	if err := pkg.Validate(); err != nil {
		return VersionedID{}, err
	}
	if !found || version == "" {
		return VersionedID{}, fmt.Errorf("%w: missing version in id %q", ErrInvalidInput, raw)
	}
	if strings.ContainsAny(version, "/\\") {
		return VersionedID{}, fmt.Errorf("%w: version %q contains a path separator", ErrInvalidInput, version)
	}
	return VersionedID{Package: pkg, Version: version}, nil
}

// String renders the id as "<package>@<version>".
func (v VersionedID) String() string {
	return string(v.Package) + "@" + v.Version
}
