package domain

import "sort"

// VersionIndexEntry points a version at its manifest file.
type VersionIndexEntry struct {
	Version  string `json:"version"`
	Manifest string `json:"manifest"`
}

// VersionIndex lists a package's published versions, newest first.
type VersionIndex struct {
	Schema   string              `json:"schema"`
	ID       PackageID           `json:"id"`
	Versions []VersionIndexEntry `json:"versions"`
}

// NewVersionIndex returns an empty index for the package.
func NewVersionIndex(id PackageID) *VersionIndex {
	return &VersionIndex{
		Schema:   VersionIndexSchema,
		ID:       id,
		Versions: []VersionIndexEntry{},
	}
}

// Upsert records manifestPath for version. An existing entry for the same
// version is overwritten in place; otherwise the entry is appended. The list
// is then re-sorted newest first. Returns true if the version was new.
func (v *VersionIndex) Upsert(version, manifestPath string) bool {
	added := true
	found := false
	for i := range v.Versions {
		if v.Versions[i].Version == version {
			v.Versions[i].Manifest = manifestPath
			found = true
		}
	}
	if found {
		added = false
	} else {
		v.Versions = append(v.Versions, VersionIndexEntry{Version: version, Manifest: manifestPath})
	}
	v.Sort()
	return added
}

// Sort orders versions newest first using CompareVersions.
func (v *VersionIndex) Sort() {
	sort.SliceStable(v.Versions, func(i, j int) bool {
		return CompareVersions(v.Versions[i].Version, v.Versions[j].Version) > 0
	})
}

// Latest returns the newest entry, if any.
func (v *VersionIndex) Latest() (VersionIndexEntry, bool) {
	if len(v.Versions) == 0 {
		return VersionIndexEntry{}, false
	}
	return v.Versions[0], true
}
