package domain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultCatalogueID is the catalogue entry pinned to the upstream components repository.
const DefaultCatalogueID = "tooling/std"

// CatalogueKind is the transport a catalogue url is served over.
type CatalogueKind string

// Supported catalogue kinds.
const (
	CatalogueKindHTTPS CatalogueKind = "https"
	CatalogueKindHTTP  CatalogueKind = "http"
	CatalogueKindGit   CatalogueKind = "git"
	CatalogueKindFile  CatalogueKind = "file"
)

// IsValid returns true if the kind is recognised.
func (k CatalogueKind) IsValid() bool {
	switch k {
	case CatalogueKindHTTPS, CatalogueKindHTTP, CatalogueKindGit, CatalogueKindFile:
		return true
	default:
		return false
	}
}

// CatalogueMetadata carries provenance for a catalogue entry. The
// line-delimited encoding stores the pin (commit and checksum) here.
type CatalogueMetadata struct {
	SourceRepo   string `json:"sourceRepo,omitempty"`
	ManifestPath string `json:"manifestPath,omitempty"`
	Commit       string `json:"commit,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
}

// CatalogueEntry is a pinned, checksummed pointer to an upstream collection
// of components.
type CatalogueEntry struct {
	ID          string            `json:"id"`
	Description string            `json:"description,omitempty"`
	Kind        CatalogueKind     `json:"kind"`
	URL         string            `json:"url"`
	Commit      string            `json:"commit,omitempty"`
	Checksum    string            `json:"checksum,omitempty"`
	Priority    int               `json:"priority"`
	Metadata    CatalogueMetadata `json:"metadata"`
}

// Pin returns the commit and checksum as read for the given encoding:
// the structured form stores them at the top level, the line-delimited form
// under metadata. Each falls back to the other location when empty.
func (e CatalogueEntry) Pin(enc CatalogueEncoding) (commit, checksum string) {
	primary := [2]string{e.Commit, e.Checksum}
	secondary := [2]string{e.Metadata.Commit, e.Metadata.Checksum}
	if enc == EncodingJSONL {
		primary, secondary = secondary, primary
	}
	commit, checksum = primary[0], primary[1]
	if commit == "" {
		commit = secondary[0]
	}
	if checksum == "" {
		checksum = secondary[1]
	}
	return commit, checksum
}

// CatalogueEncoding names one of the two persisted catalogue encodings.
type CatalogueEncoding string

// Catalogue encodings.
const (
	EncodingJSON  CatalogueEncoding = "json"
	EncodingJSONL CatalogueEncoding = "jsonl"
)

// FileName returns the registry file holding this encoding.
func (e CatalogueEncoding) FileName() string {
	return "catalogues." + string(e)
}

// UpstreamManifest returns the default upstream manifest path read when an
// entry does not declare metadata.manifestPath.
func (e CatalogueEncoding) UpstreamManifest() string {
	return "registry/components.std." + string(e)
}

// Catalogues is the decoded content of one catalogue encoding.
type Catalogues struct {
	Schema  string
	Entries []CatalogueEntry
}

// Find returns the entry with the given id.
func (c *Catalogues) Find(id string) (CatalogueEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogueEntry{}, false
}

type cataloguesDocument struct {
	Schema     string            `json:"schema"`
	Catalogues *[]CatalogueEntry `json:"catalogues"`
}

// DecodeCataloguesJSON parses the structured catalogues.json document.
func DecodeCataloguesJSON(data []byte) (*Catalogues, error) {
	var doc cataloguesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: catalogues.json: %v", ErrStructural, err)
	}
	if doc.Catalogues == nil {
		return nil, fmt.Errorf("%w: catalogues.json: catalogues array missing", ErrStructural)
	}
	if err := checkKinds("catalogues.json", *doc.Catalogues); err != nil {
		return nil, err
	}
	return &Catalogues{Schema: doc.Schema, Entries: *doc.Catalogues}, nil
}

func checkKinds(name string, entries []CatalogueEntry) error {
	for _, e := range entries {
		if !e.Kind.IsValid() {
			return fmt.Errorf("%w: %s: catalogue %q has unsupported kind %q", ErrStructural, name, e.ID, e.Kind)
		}
	}
	return nil
}

// EncodeCataloguesJSON renders the structured document with commit and
// checksum at the top level of each entry.
func EncodeCataloguesJSON(entries []CatalogueEntry) ([]byte, error) {
	out := make([]CatalogueEntry, len(entries))
	for i, e := range entries {
		e.Commit, e.Checksum = e.Pin(EncodingJSON)
		e.Metadata.Commit = ""
		e.Metadata.Checksum = ""
		out[i] = e
	}
	return EncodeJSON(cataloguesDocument{Schema: CataloguesSchema, Catalogues: &out})
}

type manifestListHeader struct {
	Type   string `json:"type"`
	Schema string `json:"schema"`
}

type catalogueRecord struct {
	Type string `json:"type"`
	CatalogueEntry
}

// DecodeCataloguesJSONL parses the line-delimited encoding: a header record
// followed by one catalogue record per line. Blank lines are ignored.
func DecodeCataloguesJSONL(data []byte) (*Catalogues, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)

	var out Catalogues
	headerSeen := false
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !headerSeen {
			var header manifestListHeader
			if err := json.Unmarshal([]byte(text), &header); err != nil {
				return nil, fmt.Errorf("%w: catalogues.jsonl line %d: %v", ErrStructural, line, err)
			}
			if header.Type != "manifest" {
				return nil, fmt.Errorf("%w: catalogues.jsonl line %d: expected manifest header, found type %q",
					ErrStructural, line, header.Type)
			}
			out.Schema = header.Schema
			headerSeen = true
			continue
		}
		var rec catalogueRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("%w: catalogues.jsonl line %d: %v", ErrStructural, line, err)
		}
		out.Entries = append(out.Entries, rec.CatalogueEntry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: catalogues.jsonl: %v", ErrStructural, err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("%w: catalogues.jsonl: manifest header missing", ErrStructural)
	}
	if err := checkKinds("catalogues.jsonl", out.Entries); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeCataloguesJSONL renders the line-delimited encoding with the pin
// stored under metadata.
func EncodeCataloguesJSONL(entries []CatalogueEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(manifestListHeader{Type: "manifest", Schema: ManifestListSchema}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.Metadata.Commit, e.Metadata.Checksum = e.Pin(EncodingJSONL)
		e.Commit = ""
		e.Checksum = ""
		if err := enc.Encode(catalogueRecord{Type: "catalogue", CatalogueEntry: e}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders v as two-space indented JSON with a trailing newline,
// leaving <, > and & unescaped.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
