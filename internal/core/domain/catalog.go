package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultRegistryID is recorded on catalog entries created by an import.
const DefaultRegistryID = "official"

// CatalogEntry maps a package id to its version index.
type CatalogEntry struct {
	ID           PackageID `json:"id"`
	RegistryID   string    `json:"registryId"`
	VersionsPath string    `json:"versionsPath"`
}

// Catalog is the registry's global package index (catalog.json).
//
// Extra holds unknown top-level keys so a rewrite does not drop them.
// Keys read from an existing document are written back in their original
// order; keys added later follow in sorted order.
type Catalog struct {
	Packages []CatalogEntry
	Extra    map[string]json.RawMessage

	keyOrder []string
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id PackageID) (CatalogEntry, bool) {
	for _, entry := range c.Packages {
		if entry.ID == id {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// Add appends entry unless its id is already present; existing entries are
// left untouched. Packages are re-sorted by id. Returns true if added.
func (c *Catalog) Add(entry CatalogEntry) bool {
	if _, ok := c.Lookup(entry.ID); ok {
		return false
	}
	c.Packages = append(c.Packages, entry)
	c.Sort()
	return true
}

// Sort orders packages by id ascending.
func (c *Catalog) Sort() {
	sort.SliceStable(c.Packages, func(i, j int) bool {
		return c.Packages[i].ID < c.Packages[j].ID
	})
}

// MarshalJSON writes packages alongside any preserved keys.
func (c Catalog) MarshalJSON() ([]byte, error) {
	packages := c.Packages
	if packages == nil {
		packages = []CatalogEntry{}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	written := make(map[string]bool, len(c.Extra)+1)
	writeField := func(key string, value any) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("catalog key %s: %w", key, err)
		}
		if len(written) > 0 {
			buf.WriteByte(',')
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		written[key] = true
		return nil
	}

	for _, key := range c.keyOrder {
		if written[key] {
			continue
		}
		if key == "packages" {
			if err := writeField(key, packages); err != nil {
				return nil, err
			}
			continue
		}
		if v, ok := c.Extra[key]; ok {
			if err := writeField(key, v); err != nil {
				return nil, err
			}
		}
	}

	rest := make([]string, 0, len(c.Extra))
	for key := range c.Extra {
		if !written[key] && key != "packages" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := writeField(key, c.Extra[key]); err != nil {
			return nil, err
		}
	}
	if !written["packages"] {
		if err := writeField("packages", packages); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads packages and keeps every other key in Extra.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	order, err := objectKeys(data)
	if err != nil {
		return err
	}
	c.Packages = nil
	if p, ok := raw["packages"]; ok {
		if err := json.Unmarshal(p, &c.Packages); err != nil {
			return err
		}
		delete(raw, "packages")
	}
	c.Extra = raw
	c.keyOrder = order
	return nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
