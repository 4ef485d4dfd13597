package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driving"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// catalogueEncodings lists the persisted encodings in validation order.
var catalogueEncodings = []domain.CatalogueEncoding{domain.EncodingJSON, domain.EncodingJSONL}

// Ensure CatalogueService implements the interface.
var _ driving.CatalogueService = (*CatalogueService)(nil)

// CatalogueService keeps the pinned upstream catalogue pointer accurate.
type CatalogueService struct {
	store    driven.RegistryStore
	resolver driven.RevisionResolver
	roots    domain.Roots
	settings domain.Settings
}

// NewCatalogueService creates a new catalogue service.
func NewCatalogueService(
	store driven.RegistryStore,
	resolver driven.RevisionResolver,
	roots domain.Roots,
	settings domain.Settings,
) *CatalogueService {
	return &CatalogueService{
		store:    store,
		resolver: resolver,
		roots:    roots,
		settings: settings,
	}
}

// Update regenerates catalogues.json and catalogues.jsonl from the current
// upstream manifest bytes and revision. Other catalogue entries already in
// catalogues.json are kept.
func (s *CatalogueService) Update(ctx context.Context) (*driving.UpdateResult, error) {
	root, err := s.roots.Components.Require()
	if err != nil {
		return nil, err
	}

	manifestRel := s.settings.Upstream.Manifest
	data, err := readUpstream(root, manifestRel)
	if err != nil {
		return nil, err
	}
	checksum := ChecksumSRI(data)

	commit, err := s.resolver.CurrentRevision(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("unable to determine components commit: %w", err)
	}

	url := strings.TrimSuffix(s.settings.Upstream.RawBase, "/") + "/" + commit + "/" + manifestRel
	pinned := domain.CatalogueEntry{
		ID:          s.settings.Catalogue.ID,
		Description: s.settings.Catalogue.Description,
		Kind:        domain.CatalogueKindHTTPS,
		URL:         url,
		Commit:      commit,
		Checksum:    checksum,
		Priority:    s.settings.Catalogue.Priority,
		Metadata: domain.CatalogueMetadata{
			SourceRepo:   s.settings.Upstream.Repository,
			ManifestPath: manifestRel,
		},
	}

	entries, err := s.existingEntries(ctx)
	if err != nil {
		return nil, err
	}
	entries = upsertCatalogue(entries, pinned)

	result := &driving.UpdateResult{
		Commit:   commit,
		Checksum: checksum,
		URL:      url,
		Changed:  make(map[domain.CatalogueEncoding]bool, len(catalogueEncodings)),
	}
	for _, enc := range catalogueEncodings {
		var content []byte
		if enc == domain.EncodingJSON {
			content, err = domain.EncodeCataloguesJSON(entries)
		} else {
			content, err = domain.EncodeCataloguesJSONL(entries)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", enc.FileName(), err)
		}
		changed, err := s.store.WriteFile(ctx, enc.FileName(), content)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", enc.FileName(), err)
		}
		result.Changed[enc] = changed
	}
	return result, nil
}

// Verify checks the pinned entry of every present encoding against the
// upstream repository, then reconciles the encodings with each other.
// The first failure is returned.
func (s *CatalogueService) Verify(ctx context.Context) (*driving.CatalogueVerification, error) {
	decoded, err := s.loadEncodings(ctx)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: neither catalogues.json nor catalogues.jsonl is present", domain.ErrMissingEntry)
	}

	id := s.settings.Catalogue.ID
	entries := make(map[domain.CatalogueEncoding]domain.CatalogueEntry, len(decoded))
	for _, enc := range catalogueEncodings {
		cats, ok := decoded[enc]
		if !ok {
			continue
		}
		entry, ok := cats.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s entry missing", domain.ErrMissingEntry, enc.FileName(), id)
		}
		entries[enc] = entry
	}

	root, err := s.roots.Components.Require()
	if err != nil {
		return nil, err
	}

	commit := ""
	verification := &driving.CatalogueVerification{}
	for _, enc := range catalogueEncodings {
		entry, ok := entries[enc]
		if !ok {
			continue
		}
		logger.Debug("verifying %s entry in %s", id, enc.FileName())

		declaredCommit, declaredChecksum := entry.Pin(enc)
		manifestRel := entry.Metadata.ManifestPath
		if manifestRel == "" {
			manifestRel = enc.UpstreamManifest()
		}
		data, err := readUpstream(root, manifestRel)
		if err != nil {
			return nil, err
		}
		if expected := ChecksumSRI(data); declaredChecksum != expected {
			return nil, fmt.Errorf("%w: %s: expected %s, found %s",
				domain.ErrChecksumMismatch, enc.FileName(), expected, declaredChecksum)
		}

		if commit == "" {
			commit, err = s.resolver.CurrentRevision(ctx, root)
			if err != nil {
				return nil, fmt.Errorf("unable to read components commit: %w", err)
			}
		}
		if declaredCommit != commit {
			return nil, fmt.Errorf("%w: %s: expected %s, found %s",
				domain.ErrCommitMismatch, enc.FileName(), commit, declaredCommit)
		}
		if !strings.Contains(entry.URL, commit) {
			return nil, fmt.Errorf("%w: %s: %s url must embed the pinned commit",
				domain.ErrCommitMismatch, enc.FileName(), id)
		}
		verification.Encodings = append(verification.Encodings, enc)
	}

	if structured, ok := entries[domain.EncodingJSON]; ok {
		if lines, ok := entries[domain.EncodingJSONL]; ok {
			if err := reconcileCatalogues(structured, lines); err != nil {
				return nil, err
			}
		}
	}

	verification.Commit = commit
	return verification, nil
}

// reconcileCatalogues compares the structured and line-delimited entries
// field by field.
func reconcileCatalogues(structured, lines domain.CatalogueEntry) error {
	if structured.URL != lines.URL {
		return fmt.Errorf("%w: url differs between catalogues.json (%s) and catalogues.jsonl (%s)",
			domain.ErrCommitMismatch, structured.URL, lines.URL)
	}
	jsonCommit, jsonChecksum := structured.Pin(domain.EncodingJSON)
	lineCommit, lineChecksum := lines.Pin(domain.EncodingJSONL)
	if jsonCommit != lineCommit {
		return fmt.Errorf("%w: catalogues.jsonl metadata.commit %s differs from catalogues.json commit %s",
			domain.ErrCommitMismatch, lineCommit, jsonCommit)
	}
	if jsonChecksum != lineChecksum {
		return fmt.Errorf("%w: catalogues.jsonl metadata.checksum %s differs from catalogues.json checksum %s",
			domain.ErrChecksumMismatch, lineChecksum, jsonChecksum)
	}
	return nil
}

// loadEncodings decodes every catalogue encoding present in the registry.
func (s *CatalogueService) loadEncodings(ctx context.Context) (map[domain.CatalogueEncoding]*domain.Catalogues, error) {
	out := make(map[domain.CatalogueEncoding]*domain.Catalogues, len(catalogueEncodings))
	for _, enc := range catalogueEncodings {
		data, err := s.store.ReadFile(ctx, enc.FileName())
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var cats *domain.Catalogues
		if enc == domain.EncodingJSON {
			cats, err = domain.DecodeCataloguesJSON(data)
		} else {
			cats, err = domain.DecodeCataloguesJSONL(data)
		}
		if err != nil {
			return nil, err
		}
		out[enc] = cats
	}
	return out, nil
}

// existingEntries returns the entries Update must preserve, preferring the
// structured encoding.
func (s *CatalogueService) existingEntries(ctx context.Context) ([]domain.CatalogueEntry, error) {
	decoded, err := s.loadEncodings(ctx)
	if err != nil {
		return nil, err
	}
	for _, enc := range catalogueEncodings {
		if cats, ok := decoded[enc]; ok {
			return cats.Entries, nil
		}
	}
	return nil, nil
}

func upsertCatalogue(entries []domain.CatalogueEntry, pinned domain.CatalogueEntry) []domain.CatalogueEntry {
	out := make([]domain.CatalogueEntry, 0, len(entries)+1)
	replaced := false
	for _, e := range entries {
		if e.ID == pinned.ID {
			if !replaced {
				out = append(out, pinned)
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, pinned)
	}
	return out
}

// readUpstream reads a slash-separated file below the upstream root.
func readUpstream(root, rel string) ([]byte, error) {
	if !fs.ValidPath(rel) {
		return nil, fmt.Errorf("%w: upstream manifest path %q", domain.ErrInvalidInput, rel)
	}
	p := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: upstream manifest %s", domain.ErrUnresolvedPath, p)
	}
	if err != nil {
		return nil, fmt.Errorf("reading upstream manifest: %w", err)
	}
	return data, nil
}
