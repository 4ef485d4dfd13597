package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driving"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// catalogPath is the registry-relative location of the global package index.
const catalogPath = "catalog.json"

// Ensure ImportService implements the interface.
var _ driving.Importer = (*ImportService)(nil)

// ImportService imports upstream components into the registry.
type ImportService struct {
	store    driven.RegistryStore
	resolver driven.RevisionResolver
	roots    domain.Roots
	settings domain.Settings
	now      func() time.Time
	openFS   func(dir string) fs.FS
}

// NewImportService creates a new import service.
func NewImportService(
	store driven.RegistryStore,
	resolver driven.RevisionResolver,
	roots domain.Roots,
	settings domain.Settings,
) *ImportService {
	return &ImportService{
		store:    store,
		resolver: resolver,
		roots:    roots,
		settings: settings,
		now:      time.Now,
		openFS:   os.DirFS,
	}
}

// ImportAll reads the upstream component list and writes a manifest,
// version index entry and catalog entry for every component.
func (s *ImportService) ImportAll(ctx context.Context) (*driving.ImportResult, error) {
	componentsRoot, err := s.roots.Components.Require()
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(componentsRoot, filepath.FromSlash(s.settings.Upstream.Manifest))
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading upstream manifest: %w", err)
	}
	components, err := parseUpstreamComponents(s.settings.Upstream.Manifest, data)
	if err != nil {
		return nil, err
	}

	result := &driving.ImportResult{ManifestPath: manifestPath, Components: len(components)}
	if len(components) == 0 {
		return result, nil
	}

	commit, err := s.resolver.CurrentRevision(ctx, componentsRoot)
	if err != nil {
		return nil, fmt.Errorf("unable to determine components commit: %w", err)
	}
	result.Commit = commit

	publishedAt, err := s.resolver.CommitTime(ctx, componentsRoot, commit)
	if err != nil {
		logger.Warn("commit time unavailable, using current time: %v", err)
		publishedAt = s.now().UTC()
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	upstream := s.openFS(componentsRoot)
	logger.Section("Import")
	for _, component := range components {
		if component.ID == "" || component.ComposePath == "" {
			logger.Debug("skipping upstream entry without id or composePath")
			continue
		}
		added, err := s.importComponent(ctx, upstream, catalog, component, commit, publishedAt)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", component.ID, err)
		}
		result.Imported++
		if added {
			result.NewPackages++
		}
	}

	catalog.Sort()
	if err := s.writeJSON(ctx, catalogPath, catalog); err != nil {
		return nil, err
	}
	return result, nil
}

// importComponent writes one manifest and updates its version index and the
// in-memory catalog. Returns true if the package was new to the catalog.
func (s *ImportService) importComponent(
	ctx context.Context,
	upstream fs.FS,
	catalog *domain.Catalog,
	component domain.UpstreamComponent,
	commit string,
	publishedAt time.Time,
) (bool, error) {
	composeDir := path.Dir(path.Clean(strings.ReplaceAll(component.ComposePath, "\\", "/")))
	if !fs.ValidPath(composeDir) {
		return false, fmt.Errorf("%w: composePath %q escapes the repository", domain.ErrInvalidInput, component.ComposePath)
	}

	manifest, id, err := BuildManifest(ManifestRequest{
		ID:           component.ID,
		SourceFS:     upstream,
		SourceDir:    composeDir,
		Repository:   s.settings.Upstream.Repository,
		Commit:       commit,
		RelativePath: composeDir,
		PublishedAt:  publishedAt,
	})
	if err != nil {
		return false, err
	}

	// A rejected index must leave no manifest behind.
	versionsPath := id.Package.VersionsPath()
	index, err := s.loadVersionIndex(ctx, versionsPath, id.Package)
	if err != nil {
		return false, err
	}
	manifestPath := id.Package.ManifestPath(id.Version)
	index.Upsert(id.Version, manifestPath)

	if err := s.writeJSON(ctx, manifestPath, manifest); err != nil {
		return false, err
	}
	if err := s.writeJSON(ctx, versionsPath, index); err != nil {
		return false, err
	}

	added := catalog.Add(domain.CatalogEntry{
		ID:           id.Package,
		RegistryID:   s.settings.RegistryID,
		VersionsPath: versionsPath,
	})
	logger.Info("imported %s (%d files)", id, len(manifest.Files))
	return added, nil
}

func (s *ImportService) loadCatalog(ctx context.Context) (*domain.Catalog, error) {
	data, err := s.store.ReadFile(ctx, catalogPath)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("%s not found, starting an empty catalog", catalogPath)
		return &domain.Catalog{}, nil
	}
	if err != nil {
		return nil, err
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStructural, catalogPath, err)
	}
	return &catalog, nil
}

func (s *ImportService) loadVersionIndex(ctx context.Context, versionsPath string, id domain.PackageID) (*domain.VersionIndex, error) {
	data, err := s.store.ReadFile(ctx, versionsPath)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewVersionIndex(id), nil
	}
	if err != nil {
		return nil, err
	}
	var index domain.VersionIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStructural, versionsPath, err)
	}
	if index.ID != id {
		return nil, fmt.Errorf("%w: %s: expected %s, found %s", domain.ErrIDMismatch, versionsPath, id, index.ID)
	}
	if index.Schema == "" {
		index.Schema = domain.VersionIndexSchema
	}
	if index.Versions == nil {
		index.Versions = []domain.VersionIndexEntry{}
	}
	return &index, nil
}

func (s *ImportService) writeJSON(ctx context.Context, p string, v any) error {
	data, err := domain.EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", p, err)
	}
	if _, err := s.store.WriteFile(ctx, p, data); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

// parseUpstreamComponents accepts either a JSON array of components or a
// line-delimited list whose optional header record has type "manifest".
func parseUpstreamComponents(name string, data []byte) ([]domain.UpstreamComponent, error) {
	if strings.HasSuffix(name, ".jsonl") {
		var out []domain.UpstreamComponent
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64<<10), 4<<20)
		for line := 1; sc.Scan(); line++ {
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			var rec struct {
				Type string `json:"type"`
				domain.UpstreamComponent
			}
			if err := json.Unmarshal([]byte(text), &rec); err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrStructural, name, line, err)
			}
			if rec.Type == "manifest" {
				continue
			}
			out = append(out, rec.UpstreamComponent)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrStructural, name, err)
		}
		return out, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s must be an array of components: %v", domain.ErrStructural, name, err)
	}
	out := make([]domain.UpstreamComponent, 0, len(raw))
	for i, item := range raw {
		var c domain.UpstreamComponent
		if err := json.Unmarshal(item, &c); err != nil {
			logger.Debug("%s entry %d is not a component: %v", name, i, err)
			c = domain.UpstreamComponent{}
		}
		out = append(out, c)
	}
	return out, nil
}
