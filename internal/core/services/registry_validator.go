package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driving"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// Ensure RegistryValidationService implements the interface.
var _ driving.RegistryValidator = (*RegistryValidationService)(nil)

// RegistryValidationService walks catalog -> version indices -> manifests
// and reports every structural problem in a single pass.
type RegistryValidationService struct {
	store driven.RegistryStore
}

// NewRegistryValidationService creates a new registry validator.
func NewRegistryValidationService(store driven.RegistryStore) *RegistryValidationService {
	return &RegistryValidationService{store: store}
}

// Validate returns every issue found. It never stops at the first one and
// never modifies the registry.
func (s *RegistryValidationService) Validate(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{}

	catalog, err := s.readJSON(ctx, catalogPath)
	if err != nil {
		report.Add(kindOf(err), "", "%v", err)
		return report, nil
	}

	packages, ok := object(catalog)["packages"].([]any)
	if !ok {
		report.Add(domain.ErrStructural, catalogPath, `"packages" must be an array`)
		return report, nil
	}

	seen := make(map[string]bool, len(packages))
	for _, item := range packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, ok := item.(map[string]any)
		if !ok {
			report.Add(domain.ErrStructural, catalogPath, "invalid package entry (not an object)")
			continue
		}
		id := stringField(pkg, "id")
		if id == "" {
			report.Add(domain.ErrMissingEntry, catalogPath, `package entry missing "id"`)
			continue
		}
		if seen[id] {
			report.Add(domain.ErrStructural, catalogPath, "duplicate package id %s", id)
			continue
		}
		seen[id] = true

		versionsPath := stringField(pkg, "versionsPath")
		if versionsPath == "" {
			report.Add(domain.ErrMissingEntry, catalogPath, `%s missing "versionsPath"`, id)
			continue
		}
		s.validatePackage(ctx, report, domain.PackageID(id), versionsPath)
	}

	logger.Debug("validated %d packages, %d issues", len(seen), len(report.Issues))
	return report, nil
}

func (s *RegistryValidationService) validatePackage(ctx context.Context, report *domain.Report, id domain.PackageID, versionsPath string) {
	raw, err := s.readJSON(ctx, versionsPath)
	if err != nil {
		report.Add(kindOf(err), "", "%v", err)
		return
	}
	index := object(raw)

	if found := index["id"]; found != string(id) {
		report.Add(domain.ErrIDMismatch, versionsPath, "id mismatch (expected %s, found %v)", id, display(found))
	}

	versions, ok := index["versions"].([]any)
	if !ok || len(versions) == 0 {
		report.Add(domain.ErrStructural, versionsPath, "versions array must be non-empty")
		return
	}

	previous := ""
	seen := make(map[string]bool, len(versions))
	for _, item := range versions {
		entry, ok := item.(map[string]any)
		if !ok {
			report.Add(domain.ErrStructural, versionsPath, "invalid version entry (not an object)")
			continue
		}
		version := stringField(entry, "version")
		if version == "" {
			report.Add(domain.ErrMissingEntry, versionsPath, `entry missing "version"`)
			continue
		}
		if seen[version] {
			report.Add(domain.ErrStructural, versionsPath, "duplicate version %s", version)
		}
		seen[version] = true

		if previous != "" && !domain.VersionNotOlder(previous, version) {
			report.Add(domain.ErrOrderingViolation, versionsPath,
				"versions must be ordered newest to oldest (found %s before %s)", previous, version)
		}
		previous = version

		manifestPath := stringField(entry, "manifest")
		if manifestPath == "" {
			manifestPath = id.ManifestPath(version)
		}
		s.validateManifest(ctx, report, id, version, manifestPath)
	}
}

func (s *RegistryValidationService) validateManifest(ctx context.Context, report *domain.Report, id domain.PackageID, version, manifestPath string) {
	raw, err := s.readJSON(ctx, manifestPath)
	if err != nil {
		report.Add(kindOf(err), "", "%v", err)
		return
	}
	manifest := object(raw)

	expected := string(id) + "@" + version
	if found := manifest["id"]; found != expected {
		report.Add(domain.ErrIDMismatch, manifestPath, "id mismatch (expected %s, found %v)", expected, display(found))
	}

	source, ok := manifest["source"].(map[string]any)
	if !ok {
		report.Add(domain.ErrStructural, manifestPath, "missing source metadata")
	} else if source["commit"] == domain.PlaceholderCommit {
		report.Add(domain.ErrCommitMismatch, manifestPath, "source.commit must not be %s", domain.PlaceholderCommit)
	}

	files, ok := manifest["files"].([]any)
	if !ok || len(files) == 0 {
		report.Add(domain.ErrStructural, manifestPath, "files array must be non-empty")
		return
	}
	for _, item := range files {
		file, ok := item.(map[string]any)
		filePath, isString := file["path"].(string)
		if !ok || !isString {
			report.Add(domain.ErrStructural, manifestPath, "invalid file entry (missing path)")
			continue
		}
		if stringField(file, "sha256") == "" {
			report.Add(domain.ErrStructural, manifestPath, "file %s missing sha256", filePath)
		}
	}
}

// readJSON loads and decodes a registry file into generic JSON values so
// wrong types can be reported instead of failing the decode.
func (s *RegistryValidationService) readJSON(ctx context.Context, p string) (any, error) {
	data, err := s.store.ReadFile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w: %v", p, domain.ErrStructural, err)
	}
	return v, nil
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrMissingEntry
	case errors.Is(err, domain.ErrUnresolvedPath):
		return domain.ErrUnresolvedPath
	default:
		return domain.ErrStructural
	}
}

// object returns v as a JSON object, or an empty one.
func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func display(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return strings.TrimSpace(string(b))
	}
}
