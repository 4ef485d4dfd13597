package file

import (
	"os"
	"path/filepath"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// Environment variables overriding repository locations.
const (
	EnvRegistryRoot   = "LCOD_REGISTRY_ROOT"
	EnvComponentsRepo = "COMPONENTS_REPO_PATH"
	EnvSpecRepo       = "SPEC_REPO_PATH"
	EnvKernelRepo     = "KERNEL_REPO_PATH"
)

// Repository describes one collaborating repository to locate.
type Repository struct {
	Name      string
	EnvVar    string
	ConfigKey string
	DirName   string
}

// Collaborating repositories, checked out next to the registry by convention.
var (
	ComponentsRepository = Repository{Name: "components", EnvVar: EnvComponentsRepo, ConfigKey: "paths.components", DirName: "lcod-components"}
	SpecRepository       = Repository{Name: "spec", EnvVar: EnvSpecRepo, ConfigKey: "paths.spec", DirName: "lcod-spec"}
	KernelRepository     = Repository{Name: "kernel", EnvVar: EnvKernelRepo, ConfigKey: "paths.kernel", DirName: "lcod-kernel-js"}
)

// Locator resolves repository roots. The first existing candidate wins:
// explicit override, environment variable, configuration key, then
// fallbacks relative to the registry root.
type Locator struct {
	root   string
	cfg    driven.ConfigStore
	getenv func(string) string
}

// NewLocator creates a locator for the registry at root.
func NewLocator(root string, cfg driven.ConfigStore) *Locator {
	return &Locator{root: root, cfg: cfg, getenv: os.Getenv}
}

// Locate resolves one repository. An empty override is ignored.
func (l *Locator) Locate(repo Repository, override string) domain.RepoLocation {
	loc := domain.RepoLocation{Name: repo.Name}
	for _, candidate := range l.candidates(repo, override) {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		loc.Tried = append(loc.Tried, abs)
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			logger.Debug("%s repository: %s", repo.Name, abs)
			loc.Path = abs
			return loc
		}
		logger.Debug("%s repository candidate missing: %s", repo.Name, abs)
	}
	return loc
}

// Roots resolves every collaborating repository. componentsOverride comes
// from the --components flag.
func (l *Locator) Roots(componentsOverride string) domain.Roots {
	return domain.Roots{
		Registry:   l.root,
		Components: l.Locate(ComponentsRepository, componentsOverride),
		Spec:       l.Locate(SpecRepository, ""),
		Kernel:     l.Locate(KernelRepository, ""),
	}
}

func (l *Locator) candidates(repo Repository, override string) []string {
	var out []string
	if override != "" {
		out = append(out, override)
	}
	if v := l.getenv(repo.EnvVar); v != "" {
		out = append(out, v)
	}
	if l.cfg != nil {
		if v := l.cfg.GetString(repo.ConfigKey); v != "" {
			if !filepath.IsAbs(v) {
				v = filepath.Join(l.root, v)
			}
			out = append(out, v)
		}
	}
	return append(out,
		filepath.Join(l.root, repo.DirName),
		filepath.Join(l.root, "..", repo.DirName),
		filepath.Join(l.root, "..", "..", repo.DirName),
	)
}

// RegistryRoot returns the registry root: flag value, then
// LCOD_REGISTRY_ROOT, then the working directory.
func RegistryRoot(flagValue string) (string, error) {
	root := flagValue
	if root == "" {
		root = os.Getenv(EnvRegistryRoot)
	}
	if root == "" {
		return os.Getwd()
	}
	return filepath.Abs(root)
}
