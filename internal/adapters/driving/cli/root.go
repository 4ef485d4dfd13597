// Package cli implements the lcod-registry command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/lcod-team/lcod-registry/internal/adapters/driven/config/file"
	"github.com/lcod-team/lcod-registry/internal/adapters/driven/git"
	storagefile "github.com/lcod-team/lcod-registry/internal/adapters/driven/storage/file"
	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driven"
	"github.com/lcod-team/lcod-registry/internal/core/ports/driving"
	"github.com/lcod-team/lcod-registry/internal/core/services"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	rootFlag       string
	verboseFlag    bool
	componentsFlag string
)

// newRevisionResolver is replaced in tests.
var newRevisionResolver = func() driven.RevisionResolver {
	return git.NewRevisionResolver()
}

var rootCmd = &cobra.Command{
	Use:   "lcod-registry",
	Short: "Maintain the LCOD component registry",
	Long: `lcod-registry imports components from the lcod-components repository,
keeps the pinned catalogue pointer up to date and validates the registry
structure (catalog, version indices and manifests).

The registry root defaults to the working directory; override it with
--root or LCOD_REGISTRY_ROOT.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlag, "root", "", "registry root directory (default: $LCOD_REGISTRY_ROOT or working directory)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "print diagnostic output to stderr")
	flags.StringVar(&componentsFlag, "components", "", "path to the lcod-components checkout")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// app holds the adapters and services for one command invocation.
type app struct {
	roots    domain.Roots
	settings domain.Settings
	store    driven.RegistryStore

	importer   driving.Importer
	validator  driving.RegistryValidator
	catalogues driving.CatalogueService
}

// loadApp resolves the registry root, configuration and collaborating
// repositories, then wires the services.
func loadApp() (*app, error) {
	root, err := configfile.RegistryRoot(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("resolving registry root: %w", err)
	}

	cfg, err := configfile.NewConfigStore(root)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", configfile.ConfigFileName, err)
	}
	settings := configfile.SettingsFromConfig(cfg)

	logger.Section("Roots")
	roots := configfile.NewLocator(root, cfg).Roots(componentsFlag)

	store := storagefile.NewRegistryStore(root)
	resolver := newRevisionResolver()

	return &app{
		roots:      roots,
		settings:   settings,
		store:      store,
		importer:   services.NewImportService(store, resolver, roots, settings),
		validator:  services.NewRegistryValidationService(store),
		catalogues: services.NewCatalogueService(store, resolver, roots, settings),
	}, nil
}
