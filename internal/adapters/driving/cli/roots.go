package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Print the resolved registry and repository locations",
	Long: `Prints the registry root and where the components, spec and kernel
repositories were found. Locations are resolved from, in order: the
--components flag, COMPONENTS_REPO_PATH / SPEC_REPO_PATH / KERNEL_REPO_PATH,
the [paths] table of lcod-registry.toml, then sibling directories of the
registry.`,
	Args: cobra.NoArgs,
	RunE: runRoots,
}

func init() {
	rootCmd.AddCommand(rootsCmd)
}

func runRoots(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	out := stdout(cmd)
	out.Plain("registry:   %s", a.roots.Registry)
	for _, loc := range []domain.RepoLocation{a.roots.Components, a.roots.Spec, a.roots.Kernel} {
		label := loc.Name + ":"
		if loc.Found() {
			out.Plain("%-11s %s", label, loc.Path)
			continue
		}
		out.Warning("%-11s not found (tried %s)", label, strings.Join(loc.Tried, ", "))
	}
	return nil
}
