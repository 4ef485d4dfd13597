package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-registry/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import components from the lcod-components repository",
	Long: `Reads the upstream component list (registry/components.std.json by
default) and writes a manifest, version index entry and catalog entry for
every component, pinned to the upstream commit.

Re-running against an unchanged upstream leaves the registry untouched.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	result, err := a.importer.ImportAll(context.Background())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	out := stdout(cmd)
	if result.Components == 0 {
		out.Warning("No components found in manifest.")
		return nil
	}
	logger.Info("commit %s, %d new package(s)", result.Commit, result.NewPackages)
	out.Success("Imported %d component(s) from %s", result.Imported, result.ManifestPath)
	return nil
}
