package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <package-id>",
	Short: "Show a package's catalog entry and versions",
	Long: `Prints the catalog entry, the published versions (newest first) and the
package-url of a registry package, e.g.

  lcod-registry show lcod://tooling/log`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id := domain.PackageID(args[0])
	if err := id.Validate(); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var catalog domain.Catalog
	if err := readRegistryJSON(ctx, a, "catalog.json", &catalog); err != nil {
		return err
	}
	entry, ok := catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s is not in catalog.json", domain.ErrNotFound, id)
	}

	var index domain.VersionIndex
	if err := readRegistryJSON(ctx, a, entry.VersionsPath, &index); err != nil {
		return err
	}

	out := stdout(cmd)
	out.Title("%s", entry.ID)
	out.Plain("  Registry: %s", entry.RegistryID)
	out.Plain("  Index:    %s", entry.VersionsPath)
	if latest, ok := index.Latest(); ok {
		out.Plain("  PURL:     %s", packageURL(id, latest.Version))
	}
	out.Plain("  Versions:")
	for i, v := range index.Versions {
		if i == 0 {
			out.Success("    %s (latest)", v.Version)
			continue
		}
		out.Plain("    %s", v.Version)
	}
	return nil
}

func readRegistryJSON(ctx context.Context, a *app, p string, v any) error {
	data, err := a.store.ReadFile(ctx, p)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, p)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrStructural, p, err)
	}
	return nil
}

// packageURL renders a registry package as a generic package-url:
// lcod://tooling/log@1.0.0 becomes pkg:generic/tooling/log@1.0.0?scheme=lcod.
func packageURL(id domain.PackageID, version string) string {
	segments := id.Segments()
	name := segments[len(segments)-1]
	namespace := strings.Join(segments[:len(segments)-1], "/")
	qualifiers := packageurl.QualifiersFromMap(map[string]string{"scheme": id.Scheme()})
	return packageurl.NewPackageURL(packageurl.TypeGeneric, namespace, name, version, qualifiers, "").ToString()
}
