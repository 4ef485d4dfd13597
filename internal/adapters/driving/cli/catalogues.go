package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-registry/internal/core/domain"
	"github.com/lcod-team/lcod-registry/internal/logger"
)

var cataloguesCmd = &cobra.Command{
	Use:   "catalogues",
	Short: "Maintain the pinned upstream catalogue entry",
	Long: `The catalogue entry (tooling/std by default) pins the registry to a
commit of the lcod-components repository and the checksum of its component
list. It is stored twice: catalogues.json and catalogues.jsonl.`,
}

var cataloguesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate catalogues.json and catalogues.jsonl",
	Long: `Recomputes the checksum of the upstream component list, reads the
current upstream commit and rewrites both catalogue files. Files whose
content would not change are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runCataloguesUpdate,
}

var cataloguesVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the pinned catalogue entry against the upstream repository",
	Long: `Checks that every catalogue file declares the checksum of the current
upstream component list, the current upstream commit and a url embedding
that commit, and that both files agree with each other.`,
	Args: cobra.NoArgs,
	RunE: runCataloguesVerify,
}

func init() {
	cataloguesCmd.AddCommand(cataloguesUpdateCmd)
	cataloguesCmd.AddCommand(cataloguesVerifyCmd)
	rootCmd.AddCommand(cataloguesCmd)
}

func runCataloguesUpdate(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	result, err := a.catalogues.Update(context.Background())
	if err != nil {
		return fmt.Errorf("catalogue update failed: %w", err)
	}

	logger.Info("commit %s, checksum %s", result.Commit, result.Checksum)

	statuses := make([]string, 0, 2)
	changed := false
	for _, enc := range []domain.CatalogueEncoding{domain.EncodingJSON, domain.EncodingJSONL} {
		if result.Changed[enc] {
			statuses = append(statuses, enc.FileName()+" updated")
			changed = true
		} else {
			statuses = append(statuses, enc.FileName()+" up-to-date")
		}
	}
	out := stdout(cmd)
	if changed {
		out.Success("%s", strings.Join(statuses, ", "))
	} else {
		out.Muted("%s", strings.Join(statuses, ", "))
	}
	return nil
}

func runCataloguesVerify(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	verification, err := a.catalogues.Verify(context.Background())
	if err != nil {
		return fmt.Errorf("catalogue verification failed: %w", err)
	}

	files := make([]string, 0, len(verification.Encodings))
	for _, enc := range verification.Encodings {
		files = append(files, enc.FileName())
	}
	stdout(cmd).Success("Catalogue %s verified at commit %s (%s)",
		a.settings.Catalogue.ID, verification.Commit, joinList(files))
	return nil
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		s := items[0]
		for _, item := range items[1 : len(items)-1] {
			s += ", " + item
		}
		return s + " and " + items[len(items)-1]
	}
}
