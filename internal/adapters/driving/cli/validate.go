package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-registry/internal/core/ports/driving"
)

// errValidationFailed is returned after the issues have been printed.
var errValidationFailed = errors.New("registry validation failed")

var watchFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate catalog, version indices and manifests",
	Long: `Walks catalog.json, every package's versions.json and every manifest,
reporting all structural problems in one pass: missing files, id mismatches,
versions not ordered newest to oldest, placeholder commits and manifests
without file digests.

With --watch, validation re-runs whenever files under the registry change.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-validate when registry files change")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if !watchFlag {
		return validateOnce(context.Background(), cmd, a.validator)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = validateOnce(ctx, cmd, a.validator)
	stdout(cmd).Muted("Watching %s for changes (Ctrl+C to stop)", a.store.Root())
	return watchRegistry(ctx, a.store.Root(), func() {
		_ = validateOnce(ctx, cmd, a.validator)
	})
}

// validateOnce runs a full validation and prints the outcome.
func validateOnce(ctx context.Context, cmd *cobra.Command, validator driving.RegistryValidator) error {
	report, err := validator.Validate(ctx)
	if err != nil {
		return fmt.Errorf("validation aborted: %w", err)
	}

	if report.OK() {
		stdout(cmd).Success("Registry validation passed.")
		return nil
	}

	diag := stderr(cmd)
	diag.Error("Registry validation failed:")
	for _, issue := range report.Issues {
		diag.Plain("  - %s", issue.Error())
	}
	stdout(cmd).Error("%d issue(s) found.", len(report.Issues))
	return errValidationFailed
}
