package cmd

import (
	"github.com/compozy/releasegate/internal/config"
	"github.com/compozy/releasegate/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewReleaseCmd creates the release command
func NewReleaseCmd(gate *orchestrator.Gatekeeper, cfg *config.Config) *cobra.Command {
	var (
		releaseDryRun   bool
		releaseSkipPush bool
		releaseCIOutput bool
		releaseJournal  bool
	)
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Validate preconditions, then create and push the release tag",
		Long: `Validate preconditions, then create and push the release tag.

The gate runs a linear pipeline:
- Checks that the working tree is clean
- Reads the declared version from the project manifest
- Checks that the version is not already tagged
- Creates the tag locally
- Pushes the tag to the configured remote

A push failure after successful tag creation keeps the local tag;
retry the publish alone with 'releasegate push'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateCfg := orchestrator.GateConfig{
				DryRun:   releaseDryRun,
				SkipPush: releaseSkipPush,
				CIOutput: releaseCIOutput,
				Journal:  releaseJournal || cfg.JournalEnabled,
			}
			_, err := gate.Execute(cmd.Context(), gateCfg)
			return err
		},
	}

	cmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "Run all checks without creating or pushing a tag")
	cmd.Flags().BoolVar(&releaseSkipPush, "skip-push", false, "Create the tag locally without pushing it")
	cmd.Flags().BoolVar(&releaseCIOutput, "ci-output", false, "Output in CI-friendly format")
	cmd.Flags().BoolVar(&releaseJournal, "journal", false, "Persist a run record for auditing")
	return cmd
}
