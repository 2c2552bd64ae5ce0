package cmd

import (
	"github.com/compozy/releasegate/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd(gate *orchestrator.Gatekeeper) *cobra.Command {
	var checkCIOutput bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the release preconditions without creating anything",
		Long: `Run the release preconditions without creating anything.

Exits 0 when a release is possible: the working tree is clean, the
manifest declares a valid semantic version, and that version is not
already tagged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateCfg := orchestrator.GateConfig{
				CheckOnly: true,
				CIOutput:  checkCIOutput,
			}
			_, err := gate.Execute(cmd.Context(), gateCfg)
			return err
		},
	}

	cmd.Flags().BoolVar(&checkCIOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
