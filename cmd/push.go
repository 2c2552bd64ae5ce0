package cmd

import (
	"github.com/compozy/releasegate/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewPushCmd creates the push command
func NewPushCmd(gate *orchestrator.Gatekeeper) *cobra.Command {
	var pushCIOutput bool
	cmd := &cobra.Command{
		Use:   "push [tag]",
		Short: "Retry pushing an already-created release tag",
		Long: `Retry pushing an already-created release tag.

This is the recovery path after a push failure: the tag was created
locally but never reached the remote. Without an argument the tag name
is derived from the manifest version.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tag string
			if len(args) > 0 {
				tag = args[0]
			}
			gateCfg := orchestrator.GateConfig{CIOutput: pushCIOutput}
			return gate.RetryPush(cmd.Context(), gateCfg, tag)
		},
	}

	cmd.Flags().BoolVar(&pushCIOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
