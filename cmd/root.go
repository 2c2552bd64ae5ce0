package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "releasegate",
	Short: "A release gatekeeper for version-tagged releases",
	Long: `releasegate validates repository state and version metadata before
creating and pushing an immutable release tag.`,
}

func Execute() error {
	return rootCmd.Execute()
}
