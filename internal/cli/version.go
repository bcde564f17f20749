package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"grammateus/internal/version"
)

// addVersionCommand adds the version command
func (app *App) addVersionCommand(rootCmd *cobra.Command) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version of grammateus with build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			detailed, _ := cmd.Flags().GetBool("detailed")
			if detailed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
			}
		},
	}

	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
	rootCmd.AddCommand(versionCmd)
}
