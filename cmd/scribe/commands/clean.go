package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build records and project outputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _ := cmd.Flags().GetBool("records")
			outputs, _ := cmd.Flags().GetBool("outputs")
			all, _ := cmd.Flags().GetBool("all")

			if !records && !outputs && !all {
				// Default to cleaning records
				records = true
			}

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigPath: configPath(cmd),
				Records:    records || all,
				Outputs:    outputs || all,
			})
		},
	}
	cmd.Flags().Bool("records", false, "Remove the build record store")
	cmd.Flags().Bool("outputs", false, "Remove every project's output directory")
	cmd.Flags().Bool("all", false, "Remove records and outputs")
	return cmd
}
