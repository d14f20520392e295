package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [projects...]",
		Short: "Build project documentation",
		Long: "Build every configured version of the given projects. " +
			"With no projects, or \"all\", every project is built.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, _ := cmd.Flags().GetStringSlice("version")
			force, _ := cmd.Flags().GetBool("force")
			parallel, _ := cmd.Flags().GetInt("parallel")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			verbose, _ := cmd.Flags().GetBool("verbose")

			_, err := c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath:  configPath(cmd),
				Projects:    args,
				Versions:    versions,
				Force:       force,
				Parallelism: parallel,
				MetricsFile: metricsFile,
				Verbose:     verbose,
			})
			return err
		},
	}
	cmd.Flags().StringSlice("version", nil, "Versions to build (default: every configured version)")
	cmd.Flags().BoolP("force", "f", false, "Rebuild from a fresh generator environment")
	cmd.Flags().IntP("parallel", "j", 0, "Maximum concurrent builds (default: number of CPUs)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	return cmd
}
