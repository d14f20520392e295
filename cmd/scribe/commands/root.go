// Package commands implements the CLI commands for scribe.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/adapters/config" //nolint:depguard // Default config filename
	"go.trai.ch/scribe/internal/app"
	"go.trai.ch/scribe/internal/build"
	"go.trai.ch/scribe/internal/core/ports"
)

// logSettings is implemented by loggers whose output can be tuned from flags.
type logSettings interface {
	SetJSON(enabled bool)
	SetLevel(level slog.Level)
}

// CLI represents the command line interface for scribe.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Build versioned documentation into HTML, PDF and EPUB",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to the project configuration")
	rootCmd.PersistentFlags().Bool("verbose", false, "Stream command output and report spans")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().Bool("json", false, "Log in JSON format")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = c.configureLogging

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVariantCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogging(cmd *cobra.Command, _ []string) {
	settings, ok := c.logger.(logSettings)
	if !ok {
		return
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	settings.SetJSON(jsonOutput)
	if quiet {
		settings.SetLevel(slog.LevelWarn)
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
