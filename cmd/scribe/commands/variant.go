package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newVariantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variant <project>",
		Short: "Print the HTML builder variant of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := c.app.Variant(configPath(cmd), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), variant)
			return nil
		},
	}
}
