package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/core/domain"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project>",
		Short: "Show the latest recorded build of a project version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			record, err := c.app.Status(configPath(cmd), args[0], version)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}
			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}
	cmd.Flags().String("version", "", "Version to inspect (default: first configured version)")
	return cmd
}

func printRecord(w io.Writer, r *domain.BuildRecord) {
	status := domain.StatusFailed
	if r.Success {
		status = domain.StatusSuccessful
	}
	formats := make([]string, 0, len(r.Formats))
	for _, f := range r.Formats {
		formats = append(formats, string(f))
	}

	_, _ = fmt.Fprintf(w, "build:     %s\n", r.ID)
	_, _ = fmt.Fprintf(w, "project:   %s@%s\n", r.Project, r.Version)
	_, _ = fmt.Fprintf(w, "status:    %s (exit %d)\n", status, r.ExitCode)
	_, _ = fmt.Fprintf(w, "formats:   %s\n", strings.Join(formats, ", "))
	_, _ = fmt.Fprintf(w, "started:   %s\n", r.Timestamp.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "length:    %.1fs\n", r.Length)
}
