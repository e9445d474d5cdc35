package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapdeck-labs/tapdeck/internal/marva"
	"github.com/tapdeck-labs/tapdeck/internal/startingpoint"
	"github.com/tapdeck-labs/tapdeck/internal/tabular"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <workspace-id>",
		Short: "Export a workspace to a profile file",
		Long: `Export a workspace as CSV, TSV, Marva profile JSON, or a
starting-points file. Output goes to stdout unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			workspaceID := args[0]
			var content []byte

			switch format {
			case "csv", "tsv":
				delim := tabular.Comma
				if format == "tsv" {
					delim = tabular.Tab
				}
				rendered, err := tabular.NewExporter(cc.Store).Export(workspaceID, delim)
				if err != nil {
					return err
				}
				content = []byte(rendered)

			case "marva":
				docs, err := marva.NewExporter(cc.Store).Export(workspaceID)
				if err != nil {
					return err
				}
				if content, err = json.MarshalIndent(docs, "", "  "); err != nil {
					return err
				}

			case "startingpoints":
				doc, err := startingpoint.NewExporter(cc.Store).Export(workspaceID)
				if err != nil {
					return err
				}
				if doc == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to export: workspace has no starting points")
					return nil
				}
				if content, err = json.MarshalIndent([]startingpoint.Document{*doc}, "", "  "); err != nil {
					return err
				}

			default:
				return fmt.Errorf("unknown format %q (want csv, tsv, marva, or startingpoints)", format)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			return os.WriteFile(output, content, 0o644)
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv|tsv|marva|startingpoints)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
