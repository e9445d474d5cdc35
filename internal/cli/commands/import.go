package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapdeck-labs/tapdeck/internal/marva"
	"github.com/tapdeck-labs/tapdeck/internal/startingpoint"
	"github.com/tapdeck-labs/tapdeck/internal/tabular"
	"github.com/tapdeck-labs/tapdeck/internal/workspace"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var (
		format      string
		name        string
		workspaceID string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a profile file into a workspace",
		Long: `Import a CSV/TSV, Marva profile JSON, or starting-points file.

CSV and Marva imports create a fresh workspace. Starting-point imports
replace the starting-point shapes of an existing workspace, so they
require --workspace.

The format is inferred from the file extension and content unless
--format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}

			if format == "" {
				format = inferFormat(args[0], content)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			workspaces := workspace.NewService(cc.Store)

			switch format {
			case "csv":
				result, err := tabular.NewImporter(cc.Store, workspaces).Import(string(content), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported into workspace %s\n", result.WorkspaceID)
				fmt.Fprintf(out, "Shapes created: %d, rows created: %d\n", result.ShapesCreated, result.RowsCreated)
				for _, warning := range result.Warnings {
					fmt.Fprintf(out, "Warning: %s\n", warning)
				}
				if len(result.UnknownNamespaces) > 0 {
					fmt.Fprintf(out, "Unknown namespace prefixes (placeholders created): %s\n",
						strings.Join(result.UnknownNamespaces, ", "))
				}

			case "marva":
				var docs []marva.Document
				if err := json.Unmarshal(content, &docs); err != nil {
					return fmt.Errorf("failed to parse profile JSON: %w", err)
				}
				result, err := marva.NewImporter(cc.Store, workspaces).Import(docs, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported into workspace %s\n", result.WorkspaceID)
				fmt.Fprintf(out, "Shapes created: %d, rows created: %d\n", result.ShapesCreated, result.RowsCreated)

			case "startingpoints":
				if workspaceID == "" {
					return fmt.Errorf("--workspace is required for starting-point imports")
				}
				var docs []startingpoint.Document
				if err := json.Unmarshal(content, &docs); err != nil {
					return fmt.Errorf("failed to parse starting-points JSON: %w", err)
				}
				result, err := startingpoint.NewImporter(cc.Store).Import(workspaceID, docs)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported into workspace %s\n", result.WorkspaceID)
				fmt.Fprintf(out, "Shapes created: %d, rows created: %d\n", result.ShapesCreated, result.RowsCreated)

			default:
				return fmt.Errorf("unknown format %q (want csv, marva, or startingpoints)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format (csv|marva|startingpoints)")
	cmd.Flags().StringVar(&name, "name", "", "Name for the created workspace (default: file name)")
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "Target workspace id (starting-point imports only)")
	return cmd
}

// inferFormat guesses the input format from the file extension, peeking
// at the configType for JSON files.
func inferFormat(path string, content []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return "csv"
	case ".json":
		var docs []struct {
			ConfigType string `json:"configType"`
		}
		if err := json.Unmarshal(content, &docs); err == nil {
			for _, doc := range docs {
				if doc.ConfigType == startingpoint.ConfigType {
					return "startingpoints"
				}
			}
		}
		return "marva"
	}
	return "csv"
}
