package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapdeck-labs/tapdeck/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testRoot builds a minimal root wiring a command to a temp database, the
// way the real root command does.
func testRoot(t *testing.T, sub *cobra.Command, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	root := &cobra.Command{
		Use: "tapdeck",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &config.Config{
				Database:   dbPath,
				ListenAddr: config.DefaultListenAddr,
				LockFile:   config.DefaultLockFile,
				LogLevel:   "error",
			}
			cmd.SetContext(WithDeps(cmd.Context(), cfg, testLogger()))
			return nil
		},
		SilenceUsage: true,
	}
	root.AddCommand(sub)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	return root, buf
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "today", "abc123")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "tapdeck v1.2.3")
	assert.Contains(t, buf.String(), "abc123")
}

func TestWorkspacesCreateAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")
	run := func(args ...string) string {
		root := &cobra.Command{
			Use: "tapdeck",
			PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
				cmd.SetContext(WithDeps(cmd.Context(),
					&config.Config{Database: dbPath, LogLevel: "error"}, testLogger()))
				return nil
			},
			SilenceUsage: true,
		}
		root.AddCommand(NewWorkspacesCommand())
		buf := new(bytes.Buffer)
		root.SetOut(buf)
		root.SetErr(buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	out := run("workspaces", "create", "my profiles")
	assert.Contains(t, out, "Created workspace")

	out = run("workspaces", "list")
	assert.Contains(t, out, "my profiles")
}

func TestImportCommand_CSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "shapes.csv")
	require.NoError(t, os.WriteFile(csvPath,
		[]byte("shapeID,propertyID,propertyLabel\nPerson,dcterms:title,Title\n"), 0o644))

	root, buf := testRoot(t, NewImportCommand(), "import", csvPath)
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Shapes created: 1, rows created: 1")
}

func TestImportCommand_StartingPointsRequiresWorkspace(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "sp.json")
	doc := []map[string]any{{
		"configType": "startingPoints",
		"json": []map[string]any{{
			"menuGroup": "Works",
			"menuItems": []map[string]any{{"label": "Work"}},
		}},
	}}
	content, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, content, 0o644))

	root, _ := testRoot(t, NewImportCommand(), "import", jsonPath)
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--workspace is required")
}

func TestInferFormat(t *testing.T) {
	assert.Equal(t, "csv", inferFormat("shapes.csv", nil))
	assert.Equal(t, "csv", inferFormat("shapes.TSV", nil))
	assert.Equal(t, "marva",
		inferFormat("p.json", []byte(`[{"configType":"profile"}]`)))
	assert.Equal(t, "startingpoints",
		inferFormat("sp.json", []byte(`[{"configType":"startingPoints"}]`)))
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	root, _ := testRoot(t, NewExportCommand(), "export", "ws-1", "--format", "xml")
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
