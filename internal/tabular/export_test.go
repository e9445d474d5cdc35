package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapdeck-labs/tapdeck/internal/state"
	"github.com/tapdeck-labs/tapdeck/internal/workspace"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

func newTestExporter(t *testing.T) (*Exporter, core.Store, string) {
	t.Helper()

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	ws, err := workspace.NewService(store).Create("test")
	require.NoError(t, err)
	return NewExporter(store), store, ws.ID
}

func TestExport_Header(t *testing.T) {
	ex, _, wsID := newTestExporter(t)

	out, err := ex.Export(wsID, Comma)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t,
		"shapeID,shapeLabel,resourceURI,propertyID,propertyLabel,mandatory,repeatable,"+
			"valueNodeType,valueDataType,valueShape,valueConstraint,valueConstraintType,"+
			"note,lcDefaultLiteral,lcDefaultURI,lcDataTypeURI,lcRemark",
		lines[0])
}

func TestExport_FirstRowOnlyCarriesIdentity(t *testing.T) {
	ex, store, wsID := newTestExporter(t)

	_, err := store.CreateShape(wsID, &core.Shape{ShapeID: "Person", Label: "A Person", ResourceURI: "bf:Person"})
	require.NoError(t, err)
	_, err = store.CreateRow(wsID, "Person", &core.StatementRow{RowOrder: 0, PropertyID: "dcterms:title", PropertyLabel: "Title"})
	require.NoError(t, err)
	_, err = store.CreateRow(wsID, "Person", &core.StatementRow{RowOrder: 1, PropertyID: "dcterms:description", PropertyLabel: "Description"})
	require.NoError(t, err)

	out, err := ex.Export(wsID, Comma)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	first := parseLine(lines[1], Comma)
	assert.Equal(t, "Person", first[0])
	assert.Equal(t, "A Person", first[1])
	assert.Equal(t, "bf:Person", first[2])
	assert.Equal(t, "dcterms:title", first[3])

	second := parseLine(lines[2], Comma)
	assert.Equal(t, "", second[0], "identity cells empty after first row")
	assert.Equal(t, "", second[1])
	assert.Equal(t, "", second[2])
	assert.Equal(t, "dcterms:description", second[3])
}

func TestExport_EmptyShapeEmitsOneRow(t *testing.T) {
	ex, store, wsID := newTestExporter(t)

	_, err := store.CreateShape(wsID, &core.Shape{ShapeID: "Empty", Label: "Empty Shape"})
	require.NoError(t, err)

	out, err := ex.Export(wsID, Comma)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	cells := parseLine(lines[1], Comma)
	assert.Equal(t, "Empty", cells[0])
	assert.Equal(t, "Empty Shape", cells[1])
	for _, cell := range cells[3:] {
		assert.Equal(t, "", cell)
	}
}

func TestExport_ValueShapeNewlinesToPipes(t *testing.T) {
	ex, store, wsID := newTestExporter(t)

	_, err := store.CreateShape(wsID, &core.Shape{ShapeID: "Person"})
	require.NoError(t, err)
	_, err = store.CreateRow(wsID, "Person", &core.StatementRow{
		PropertyID:      "bf:agent",
		ValueShape:      "ShapeA\nShapeB",
		ValueConstraint: "http://a\nhttp://b",
		LCDefaultURI:    "http://x\nhttp://y",
	})
	require.NoError(t, err)

	out, err := ex.Export(wsID, Comma)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Embedded newlines in lcDefaultURI stay literal, so the logical row
	// spans two physical lines inside its quoted cell.
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, out, "ShapeA | ShapeB")
	assert.Contains(t, out, "http://a | http://b")
	assert.Contains(t, out, "\"http://x\nhttp://y\"")
}

func TestExport_TSVDelimiter(t *testing.T) {
	ex, store, wsID := newTestExporter(t)

	_, err := store.CreateShape(wsID, &core.Shape{ShapeID: "Person", Label: "With, Comma"})
	require.NoError(t, err)

	out, err := ex.Export(wsID, Tab)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	cells := parseLine(lines[1], Tab)
	assert.Equal(t, "With, Comma", cells[1], "comma needs no quoting in TSV")
	assert.Contains(t, lines[0], "shapeID\tshapeLabel")
}

func TestExport_EscapesDelimiterInCells(t *testing.T) {
	ex, store, wsID := newTestExporter(t)

	_, err := store.CreateShape(wsID, &core.Shape{ShapeID: "Person"})
	require.NoError(t, err)
	_, err = store.CreateRow(wsID, "Person", &core.StatementRow{
		PropertyID:    "dcterms:title",
		PropertyLabel: `Main, "primary" title`,
	})
	require.NoError(t, err)

	out, err := ex.Export(wsID, Comma)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	cells := parseLine(lines[1], Comma)
	assert.Equal(t, `Main, "primary" title`, cells[4])
}

func TestRoundTrip_PlainShapes(t *testing.T) {
	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	svc := workspace.NewService(store)
	im := NewImporter(store, svc)
	ex := NewExporter(store)

	csv := "shapeID,shapeLabel,propertyID,propertyLabel,mandatory,repeatable,valueNodeType\n" +
		"Person,A Person,dcterms:title,Title,true,false,literal\n" +
		",,dcterms:description,Description,false,true,literal\n" +
		"Book,A Book,dcterms:creator,Creator,,,IRI\n"

	first, err := im.Import(csv, "first")
	require.NoError(t, err)

	exported, err := ex.Export(first.WorkspaceID, Comma)
	require.NoError(t, err)

	second, err := im.Import(exported, "second")
	require.NoError(t, err)

	origShapes, err := store.ListShapes(first.WorkspaceID)
	require.NoError(t, err)
	reShapes, err := store.ListShapes(second.WorkspaceID)
	require.NoError(t, err)
	require.Equal(t, len(origShapes), len(reShapes))

	for i, orig := range origShapes {
		assert.Equal(t, orig.ShapeID, reShapes[i].ShapeID)
		assert.Equal(t, orig.Label, reShapes[i].Label)

		origRows, err := store.ListRows(first.WorkspaceID, orig.ShapeID)
		require.NoError(t, err)
		reRows, err := store.ListRows(second.WorkspaceID, orig.ShapeID)
		require.NoError(t, err)
		require.Equal(t, len(origRows), len(reRows))

		for j := range origRows {
			assert.Equal(t, origRows[j].PropertyID, reRows[j].PropertyID)
			assert.Equal(t, origRows[j].PropertyLabel, reRows[j].PropertyLabel)
			assert.Equal(t, origRows[j].Mandatory, reRows[j].Mandatory)
			assert.Equal(t, origRows[j].Repeatable, reRows[j].Repeatable)
			assert.Equal(t, origRows[j].ValueNodeType, reRows[j].ValueNodeType)
		}
	}
}
