package startingpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapdeck-labs/tapdeck/internal/state"
	"github.com/tapdeck-labs/tapdeck/internal/workspace"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

func newTestImporter(t *testing.T) (*Importer, core.Store, string) {
	t.Helper()

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	ws, err := workspace.NewService(store).Create("test")
	require.NoError(t, err)
	return NewImporter(store), store, ws.ID
}

func menuDoc() Document {
	return Document{
		ID:         "sp-doc",
		Name:       "LC Starting Points",
		ConfigType: ConfigType,
		JSON: []MenuGroup{
			{
				MenuGroup: "Monographs",
				MenuItems: []MenuItem{
					{
						Label:                "Work",
						Type:                 []string{"http://id.loc.gov/ontologies/bibframe/Work"},
						UseResourceTemplates: []string{"lc:RT:bf2:Monograph:Work"},
					},
					{
						Label:                "Instance",
						Type:                 []string{"http://id.loc.gov/ontologies/bibframe/Instance"},
						UseResourceTemplates: []string{"lc:RT:bf2:Monograph:Instance"},
					},
				},
			},
			{
				MenuGroup: "Rare Materials",
				MenuItems: []MenuItem{
					{
						Label:                "Rare Work",
						Type:                 []string{"http://id.loc.gov/ontologies/bibframe/Work"},
						UseResourceTemplates: []string{"lc:RT:bf2:RareMat:Work"},
					},
				},
			},
		},
	}
}

func TestImport_CreatesGroupShapes(t *testing.T) {
	im, store, wsID := newTestImporter(t)

	result, err := im.Import(wsID, []Document{menuDoc()})
	require.NoError(t, err)
	assert.True(t, result.Success)
	// 2 group shapes + the index shape.
	assert.Equal(t, 3, result.ShapesCreated)
	// 3 menu items + 2 index rows.
	assert.Equal(t, 5, result.RowsCreated)

	shape, err := store.GetShape(wsID, "sp:Monographs")
	require.NoError(t, err)
	assert.Equal(t, "Monographs", shape.Label)
	require.NotNil(t, shape.FolderID)
	assert.Equal(t, result.FolderID, *shape.FolderID)

	rows, err := store.ListRows(wsID, "sp:Monographs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.HasPartProperty, rows[0].PropertyID)
	assert.Equal(t, "Work", rows[0].PropertyLabel)
	assert.Equal(t, core.NodeTypeIRI, rows[0].ValueNodeType)
	assert.Equal(t, "lc:RT:bf2:Monograph:Work", rows[0].ValueShape)
	assert.Equal(t, "http://id.loc.gov/ontologies/bibframe/Work", rows[0].ValueConstraint)
	assert.Equal(t, "picklist", rows[0].ValueConstraintType)
}

func TestImport_WhitespaceInGroupName(t *testing.T) {
	im, store, wsID := newTestImporter(t)

	_, err := im.Import(wsID, []Document{menuDoc()})
	require.NoError(t, err)

	shape, err := store.GetShape(wsID, "sp:Rare_Materials")
	require.NoError(t, err)
	assert.Equal(t, "Rare Materials", shape.Label)
}

func TestImport_IndexShape(t *testing.T) {
	im, store, wsID := newTestImporter(t)

	_, err := im.Import(wsID, []Document{menuDoc()})
	require.NoError(t, err)

	rows, err := store.ListRows(wsID, core.StartingPointIndexID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sp:Monographs", rows[0].ValueShape)
	assert.Equal(t, "Monographs", rows[0].PropertyLabel)
	assert.Equal(t, "sp:Rare_Materials", rows[1].ValueShape)
}

func TestImport_OnlyFirstRefAndTypeKept(t *testing.T) {
	im, store, wsID := newTestImporter(t)

	doc := menuDoc()
	doc.JSON = []MenuGroup{{
		MenuGroup: "Multi",
		MenuItems: []MenuItem{{
			Label:                "Work",
			Type:                 []string{"http://t/1", "http://t/2"},
			UseResourceTemplates: []string{"rt:one", "rt:two"},
		}},
	}}

	_, err := im.Import(wsID, []Document{doc})
	require.NoError(t, err)

	rows, err := store.ListRows(wsID, "sp:Multi")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "rt:one", rows[0].ValueShape)
	assert.Equal(t, "http://t/1", rows[0].ValueConstraint)
}

func TestImport_ReimportReplaces(t *testing.T) {
	im, store, wsID := newTestImporter(t)

	_, err := im.Import(wsID, []Document{menuDoc()})
	require.NoError(t, err)

	doc := menuDoc()
	doc.JSON = doc.JSON[:1]
	doc.JSON[0].MenuItems = doc.JSON[0].MenuItems[:1]

	result, err := im.Import(wsID, []Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ShapesCreated)

	rows, err := store.ListRows(wsID, "sp:Monographs")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "old rows do not survive a re-import")

	index, err := store.ListRows(wsID, core.StartingPointIndexID)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, "sp:Monographs", index[0].ValueShape)

	folders, err := store.ListFolders(wsID)
	require.NoError(t, err)
	count := 0
	for _, f := range folders {
		if f.Name == core.StartingPointFolder {
			count++
		}
	}
	assert.Equal(t, 1, count, "reserved folder is reused, not duplicated")
}

func TestImport_NoConfig(t *testing.T) {
	im, _, wsID := newTestImporter(t)

	_, err := im.Import(wsID, []Document{{ConfigType: "profile"}})
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestImport_NoGroups(t *testing.T) {
	im, _, wsID := newTestImporter(t)

	_, err := im.Import(wsID, []Document{{ConfigType: ConfigType}})
	assert.ErrorIs(t, err, ErrNoGroups)
}
