package startingpoint

import (
	"errors"
	"strings"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Input-malformed errors, checked before any store mutation.
var (
	// ErrNoConfig means no element of the input array carried the
	// starting-points configType.
	ErrNoConfig = errors.New("no startingPoints config found")
	// ErrNoGroups means the config's group list was empty.
	ErrNoGroups = errors.New("no menu groups found")
)

// Result reports the outcome of a starting-point import. Counts include
// the synthetic index shape and its rows.
type Result struct {
	Success       bool   `json:"success"`
	WorkspaceID   string `json:"workspaceId"`
	ShapesCreated int    `json:"shapesCreated"`
	RowsCreated   int    `json:"rowsCreated"`
	FolderID      int64  `json:"folderId"`
}

// Importer loads starting-point menus into an existing workspace.
type Importer struct {
	store core.Store
}

// NewImporter creates a starting-point importer.
func NewImporter(store core.Store) *Importer {
	return &Importer{store: store}
}

// Import replaces the workspace's starting-point shapes with the groups of
// the input's startingPoints element. Re-importing a group whose shape
// already exists deletes and recreates it (full replace, never a merge),
// and the index shape is always rebuilt from scratch.
func (im *Importer) Import(workspaceID string, docs []Document) (*Result, error) {
	var config *Document
	for i := range docs {
		if docs[i].ConfigType == ConfigType {
			config = &docs[i]
			break
		}
	}
	if config == nil {
		return nil, ErrNoConfig
	}
	if len(config.JSON) == 0 {
		return nil, ErrNoGroups
	}

	folderID, err := im.reservedFolder(workspaceID)
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, WorkspaceID: workspaceID, FolderID: folderID}

	type createdGroup struct {
		shapeID string
		label   string
	}
	var groups []createdGroup

	for _, group := range config.JSON {
		shapeID := GroupShapeID(group.MenuGroup)

		// Full replace: drop any existing shape with this id first.
		if _, err := im.store.DeleteShape(workspaceID, shapeID); err != nil {
			return nil, err
		}

		_, err := im.store.CreateShape(workspaceID, &core.Shape{
			ShapeID:  shapeID,
			Label:    group.MenuGroup,
			FolderID: &folderID,
		})
		if err != nil {
			return nil, err
		}
		result.ShapesCreated++

		for i, item := range group.MenuItems {
			row := &core.StatementRow{
				RowOrder:            i,
				PropertyID:          core.HasPartProperty,
				PropertyLabel:       item.Label,
				ValueNodeType:       core.NodeTypeIRI,
				ValueConstraintType: "picklist",
			}
			// Only the first ref and type survive; extras are dropped.
			if len(item.UseResourceTemplates) > 0 {
				row.ValueShape = item.UseResourceTemplates[0]
			}
			if len(item.Type) > 0 {
				row.ValueConstraint = item.Type[0]
			}

			if _, err := im.store.CreateRow(workspaceID, shapeID, row); err != nil {
				return nil, err
			}
			result.RowsCreated++
		}

		groups = append(groups, createdGroup{shapeID: shapeID, label: group.MenuGroup})
	}

	// Rebuild the index shape: one ordering row per group, in processing
	// order.
	if _, err := im.store.DeleteShape(workspaceID, core.StartingPointIndexID); err != nil {
		return nil, err
	}
	_, err = im.store.CreateShape(workspaceID, &core.Shape{
		ShapeID:  core.StartingPointIndexID,
		Label:    "Starting Points Index",
		FolderID: &folderID,
	})
	if err != nil {
		return nil, err
	}
	result.ShapesCreated++

	for i, group := range groups {
		_, err := im.store.CreateRow(workspaceID, core.StartingPointIndexID, &core.StatementRow{
			RowOrder:      i,
			PropertyID:    core.HasPartProperty,
			PropertyLabel: group.label,
			ValueShape:    group.shapeID,
		})
		if err != nil {
			return nil, err
		}
		result.RowsCreated++
	}

	return result, nil
}

// reservedFolder finds or creates the "Starting Points" folder, keyed by
// name so repeated imports reuse it.
func (im *Importer) reservedFolder(workspaceID string) (int64, error) {
	folders, err := im.store.ListFolders(workspaceID)
	if err != nil {
		return 0, err
	}
	for _, f := range folders {
		if f.Name == core.StartingPointFolder {
			return f.ID, nil
		}
	}

	folder, err := im.store.CreateFolder(workspaceID, core.StartingPointFolder)
	if err != nil {
		return 0, err
	}
	return folder.ID, nil
}

// GroupShapeID derives the reserved shape id for a menu group name: the
// reserved prefix plus the name with every whitespace character replaced
// by an underscore.
func GroupShapeID(groupName string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return '_'
		}
		return r
	}, groupName)
	return core.StartingPointPrefix + mapped
}
