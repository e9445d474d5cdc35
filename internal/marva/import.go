package marva

import (
	"fmt"

	"github.com/tapdeck-labs/tapdeck/internal/classify"
	"github.com/tapdeck-labs/tapdeck/internal/multival"
	"github.com/tapdeck-labs/tapdeck/internal/nsmap"
	"github.com/tapdeck-labs/tapdeck/internal/workspace"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Result reports the outcome of a profile import. ShapesCreated counts the
// profile shape plus all resource templates; RowsCreated counts property
// rows plus hasPart link rows, across all input documents.
type Result struct {
	Success       bool     `json:"success"`
	WorkspaceID   string   `json:"workspaceId"`
	ShapesCreated int      `json:"shapesCreated"`
	RowsCreated   int      `json:"rowsCreated"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Importer converts profile documents into a fresh workspace.
type Importer struct {
	store      core.Store
	workspaces *workspace.Service
}

// NewImporter creates a Marva profile importer.
func NewImporter(store core.Store, workspaces *workspace.Service) *Importer {
	return &Importer{store: store, workspaces: workspaces}
}

// Import creates one new workspace holding every document's profile shape,
// resource-template shapes, and rows. The workspace gets the extension
// columns enabled because profile documents populate the LC fields.
//
// Creation is in-order and not rolled back on a later failure.
func (im *Importer) Import(docs []Document, workspaceName string) (*Result, error) {
	ws, err := im.workspaces.Create(workspaceName)
	if err != nil {
		return nil, err
	}

	if err := im.store.UpdateOptions(ws.ID, core.WorkspaceOptions{UseExtensionColumns: true}); err != nil {
		return nil, err
	}

	namespaces, err := im.store.ListNamespaces(ws.ID)
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, WorkspaceID: ws.ID}
	folders := newFolderCache(im.store, ws.ID)

	for _, doc := range docs {
		if err := im.importDocument(ws.ID, doc, namespaces, folders, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (im *Importer) importDocument(workspaceID string, doc Document, namespaces []*core.Namespace, folders *folderCache, result *Result) error {
	profile := doc.JSON.Profile

	profileShapeID := profile.ID
	if profileShapeID == "" {
		return fmt.Errorf("profile document %s has no profile id", doc.ID)
	}

	profileFolder, err := folders.idFor(profileShapeID)
	if err != nil {
		return err
	}

	_, err = im.store.CreateShape(workspaceID, &core.Shape{
		ShapeID:     profileShapeID,
		Label:       profile.Title,
		Description: profile.Description,
		FolderID:    profileFolder,
	})
	if err != nil {
		return err
	}
	result.ShapesCreated++

	for _, rt := range profile.ResourceTemplates {
		if err := im.importResourceTemplate(workspaceID, rt, namespaces, folders, result); err != nil {
			return err
		}
	}

	// Link every resource template from the profile shape, in the order
	// they were processed.
	for i, rt := range profile.ResourceTemplates {
		_, err := im.store.CreateRow(workspaceID, profileShapeID, &core.StatementRow{
			RowOrder:      i,
			PropertyID:    core.HasPartProperty,
			PropertyLabel: core.HasShapeLabel,
			ValueNodeType: core.NodeTypeBNode,
			ValueShape:    rt.ID,
		})
		if err != nil {
			return err
		}
		result.RowsCreated++
	}

	return nil
}

func (im *Importer) importResourceTemplate(workspaceID string, rt ResourceTemplate, namespaces []*core.Namespace, folders *folderCache, result *Result) error {
	folderID, err := folders.idFor(rt.ID)
	if err != nil {
		return err
	}

	_, err = im.store.CreateShape(workspaceID, &core.Shape{
		ShapeID:     rt.ID,
		Label:       rt.ResourceLabel,
		Description: rt.Remark,
		ResourceURI: nsmap.Compress(rt.ResourceURI, namespaces),
		FolderID:    folderID,
	})
	if err != nil {
		return err
	}
	result.ShapesCreated++

	for i, pt := range rt.PropertyTemplates {
		row := propertyToRow(pt, namespaces)
		row.RowOrder = i
		if _, err := im.store.CreateRow(workspaceID, rt.ID, row); err != nil {
			return err
		}
		result.RowsCreated++
	}

	return nil
}

// propertyToRow converts one property template to a statement row. The
// mapping is reproduced exactly from the source system; see the export
// side for the inverse.
func propertyToRow(pt PropertyTemplate, namespaces []*core.Namespace) *core.StatementRow {
	row := &core.StatementRow{
		PropertyID:    nsmap.Compress(pt.PropertyURI, namespaces),
		PropertyLabel: pt.PropertyLabel,
		Mandatory:     pt.Mandatory,
		LCRemark:      pt.Remark,
	}

	vc := pt.ValueConstraint

	row.Repeatable = pt.Repeatable
	if row.Repeatable == "" && vc != nil && vc.Repeatable != "" {
		row.Repeatable = vc.Repeatable
	}
	if row.Repeatable == "" {
		row.Repeatable = "false"
	}

	switch {
	case pt.Type == TypeLiteral:
		row.ValueNodeType = core.NodeTypeLiteral
	case (pt.Type == TypeResource || pt.Type == TypeList) && vc != nil && len(vc.ValueTemplateRefs) > 0:
		row.ValueNodeType = core.NodeTypeBNode
		row.ValueShape = multival.Encode(flatten(vc.ValueTemplateRefs))
	case pt.Type == TypeLookup && vc != nil && len(vc.UseValuesFrom) > 0:
		row.ValueConstraintType = "IRIstem"
		row.ValueConstraint = multival.Encode(flatten(vc.UseValuesFrom))
	}

	if vc != nil {
		if vc.ValueDataType != nil && vc.ValueDataType.DataTypeURI != "" {
			row.LCDataTypeURI = nsmap.Compress(vc.ValueDataType.DataTypeURI, namespaces)
		}

		if len(vc.Defaults) > 0 {
			var literals, uris []string
			for _, def := range vc.Defaults {
				if def.DefaultLiteral != "" {
					literals = append(literals, def.DefaultLiteral)
				}
				if def.DefaultURI != "" {
					uris = append(uris, def.DefaultURI)
				}
			}
			row.LCDefaultLiteral = multival.Encode(literals)
			row.LCDefaultURI = multival.Encode(uris)
		}
	}

	return row
}

// flatten splits each element through the multi-value codec and joins the
// results: a single ref entry may itself be a comma-separated string.
func flatten(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, multival.Decode(v)...)
	}
	return out
}

// folderCache creates folders on demand, keyed by the classifier's folder
// name for a shape id, and reuses them across one import.
type folderCache struct {
	store       core.Store
	workspaceID string
	byName      map[string]int64
	loaded      bool
}

func newFolderCache(store core.Store, workspaceID string) *folderCache {
	return &folderCache{
		store:       store,
		workspaceID: workspaceID,
		byName:      make(map[string]int64),
	}
}

// idFor returns the folder id for a shape id, creating the folder when the
// classifier names one that does not exist yet. Returns nil when the id
// does not classify.
func (fc *folderCache) idFor(shapeID string) (*int64, error) {
	name := classify.FolderFor(shapeID)
	if name == "" {
		return nil, nil
	}

	if !fc.loaded {
		existing, err := fc.store.ListFolders(fc.workspaceID)
		if err != nil {
			return nil, err
		}
		for _, f := range existing {
			fc.byName[f.Name] = f.ID
		}
		fc.loaded = true
	}

	if id, ok := fc.byName[name]; ok {
		return &id, nil
	}

	folder, err := fc.store.CreateFolder(fc.workspaceID, name)
	if err != nil {
		return nil, err
	}
	fc.byName[name] = folder.ID
	id := folder.ID
	return &id, nil
}
