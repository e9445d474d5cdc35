package marva

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tapdeck-labs/tapdeck/internal/classify"
	"github.com/tapdeck-labs/tapdeck/internal/multival"
	"github.com/tapdeck-labs/tapdeck/internal/nsmap"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Exporter renders a workspace as profile documents.
type Exporter struct {
	store core.Store
}

// NewExporter creates a Marva profile exporter.
func NewExporter(store core.Store) *Exporter {
	return &Exporter{store: store}
}

// Export builds one document per profile shape, each wrapping its linked
// resource templates in link order. Starting-point shapes (by naming
// convention or by membership in the reserved folder) are structural
// metadata and never exported here.
//
// When no shape classifies as a profile but shapes exist, a single
// fallback document wraps every shape as a resource template so data
// survives even without the hasPart convention.
func (ex *Exporter) Export(workspaceID string) ([]Document, error) {
	ws, err := ex.store.GetWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	namespaces, err := ex.store.ListNamespaces(workspaceID)
	if err != nil {
		return nil, err
	}

	shapes, err := ex.exportableShapes(workspaceID)
	if err != nil {
		return nil, err
	}

	rowsByShape := make(map[string][]*core.StatementRow, len(shapes))
	shapesByID := make(map[string]*core.Shape, len(shapes))
	for _, shape := range shapes {
		rows, err := ex.store.ListRows(workspaceID, shape.ShapeID)
		if err != nil {
			return nil, err
		}
		rowsByShape[shape.ShapeID] = rows
		shapesByID[shape.ShapeID] = shape
	}

	kinds := classify.Shapes(shapes, rowsByShape)

	var docs []Document
	for _, shape := range shapes {
		kind := kinds[shape.ShapeID]
		if kind.Tag != core.KindProfileContainer {
			continue
		}

		profile := Profile{
			ID:          shape.ShapeID,
			Title:       labelOrID(shape),
			Description: shape.Description,
		}
		for _, rtID := range kind.Links {
			rtShape, ok := shapesByID[rtID]
			if !ok {
				// Dangling link; the validation pass reports these,
				// the exporter just skips them.
				continue
			}
			profile.ResourceTemplates = append(profile.ResourceTemplates,
				ex.resourceTemplate(rtShape, rowsByShape[rtID], namespaces))
		}
		docs = append(docs, newDocument(profile))
	}

	if len(docs) == 0 && len(shapes) > 0 {
		// No profile shapes: wrap everything in one synthesized document.
		title := ws.Name
		if title == "" {
			title = "Exported Profile"
		}
		profile := Profile{
			ID:    uuid.New().String(),
			Title: title,
		}
		for _, shape := range shapes {
			profile.ResourceTemplates = append(profile.ResourceTemplates,
				ex.resourceTemplate(shape, rowsByShape[shape.ShapeID], namespaces))
		}
		docs = append(docs, newDocument(profile))
	}

	return docs, nil
}

// exportableShapes lists the workspace's shapes minus starting-point
// shapes and anything in the reserved "Starting Points" folder.
func (ex *Exporter) exportableShapes(workspaceID string) ([]*core.Shape, error) {
	shapes, err := ex.store.ListShapes(workspaceID)
	if err != nil {
		return nil, err
	}

	folders, err := ex.store.ListFolders(workspaceID)
	if err != nil {
		return nil, err
	}
	var reservedFolder *int64
	for _, f := range folders {
		if f.Name == core.StartingPointFolder {
			id := f.ID
			reservedFolder = &id
			break
		}
	}

	var kept []*core.Shape
	for _, shape := range shapes {
		if core.IsStartingPointID(shape.ShapeID) {
			continue
		}
		if reservedFolder != nil && shape.FolderID != nil && *shape.FolderID == *reservedFolder {
			continue
		}
		kept = append(kept, shape)
	}
	return kept, nil
}

func (ex *Exporter) resourceTemplate(shape *core.Shape, rows []*core.StatementRow, namespaces []*core.Namespace) ResourceTemplate {
	rt := ResourceTemplate{
		ID:            shape.ShapeID,
		ResourceURI:   nsmap.Expand(shape.ResourceURI, namespaces),
		ResourceLabel: shape.Label,
		Remark:        shape.Description,
	}
	for _, row := range rows {
		rt.PropertyTemplates = append(rt.PropertyTemplates, rowToProperty(row, namespaces))
	}
	return rt
}

// rowToProperty converts a statement row back to a property template.
//
// The type-inference fallback order is load-bearing: literal, then
// resource (bnode + valueShape), then lookup (IRIstem + valueConstraint),
// then resource again on a bare valueShape, then literal. A row carrying
// both a valueShape and IRIstem classifies as lookup; existing data
// depends on that precedence, so it stays.
func rowToProperty(row *core.StatementRow, namespaces []*core.Namespace) PropertyTemplate {
	pt := PropertyTemplate{
		PropertyURI:   nsmap.Expand(row.PropertyID, namespaces),
		PropertyLabel: row.PropertyLabel,
		Mandatory:     row.Mandatory,
		Repeatable:    row.Repeatable,
		Remark:        row.LCRemark,
	}

	switch {
	case strings.EqualFold(row.ValueNodeType, core.NodeTypeLiteral):
		pt.Type = TypeLiteral
	case strings.EqualFold(row.ValueNodeType, core.NodeTypeBNode) && row.ValueShape != "":
		pt.Type = TypeResource
		ensureConstraint(&pt).ValueTemplateRefs = multival.Decode(row.ValueShape)
	case row.ValueConstraintType == "IRIstem" && row.ValueConstraint != "":
		pt.Type = TypeLookup
		ensureConstraint(&pt).UseValuesFrom = multival.Decode(row.ValueConstraint)
	case row.ValueShape != "":
		pt.Type = TypeResource
		ensureConstraint(&pt).ValueTemplateRefs = multival.Decode(row.ValueShape)
	default:
		pt.Type = TypeLiteral
	}

	if row.LCDataTypeURI != "" {
		ensureConstraint(&pt).ValueDataType = &ValueDataType{
			DataTypeURI: nsmap.Expand(row.LCDataTypeURI, namespaces),
		}
	}

	if row.LCDefaultLiteral != "" || row.LCDefaultURI != "" {
		vc := ensureConstraint(&pt)
		for _, pair := range multival.DecodePairs(row.LCDefaultLiteral, row.LCDefaultURI) {
			vc.Defaults = append(vc.Defaults, DefaultValue{
				DefaultLiteral: pair.Literal,
				DefaultURI:     pair.URI,
			})
		}
	}

	return pt
}

func ensureConstraint(pt *PropertyTemplate) *ValueConstraint {
	if pt.ValueConstraint == nil {
		pt.ValueConstraint = &ValueConstraint{}
	}
	return pt.ValueConstraint
}

// newDocument wraps a profile with a fresh id and current timestamps;
// create and update dates are equal at export time.
func newDocument(profile Profile) Document {
	now := time.Now().UTC().Format(time.RFC3339)
	return Document{
		ID:         uuid.New().String(),
		Name:       profile.Title,
		ConfigType: ConfigType,
		JSON:       Body{Profile: profile},
		Metadata:   Metadata{CreateDate: now, UpdateDate: now},
		Created:    now,
		Modified:   now,
	}
}

func labelOrID(shape *core.Shape) string {
	if shape.Label != "" {
		return shape.Label
	}
	return shape.ShapeID
}
