package startingpoint

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Exporter renders a workspace's starting-point shapes back into menu
// configuration form.
type Exporter struct {
	store core.Store
}

// NewExporter creates a starting-point exporter.
func NewExporter(store core.Store) *Exporter {
	return &Exporter{store: store}
}

// Export builds a starting-points document from the workspace's reserved
// shapes. Group order follows the index shape where one exists; groups the
// index does not mention are appended in store order. Groups without any
// part rows are dropped. Returns nil when the workspace has no
// starting-point groups to export.
func (ex *Exporter) Export(workspaceID string) (*Document, error) {
	shapes, err := ex.store.ListShapes(workspaceID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.Shape)
	var storeOrder []string
	for _, shape := range shapes {
		if !core.IsStartingPointID(shape.ShapeID) || shape.ShapeID == core.StartingPointIndexID {
			continue
		}
		byID[shape.ShapeID] = shape
		storeOrder = append(storeOrder, shape.ShapeID)
	}
	if len(byID) == 0 {
		return nil, nil
	}

	ordered, err := ex.groupOrder(workspaceID, byID, storeOrder)
	if err != nil {
		return nil, err
	}

	var groups []MenuGroup
	for _, shapeID := range ordered {
		group, err := ex.menuGroup(workspaceID, byID[shapeID])
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}
		groups = append(groups, *group)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	return &Document{
		ID:         uuid.New().String(),
		Name:       core.StartingPointFolder,
		ConfigType: ConfigType,
		JSON:       groups,
	}, nil
}

// groupOrder resolves export order: index rows first (in row order,
// keeping only ids that resolve to a known group), then every group the
// index missed, in store order.
func (ex *Exporter) groupOrder(workspaceID string, byID map[string]*core.Shape, storeOrder []string) ([]string, error) {
	var ordered []string
	seen := make(map[string]bool)

	indexRows, err := ex.store.ListRows(workspaceID, core.StartingPointIndexID)
	if err != nil {
		return nil, err
	}
	for _, row := range indexRows {
		if _, ok := byID[row.ValueShape]; !ok || seen[row.ValueShape] {
			continue
		}
		ordered = append(ordered, row.ValueShape)
		seen[row.ValueShape] = true
	}

	for _, shapeID := range storeOrder {
		if !seen[shapeID] {
			ordered = append(ordered, shapeID)
		}
	}
	return ordered, nil
}

// menuGroup converts one group shape. Returns nil for a group with no
// part rows.
func (ex *Exporter) menuGroup(workspaceID string, shape *core.Shape) (*MenuGroup, error) {
	rows, err := ex.store.ListRows(workspaceID, shape.ShapeID)
	if err != nil {
		return nil, err
	}

	items := []MenuItem{}
	for _, row := range rows {
		if row.PropertyID != core.HasPartProperty {
			continue
		}
		item := MenuItem{
			Label:                row.PropertyLabel,
			Type:                 []string{},
			UseResourceTemplates: []string{},
		}
		if row.ValueConstraint != "" {
			item.Type = append(item.Type, row.ValueConstraint)
		}
		if row.ValueShape != "" {
			item.UseResourceTemplates = append(item.UseResourceTemplates, row.ValueShape)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, nil
	}

	return &MenuGroup{MenuGroup: groupName(shape), MenuItems: items}, nil
}

// groupName recovers the display name: the shape label when set,
// otherwise the id with its reserved prefix stripped and underscores
// turned back into spaces.
func groupName(shape *core.Shape) string {
	if shape.Label != "" {
		return shape.Label
	}
	name := strings.TrimPrefix(shape.ShapeID, core.StartingPointPrefix)
	return strings.ReplaceAll(name, "_", " ")
}
