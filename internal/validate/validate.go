// Package validate implements the structural validation pass over
// statement rows. Converters never validate; they only transform. This
// pass runs separately and refreshes the cached hasErrors/errorDetails
// fields so reads stay cheap.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tapdeck-labs/tapdeck/internal/multival"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Issue is one row/column-scoped validation finding.
type Issue struct {
	RowID   int64  `json:"rowId"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// Validator checks statement rows against their workspace context.
type Validator struct {
	store core.Store
}

// New creates a validator backed by the given store.
func New(store core.Store) *Validator {
	return &Validator{store: store}
}

// Row validates a single row. knownShapes holds every shapeId in the
// workspace, used to spot dangling references.
func Row(row *core.StatementRow, knownShapes map[string]bool) []Issue {
	var issues []Issue
	add := func(column, format string, args ...any) {
		issues = append(issues, Issue{
			RowID:   row.ID,
			Column:  column,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if row.ValueNodeType != "" && !validNodeType(row.ValueNodeType) {
		add("valueNodeType", "invalid value %q: must be IRI, literal, or bnode", row.ValueNodeType)
	}

	if row.ValueDataType != "" && !strings.EqualFold(row.ValueNodeType, core.NodeTypeLiteral) {
		add("valueDataType", "only meaningful when valueNodeType is literal")
	}

	for _, column := range []struct{ name, value string }{
		{"mandatory", row.Mandatory},
		{"repeatable", row.Repeatable},
	} {
		if column.value != "" && column.value != "true" && column.value != "false" {
			add(column.name, "invalid value %q: must be \"true\" or \"false\"", column.value)
		}
	}

	for _, ref := range multival.Decode(row.ValueShape) {
		if !knownShapes[ref] {
			add("valueShape", "references unknown shape %q", ref)
		}
	}

	return issues
}

// validNodeType reports whether the value is one of the three node kinds,
// compared case-insensitively.
func validNodeType(value string) bool {
	return strings.EqualFold(value, core.NodeTypeIRI) ||
		strings.EqualFold(value, core.NodeTypeLiteral) ||
		strings.EqualFold(value, core.NodeTypeBNode)
}

// Shape validates every row of a shape and returns the findings grouped
// by row id. Rows without findings are absent from the map.
func (v *Validator) Shape(workspaceID, shapeID string) (map[int64][]Issue, error) {
	knownShapes, err := v.knownShapes(workspaceID)
	if err != nil {
		return nil, err
	}

	rows, err := v.store.ListRows(workspaceID, shapeID)
	if err != nil {
		return nil, err
	}

	found := make(map[int64][]Issue)
	for _, row := range rows {
		if issues := Row(row, knownShapes); len(issues) > 0 {
			found[row.ID] = issues
		}
	}
	return found, nil
}

// RefreshShape revalidates a shape's rows and rewrites the cached
// hasErrors/errorDetails fields where they changed. Callers run this
// after every cell write instead of validating on read.
func (v *Validator) RefreshShape(workspaceID, shapeID string) error {
	knownShapes, err := v.knownShapes(workspaceID)
	if err != nil {
		return err
	}

	rows, err := v.store.ListRows(workspaceID, shapeID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		issues := Row(row, knownShapes)
		details, err := encodeDetails(issues)
		if err != nil {
			return err
		}

		hasErrors := len(issues) > 0
		if row.HasErrors == hasErrors && row.ErrorDetails == details {
			continue
		}

		row.HasErrors = hasErrors
		row.ErrorDetails = details
		if err := v.store.UpdateRow(workspaceID, shapeID, row); err != nil {
			return fmt.Errorf("failed to refresh row %d: %w", row.ID, err)
		}
	}
	return nil
}

// RefreshWorkspace revalidates every shape in the workspace. Used after
// shape deletion, which can orphan references anywhere.
func (v *Validator) RefreshWorkspace(workspaceID string) error {
	shapes, err := v.store.ListShapes(workspaceID)
	if err != nil {
		return err
	}
	for _, shape := range shapes {
		if err := v.RefreshShape(workspaceID, shape.ShapeID); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) knownShapes(workspaceID string) (map[string]bool, error) {
	shapes, err := v.store.ListShapes(workspaceID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(shapes))
	for _, shape := range shapes {
		known[shape.ShapeID] = true
	}
	return known, nil
}

func encodeDetails(issues []Issue) (string, error) {
	if len(issues) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(issues)
	if err != nil {
		return "", fmt.Errorf("failed to encode error details: %w", err)
	}
	return string(encoded), nil
}
