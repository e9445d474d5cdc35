package tabular

import (
	"strings"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Exporter renders a workspace as CSV or TSV text.
type Exporter struct {
	store core.Store
}

// NewExporter creates a tabular exporter.
func NewExporter(store core.Store) *Exporter {
	return &Exporter{store: store}
}

// Export produces one output row per statement row, columns in the fixed
// order. Only the first row of each shape carries shapeID/shapeLabel/
// resourceURI. A shape with zero rows still emits exactly one row so empty
// shapes are not lost. The delimiter is chosen by the caller.
func (ex *Exporter) Export(workspaceID string, delim rune) (string, error) {
	shapes, err := ex.store.ListShapes(workspaceID)
	if err != nil {
		return "", err
	}

	sep := string(delim)
	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, sep))
	b.WriteString("\n")

	for _, shape := range shapes {
		rows, err := ex.store.ListRows(workspaceID, shape.ShapeID)
		if err != nil {
			return "", err
		}

		if len(rows) == 0 {
			writeLine(&b, identityCells(shape, emptyStatementCells()), delim)
			continue
		}

		for i, row := range rows {
			cells := statementCells(row)
			if i == 0 {
				cells = identityCells(shape, cells)
			}
			writeLine(&b, cells, delim)
		}
	}

	return b.String(), nil
}

// identityCells fills the three shape-identity columns into a cell row.
func identityCells(shape *core.Shape, cells []string) []string {
	cells[0] = shape.ShapeID
	cells[1] = shape.Label
	cells[2] = shape.ResourceURI
	return cells
}

func emptyStatementCells() []string {
	return make([]string, len(exportColumns))
}

// statementCells renders one statement row into the fixed column order,
// identity columns left blank. valueShape and valueConstraint convert
// embedded newlines to " | "; the other multi-value fields keep literal
// newlines and rely on quoting.
func statementCells(row *core.StatementRow) []string {
	cells := emptyStatementCells()
	cells[3] = row.PropertyID
	cells[4] = row.PropertyLabel
	cells[5] = row.Mandatory
	cells[6] = row.Repeatable
	cells[7] = row.ValueNodeType
	cells[8] = row.ValueDataType
	cells[9] = pipeJoin(row.ValueShape)
	cells[10] = pipeJoin(row.ValueConstraint)
	cells[11] = row.ValueConstraintType
	cells[12] = row.Note
	cells[13] = row.LCDefaultLiteral
	cells[14] = row.LCDefaultURI
	cells[15] = row.LCDataTypeURI
	cells[16] = row.LCRemark
	return cells
}

func pipeJoin(field string) string {
	return strings.ReplaceAll(field, "\n", " | ")
}

func writeLine(b *strings.Builder, cells []string, delim rune) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteRune(delim)
		}
		b.WriteString(escapeCell(cell, delim))
	}
	b.WriteString("\n")
}
