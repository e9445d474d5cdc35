package tabular

import "strings"

// Canonical column keys, in the fixed export order.
const (
	colShapeID             = "shapeID"
	colShapeLabel          = "shapeLabel"
	colResourceURI         = "resourceURI"
	colPropertyID          = "propertyID"
	colPropertyLabel       = "propertyLabel"
	colMandatory           = "mandatory"
	colRepeatable          = "repeatable"
	colValueNodeType       = "valueNodeType"
	colValueDataType       = "valueDataType"
	colValueShape          = "valueShape"
	colValueConstraint     = "valueConstraint"
	colValueConstraintType = "valueConstraintType"
	colNote                = "note"
	colLCDefaultLiteral    = "lcDefaultLiteral"
	colLCDefaultURI        = "lcDefaultURI"
	colLCDataTypeURI       = "lcDataTypeURI"
	colLCRemark            = "lcRemark"
)

// exportColumns is the fixed output column order.
var exportColumns = []string{
	colShapeID, colShapeLabel, colResourceURI,
	colPropertyID, colPropertyLabel, colMandatory, colRepeatable,
	colValueNodeType, colValueDataType, colValueShape,
	colValueConstraint, colValueConstraintType, colNote,
	colLCDefaultLiteral, colLCDefaultURI, colLCDataTypeURI, colLCRemark,
}

// columnNames maps a normalized header cell (lower-cased, all non-letter
// characters stripped) to its canonical column key. Unrecognized headers
// are ignored: their column data is dropped, not erred.
var columnNames = map[string]string{
	"shapeid":             colShapeID,
	"shapelabel":          colShapeLabel,
	"resourceuri":         colResourceURI,
	"propertyid":          colPropertyID,
	"propertylabel":       colPropertyLabel,
	"mandatory":           colMandatory,
	"repeatable":          colRepeatable,
	"valuenodetype":       colValueNodeType,
	"valuedatatype":       colValueDataType,
	"valueshape":          colValueShape,
	"valueconstraint":     colValueConstraint,
	"valueconstrainttype": colValueConstraintType,
	"note":                colNote,
	"lcdefaultliteral":    colLCDefaultLiteral,
	"lcdefaulturi":        colLCDefaultURI,
	"lcdatatypeuri":       colLCDataTypeURI,
	"lcremark":            colLCRemark,
}

// normalizeHeader lower-cases a header cell and strips everything that is
// not a letter, so "Value Node Type", "value_node_type", and
// "valueNodeType" all resolve to the same column.
func normalizeHeader(cell string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(cell) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapHeader resolves a header line to a canonical-key -> column-index map.
// The first occurrence of a recognized column wins.
func mapHeader(cells []string) map[string]int {
	mapped := make(map[string]int)
	for i, cell := range cells {
		key, ok := columnNames[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := mapped[key]; !seen {
			mapped[key] = i
		}
	}
	return mapped
}
