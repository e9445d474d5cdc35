package tabular

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tapdeck-labs/tapdeck/internal/workspace"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Input-malformed errors. These are the only checks guaranteed to happen
// before any store mutation.
var (
	// ErrEmptyInput means the file had no content lines at all.
	ErrEmptyInput = errors.New("empty file")
	// ErrMissingColumns means the header carried neither a propertyID nor
	// a shapeID column.
	ErrMissingColumns = errors.New("no propertyID or shapeID column found")
)

// Result reports the outcome of an import. Warnings are populated even on
// success and callers must surface them alongside the success flag.
type Result struct {
	Success           bool     `json:"success"`
	WorkspaceID       string   `json:"workspaceId"`
	ShapesCreated     int      `json:"shapesCreated"`
	RowsCreated       int      `json:"rowsCreated"`
	Warnings          []string `json:"warnings,omitempty"`
	UnknownNamespaces []string `json:"unknownNamespaces,omitempty"`
}

// Importer converts CSV/TSV text into a fresh workspace.
type Importer struct {
	store      core.Store
	workspaces *workspace.Service
}

// NewImporter creates a tabular importer.
func NewImporter(store core.Store, workspaces *workspace.Service) *Importer {
	return &Importer{store: store, workspaces: workspaces}
}

// Import parses the content and creates one new workspace holding its
// shapes and rows. Each call creates an independent workspace: importing
// the same content twice yields two workspaces, never a merge.
//
// Creation is in-order and not rolled back on a later failure; a failure
// partway through leaves already-created shapes and rows persisted.
func (im *Importer) Import(content, workspaceName string) (*Result, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	delim := detectDelimiter(lines[0])
	header := mapHeader(parseLine(lines[0], delim))

	_, hasPropertyID := header[colPropertyID]
	_, hasShapeID := header[colShapeID]
	if !hasPropertyID && !hasShapeID {
		return nil, ErrMissingColumns
	}

	ws, err := im.workspaces.Create(workspaceName)
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, WorkspaceID: ws.ID}

	if headerHasExtensionColumns(header) {
		if err := im.store.UpdateOptions(ws.ID, core.WorkspaceOptions{UseExtensionColumns: true}); err != nil {
			return nil, err
		}
	}

	knownPrefixes, err := im.knownPrefixes(ws.ID)
	if err != nil {
		return nil, err
	}

	st := importState{
		header:        header,
		knownPrefixes: knownPrefixes,
		seenUnknown:   make(map[string]bool),
		seenFullURI:   make(map[string]bool),
		rowOrders:     make(map[string]int),
		created:       make(map[string]bool),
	}

	for _, line := range lines[1:] {
		cells := parseLine(line, delim)
		if err := im.importLine(ws.ID, cells, &st, result); err != nil {
			return nil, err
		}
	}

	// Synthesize placeholder namespaces for prefixes the workspace does
	// not know, one per prefix.
	for _, prefix := range st.unknownOrder {
		placeholder := fmt.Sprintf("http://example.org/%s/", prefix)
		if _, err := im.store.CreateNamespace(ws.ID, prefix, placeholder); err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unknown namespace prefix %q: added placeholder %s", prefix, placeholder))
		result.UnknownNamespaces = append(result.UnknownNamespaces, prefix)
	}

	return result, nil
}

// importState carries the per-import shape context and bookkeeping.
type importState struct {
	header        map[string]int
	knownPrefixes map[string]bool

	// Shape context inherited by rows with a blank shapeID cell.
	currentShapeID     string
	currentLabel       string
	currentResourceURI string

	created      map[string]bool
	rowOrders    map[string]int
	seenUnknown  map[string]bool
	unknownOrder []string
	seenFullURI  map[string]bool
}

func (im *Importer) importLine(workspaceID string, cells []string, st *importState, result *Result) error {
	cell := func(key string) string {
		idx, ok := st.header[key]
		if !ok || idx >= len(cells) {
			return ""
		}
		return cells[idx]
	}

	explicitShapeID := cell(colShapeID)

	// Carry label and resourceURI forward independently of the shape id.
	if v := cell(colShapeLabel); v != "" {
		st.currentLabel = v
	}
	if v := cell(colResourceURI); v != "" {
		st.currentResourceURI = v
	}

	if explicitShapeID != "" {
		st.currentShapeID = explicitShapeID
	}

	// Skip rule: nothing in any recognized column and no explicit shape id.
	if explicitShapeID == "" && !anyRecognizedData(cells, st.header) {
		return nil
	}

	shapeID := st.currentShapeID
	if shapeID == "" {
		shapeID = core.DefaultShapeID
		st.currentShapeID = shapeID
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rows before any shapeID were assigned to shape %q", core.DefaultShapeID))
	}

	if !st.created[shapeID] {
		_, err := im.store.CreateShape(workspaceID, &core.Shape{
			ShapeID:     shapeID,
			Label:       st.currentLabel,
			ResourceURI: st.currentResourceURI,
		})
		if err != nil {
			return err
		}
		st.created[shapeID] = true
		result.ShapesCreated++
	}

	row := &core.StatementRow{
		PropertyID:          cell(colPropertyID),
		PropertyLabel:       cell(colPropertyLabel),
		Mandatory:           cell(colMandatory),
		Repeatable:          cell(colRepeatable),
		ValueNodeType:       cell(colValueNodeType),
		ValueDataType:       cell(colValueDataType),
		ValueShape:          cell(colValueShape),
		ValueConstraint:     cell(colValueConstraint),
		ValueConstraintType: cell(colValueConstraintType),
		Note:                cell(colNote),
		LCDefaultLiteral:    cell(colLCDefaultLiteral),
		LCDefaultURI:        cell(colLCDefaultURI),
		LCDataTypeURI:       cell(colLCDataTypeURI),
		LCRemark:            cell(colLCRemark),
	}

	if isEmptyStatement(row) {
		// Identity-only line: the shape exists, but there is no statement.
		return nil
	}

	im.checkPrefix(row.PropertyID, st, result)

	row.RowOrder = st.rowOrders[shapeID]
	st.rowOrders[shapeID]++

	if _, err := im.store.CreateRow(workspaceID, shapeID, row); err != nil {
		return err
	}
	result.RowsCreated++
	return nil
}

// checkPrefix collects unknown propertyID prefixes for placeholder
// synthesis. A literal http/https prefix means a full URI was used where a
// prefixed name was expected; that gets its own warning and no placeholder.
func (im *Importer) checkPrefix(propertyID string, st *importState, result *Result) {
	prefix, _, ok := strings.Cut(propertyID, ":")
	if !ok || prefix == "" {
		return
	}

	if prefix == "http" || prefix == "https" {
		if !st.seenFullURI[propertyID] {
			st.seenFullURI[propertyID] = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("full URI used as propertyID: %s", propertyID))
		}
		return
	}

	if st.knownPrefixes[prefix] || st.seenUnknown[prefix] {
		return
	}
	st.seenUnknown[prefix] = true
	st.unknownOrder = append(st.unknownOrder, prefix)
}

func (im *Importer) knownPrefixes(workspaceID string) (map[string]bool, error) {
	namespaces, err := im.store.ListNamespaces(workspaceID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		known[ns.Prefix] = true
	}
	return known, nil
}

// anyRecognizedData reports whether any recognized column holds data.
func anyRecognizedData(cells []string, header map[string]int) bool {
	for _, idx := range header {
		if idx < len(cells) && cells[idx] != "" {
			return true
		}
	}
	return false
}

// isEmptyStatement reports whether a row carries no statement data at all
// (identity columns aside).
func isEmptyStatement(row *core.StatementRow) bool {
	return row.PropertyID == "" && row.PropertyLabel == "" &&
		row.Mandatory == "" && row.Repeatable == "" &&
		row.ValueNodeType == "" && row.ValueDataType == "" &&
		row.ValueShape == "" && row.ValueConstraint == "" &&
		row.ValueConstraintType == "" && row.Note == "" &&
		row.LCDefaultLiteral == "" && row.LCDefaultURI == "" &&
		row.LCDataTypeURI == "" && row.LCRemark == ""
}

func headerHasExtensionColumns(header map[string]int) bool {
	for _, key := range []string{colLCDefaultLiteral, colLCDefaultURI, colLCDataTypeURI, colLCRemark} {
		if _, ok := header[key]; ok {
			return true
		}
	}
	return false
}
