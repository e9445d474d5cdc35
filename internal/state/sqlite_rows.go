package state

import (
	"fmt"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

const rowColumns = `id, row_order, property_id, property_label, mandatory, repeatable,
	value_node_type, value_data_type, value_shape, value_constraint,
	value_constraint_type, note, lc_default_literal, lc_default_uri,
	lc_data_type_uri, lc_remark, has_errors, error_details`

// ListRows returns a shape's statement rows sorted by rowOrder.
func (s *SQLiteStore) ListRows(workspaceID, shapeID string) ([]*core.StatementRow, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT `+rowColumns+` FROM statement_rows
		 WHERE workspace_id = ? AND shape_id = ?
		 ORDER BY row_order, id`,
		workspaceID, shapeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	defer rows.Close()

	var result []*core.StatementRow
	for rows.Next() {
		row := &core.StatementRow{}
		var hasErrors int64
		err := rows.Scan(&row.ID, &row.RowOrder, &row.PropertyID, &row.PropertyLabel,
			&row.Mandatory, &row.Repeatable, &row.ValueNodeType, &row.ValueDataType,
			&row.ValueShape, &row.ValueConstraint, &row.ValueConstraintType, &row.Note,
			&row.LCDefaultLiteral, &row.LCDefaultURI, &row.LCDataTypeURI, &row.LCRemark,
			&hasErrors, &row.ErrorDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row.HasErrors = hasErrors != 0
		result = append(result, row)
	}
	return result, rows.Err()
}

// CreateRow appends a statement row to a shape. The caller controls
// RowOrder; the store assigns the autoincrement id.
func (s *SQLiteStore) CreateRow(workspaceID, shapeID string, row *core.StatementRow) (*core.StatementRow, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	created := *row
	hasErrors := int64(0)
	if created.HasErrors {
		hasErrors = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO statement_rows (workspace_id, shape_id, row_order,
			property_id, property_label, mandatory, repeatable,
			value_node_type, value_data_type, value_shape, value_constraint,
			value_constraint_type, note, lc_default_literal, lc_default_uri,
			lc_data_type_uri, lc_remark, has_errors, error_details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		workspaceID, shapeID, created.RowOrder,
		created.PropertyID, created.PropertyLabel, created.Mandatory, created.Repeatable,
		created.ValueNodeType, created.ValueDataType, created.ValueShape, created.ValueConstraint,
		created.ValueConstraintType, created.Note, created.LCDefaultLiteral, created.LCDefaultURI,
		created.LCDataTypeURI, created.LCRemark, hasErrors, created.ErrorDetails,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create row: %w", err)
	}

	created.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get row id: %w", err)
	}

	s.invalidate(workspaceID)
	return &created, nil
}

// UpdateRow rewrites a statement row in place, keyed by its id.
func (s *SQLiteStore) UpdateRow(workspaceID, shapeID string, row *core.StatementRow) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	hasErrors := int64(0)
	if row.HasErrors {
		hasErrors = 1
	}

	result, err := s.db.Exec(
		`UPDATE statement_rows SET row_order = ?,
			property_id = ?, property_label = ?, mandatory = ?, repeatable = ?,
			value_node_type = ?, value_data_type = ?, value_shape = ?,
			value_constraint = ?, value_constraint_type = ?, note = ?,
			lc_default_literal = ?, lc_default_uri = ?, lc_data_type_uri = ?,
			lc_remark = ?, has_errors = ?, error_details = ?
		 WHERE id = ? AND workspace_id = ? AND shape_id = ?`,
		row.RowOrder,
		row.PropertyID, row.PropertyLabel, row.Mandatory, row.Repeatable,
		row.ValueNodeType, row.ValueDataType, row.ValueShape,
		row.ValueConstraint, row.ValueConstraintType, row.Note,
		row.LCDefaultLiteral, row.LCDefaultURI, row.LCDataTypeURI,
		row.LCRemark, hasErrors, row.ErrorDetails,
		row.ID, workspaceID, shapeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("row %d: %w", row.ID, core.ErrNotFound)
	}

	s.invalidate(workspaceID)
	return nil
}

// DeleteRow removes a single statement row.
func (s *SQLiteStore) DeleteRow(workspaceID, shapeID string, rowID int64) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`DELETE FROM statement_rows WHERE id = ? AND workspace_id = ? AND shape_id = ?`,
		rowID, workspaceID, shapeID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("row %d: %w", rowID, core.ErrNotFound)
	}

	s.invalidate(workspaceID)
	return nil
}
