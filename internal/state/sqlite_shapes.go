package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// ListShapes returns all shapes of a workspace in creation (store) order.
func (s *SQLiteStore) ListShapes(workspaceID string) ([]*core.Shape, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT shape_id, label, description, resource_uri, folder_id, created_at
		 FROM shapes WHERE workspace_id = ? ORDER BY rowid`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shapes: %w", err)
	}
	defer rows.Close()

	var shapes []*core.Shape
	for rows.Next() {
		shape, err := scanShape(rows)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, rows.Err()
}

// GetShape retrieves a shape by id. Returns core.ErrNotFound when missing.
func (s *SQLiteStore) GetShape(workspaceID, shapeID string) (*core.Shape, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT shape_id, label, description, resource_uri, folder_id, created_at
		 FROM shapes WHERE workspace_id = ? AND shape_id = ?`,
		workspaceID, shapeID,
	)

	shape, err := scanShape(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shape %s: %w", shapeID, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return shape, nil
}

// CreateShape creates a shape in a workspace. The shape's ShapeID must be
// set and unique within the workspace.
func (s *SQLiteStore) CreateShape(workspaceID string, shape *core.Shape) (*core.Shape, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if shape.ShapeID == "" {
		return nil, fmt.Errorf("shape id is required")
	}

	created := *shape
	created.CreatedAt = time.Now().UTC()

	var folderID any
	if created.FolderID != nil {
		folderID = *created.FolderID
	}

	_, err := s.db.Exec(
		`INSERT INTO shapes (workspace_id, shape_id, label, description, resource_uri, folder_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		workspaceID, created.ShapeID, created.Label, created.Description,
		created.ResourceURI, folderID, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shape %s: %w", created.ShapeID, err)
	}

	s.invalidate(workspaceID)
	return &created, nil
}

// DeleteShape removes a shape and cascades to its rows. Returns false when
// the shape did not exist.
func (s *SQLiteStore) DeleteShape(workspaceID, shapeID string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`DELETE FROM shapes WHERE workspace_id = ? AND shape_id = ?`,
		workspaceID, shapeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete shape %s: %w", shapeID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	s.invalidate(workspaceID)
	return true, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanShape(sc scanner) (*core.Shape, error) {
	shape := &core.Shape{}
	var folderID sql.NullInt64

	err := sc.Scan(&shape.ShapeID, &shape.Label, &shape.Description,
		&shape.ResourceURI, &folderID, &shape.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan shape: %w", err)
	}

	if folderID.Valid {
		shape.FolderID = &folderID.Int64
	}
	return shape, nil
}
