package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// CreateWorkspace creates a new empty workspace with a generated id.
func (s *SQLiteStore) CreateWorkspace(name string) (*core.Workspace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	ws := &core.Workspace{
		ID:        generateID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	ws.UpdatedAt = ws.CreatedAt

	_, err := s.db.Exec(
		`INSERT INTO workspaces (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		ws.ID, ws.Name, ws.CreatedAt, ws.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, nil
}

// GetWorkspace retrieves a workspace by id.
func (s *SQLiteStore) GetWorkspace(workspaceID string) (*core.Workspace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	ws := &core.Workspace{}
	err := s.db.QueryRow(
		`SELECT id, name, created_at, updated_at FROM workspaces WHERE id = ?`,
		workspaceID,
	).Scan(&ws.ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return ws, nil
}

// ListWorkspaces returns all workspaces in creation order.
func (s *SQLiteStore) ListWorkspaces() ([]*core.Workspace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, created_at, updated_at FROM workspaces ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*core.Workspace
	for rows.Next() {
		ws := &core.Workspace{}
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// DeleteWorkspace removes a workspace and all owned storage (namespaces,
// folders, shapes, rows) via foreign-key cascade.
func (s *SQLiteStore) DeleteWorkspace(workspaceID string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM workspaces WHERE id = ?`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workspace %s: %w", workspaceID, core.ErrNotFound)
	}

	s.invalidate(workspaceID)
	return nil
}

// GetOptions retrieves per-workspace settings.
func (s *SQLiteStore) GetOptions(workspaceID string) (*core.WorkspaceOptions, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var useExt int64
	err := s.db.QueryRow(
		`SELECT use_extension_columns FROM workspaces WHERE id = ?`,
		workspaceID,
	).Scan(&useExt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}

	return &core.WorkspaceOptions{UseExtensionColumns: useExt != 0}, nil
}

// UpdateOptions stores per-workspace settings.
func (s *SQLiteStore) UpdateOptions(workspaceID string, opts core.WorkspaceOptions) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	useExt := int64(0)
	if opts.UseExtensionColumns {
		useExt = 1
	}

	result, err := s.db.Exec(
		`UPDATE workspaces SET use_extension_columns = ?, updated_at = ? WHERE id = ?`,
		useExt, time.Now().UTC(), workspaceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update options: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workspace %s: %w", workspaceID, core.ErrNotFound)
	}

	s.invalidate(workspaceID)
	return nil
}
