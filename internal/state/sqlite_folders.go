package state

import (
	"fmt"
	"time"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// ListFolders returns a workspace's folders in creation order.
func (s *SQLiteStore) ListFolders(workspaceID string) ([]*core.Folder, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, created_at FROM folders WHERE workspace_id = ? ORDER BY id`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []*core.Folder
	for rows.Next() {
		f := &core.Folder{}
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// CreateFolder adds a folder to a workspace. Folder names are unique per
// workspace.
func (s *SQLiteStore) CreateFolder(workspaceID, name string) (*core.Folder, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	f := &core.Folder{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.db.Exec(
		`INSERT INTO folders (workspace_id, name, created_at) VALUES (?, ?, ?)`,
		workspaceID, f.Name, f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", name, err)
	}

	f.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder id: %w", err)
	}

	s.invalidate(workspaceID)
	return f, nil
}
