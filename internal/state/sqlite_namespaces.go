package state

import (
	"fmt"
	"time"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// ListNamespaces returns a workspace's namespaces in insertion order.
// Iteration order matters: nsmap.Compress takes the first matching entry.
func (s *SQLiteStore) ListNamespaces(workspaceID string) ([]*core.Namespace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, prefix, uri, created_at FROM namespaces
		 WHERE workspace_id = ? ORDER BY id`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	defer rows.Close()

	var namespaces []*core.Namespace
	for rows.Next() {
		ns := &core.Namespace{}
		if err := rows.Scan(&ns.ID, &ns.Prefix, &ns.URI, &ns.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan namespace: %w", err)
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, rows.Err()
}

// CreateNamespace adds a (prefix, uri) pair to a workspace. The prefix must
// be unique within the workspace.
func (s *SQLiteStore) CreateNamespace(workspaceID, prefix, uri string) (*core.Namespace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	ns := &core.Namespace{
		Prefix:    prefix,
		URI:       uri,
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.db.Exec(
		`INSERT INTO namespaces (workspace_id, prefix, uri, created_at) VALUES (?, ?, ?, ?)`,
		workspaceID, ns.Prefix, ns.URI, ns.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create namespace %s: %w", prefix, err)
	}

	ns.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get namespace id: %w", err)
	}

	s.invalidate(workspaceID)
	return ns, nil
}
