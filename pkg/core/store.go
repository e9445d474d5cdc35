package core

import "errors"

// ErrNotFound is returned by Get operations when the keyed entity does not
// exist. Converters surface it to callers unchanged; they never retry,
// because imports are destructive-replace and not safe to replay blindly.
var ErrNotFound = errors.New("not found")

// Store is the per-workspace relational store consumed by the converters.
// It behaves as an ordered key-value store with autoincrement ids and
// implicit per-shape row ordering. Implementations must signal the
// configured Invalidator on every mutation.
type Store interface {
	// Workspace operations
	CreateWorkspace(name string) (*Workspace, error)
	GetWorkspace(workspaceID string) (*Workspace, error)
	ListWorkspaces() ([]*Workspace, error)
	DeleteWorkspace(workspaceID string) error

	// Shape operations
	ListShapes(workspaceID string) ([]*Shape, error)
	GetShape(workspaceID, shapeID string) (*Shape, error)
	CreateShape(workspaceID string, shape *Shape) (*Shape, error)
	DeleteShape(workspaceID, shapeID string) (bool, error)

	// Row operations; ListRows returns rows sorted by rowOrder.
	ListRows(workspaceID, shapeID string) ([]*StatementRow, error)
	CreateRow(workspaceID, shapeID string, row *StatementRow) (*StatementRow, error)
	UpdateRow(workspaceID, shapeID string, row *StatementRow) error
	DeleteRow(workspaceID, shapeID string, rowID int64) error

	// Namespace operations
	ListNamespaces(workspaceID string) ([]*Namespace, error)
	CreateNamespace(workspaceID, prefix, uri string) (*Namespace, error)

	// Folder operations
	ListFolders(workspaceID string) ([]*Folder, error)
	CreateFolder(workspaceID, name string) (*Folder, error)

	// Option operations
	GetOptions(workspaceID string) (*WorkspaceOptions, error)
	UpdateOptions(workspaceID string, opts WorkspaceOptions) error
}

// Invalidator receives a signal whenever a workspace's data changes, so an
// external cache layer can drop stale responses. The core does not cache.
type Invalidator interface {
	Invalidate(workspaceID string)
}

// LockPolicy decides whether a workspace is currently locked against
// mutation. Enforcement happens at the calling layer, not inside the core.
type LockPolicy interface {
	Locked(workspaceID string) bool
}
