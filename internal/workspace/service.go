// Package workspace provides workspace lifecycle operations on top of the
// store: creation with the default namespace set, destruction, and copying
// shapes between workspaces.
package workspace

import (
	"fmt"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// defaultNamespace is one entry of the namespace table a new workspace
// starts with.
type defaultNamespace struct {
	prefix string
	uri    string
}

// defaultNamespaces are installed into every new workspace, in this order.
// Order matters: nsmap.Compress picks the first matching entry.
var defaultNamespaces = []defaultNamespace{
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"xsd", "http://www.w3.org/2001/XMLSchema#"},
	{"dcterms", "http://purl.org/dc/terms/"},
	{"sh", "http://www.w3.org/ns/shacl#"},
	{"bf", "http://id.loc.gov/ontologies/bibframe/"},
	{"bflc", "http://id.loc.gov/ontologies/bflc/"},
	{"madsrdf", "http://www.loc.gov/mads/rdf/v1#"},
	{"sinopia", "http://sinopia.io/vocabulary/"},
}

// Service wraps the store with workspace-level operations.
type Service struct {
	store core.Store
}

// NewService creates a workspace service.
func NewService(store core.Store) *Service {
	return &Service{store: store}
}

// Create makes a new workspace populated with the default namespaces.
func (s *Service) Create(name string) (*core.Workspace, error) {
	ws, err := s.store.CreateWorkspace(name)
	if err != nil {
		return nil, err
	}

	for _, ns := range defaultNamespaces {
		if _, err := s.store.CreateNamespace(ws.ID, ns.prefix, ns.uri); err != nil {
			return nil, fmt.Errorf("failed to seed namespace %s: %w", ns.prefix, err)
		}
	}

	return ws, nil
}

// Delete destroys a workspace and all owned storage.
func (s *Service) Delete(workspaceID string) error {
	return s.store.DeleteWorkspace(workspaceID)
}

// CopyShape copies one shape with its rows into another workspace.
//
// If the target workspace already holds a shape with the same id, that
// shape is destroyed and recreated (overwrite, not merge). The folder
// assignment is dropped in the target: folder ids are workspace-local and
// carrying the name across is intentionally not done.
func (s *Service) CopyShape(srcWorkspaceID, shapeID, dstWorkspaceID string) error {
	shape, err := s.store.GetShape(srcWorkspaceID, shapeID)
	if err != nil {
		return err
	}
	rows, err := s.store.ListRows(srcWorkspaceID, shapeID)
	if err != nil {
		return err
	}

	if _, err := s.store.DeleteShape(dstWorkspaceID, shapeID); err != nil {
		return err
	}

	copied := &core.Shape{
		ShapeID:     shape.ShapeID,
		Label:       shape.Label,
		Description: shape.Description,
		ResourceURI: shape.ResourceURI,
	}
	if _, err := s.store.CreateShape(dstWorkspaceID, copied); err != nil {
		return err
	}

	for _, row := range rows {
		clone := *row
		clone.ID = 0
		if _, err := s.store.CreateRow(dstWorkspaceID, shapeID, &clone); err != nil {
			return fmt.Errorf("failed to copy row: %w", err)
		}
	}

	return nil
}
