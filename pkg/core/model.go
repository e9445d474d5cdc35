package core

import "time"

// Workspace is an isolated container owning one namespace table, one folder
// table, one shape table, and the rows of every shape.
type Workspace struct {
	// ID is an opaque identifier (UUID).
	ID string `json:"id"`
	// Name is a human-readable label.
	Name string `json:"name"`
	// CreatedAt is the creation timestamp (UTC).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt tracks the last mutation (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceOptions holds per-workspace settings.
type WorkspaceOptions struct {
	// UseExtensionColumns enables the LC extension columns
	// (lcDefaultLiteral, lcDefaultURI, lcDataTypeURI, lcRemark).
	UseExtensionColumns bool `json:"useExtensionColumns"`
}

// Namespace is a (prefix, uri) pair scoped to a workspace.
// The prefix is unique within its workspace.
type Namespace struct {
	ID        int64     `json:"id"`
	Prefix    string    `json:"prefix"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"createdAt"`
}

// Folder groups shapes within a workspace.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Shape represents an entity type / resource template.
// ShapeID is unique within a workspace and is the foreign-key target for
// inter-shape references (valueShape fields).
type Shape struct {
	// ShapeID is the primary identifier, unique within the workspace.
	// May be a prefixed name or an arbitrary string.
	ShapeID string `json:"shapeId"`
	// Label is a human-readable name.
	Label string `json:"label"`
	// Description is free text.
	Description string `json:"description"`
	// ResourceURI is the class URI, either full or prefixed.
	ResourceURI string `json:"resourceURI"`
	// FolderID is the owning folder, or nil when unfoldered.
	FolderID *int64 `json:"folderId"`
	// CreatedAt is the creation timestamp (UTC).
	CreatedAt time.Time `json:"createdAt"`
}

// Value node types for StatementRow.ValueNodeType. Matching is
// case-insensitive throughout the system.
const (
	NodeTypeIRI     = "IRI"
	NodeTypeLiteral = "literal"
	NodeTypeBNode   = "bnode"
)

// StatementRow is one property-constraint statement belonging to a shape.
//
// Mandatory and Repeatable are string-encoded booleans ("true"/"false") and
// must be preserved verbatim through every conversion. Multi-valued fields
// (ValueShape, ValueConstraint, the LC default lists) hold newline-joined
// lists; see internal/multival for the delimiter rules.
type StatementRow struct {
	ID int64 `json:"id"`
	// RowOrder defines stable presentation order, not insertion order.
	RowOrder int `json:"rowOrder"`

	PropertyID    string `json:"propertyId"`
	PropertyLabel string `json:"propertyLabel"`
	Mandatory     string `json:"mandatory"`
	Repeatable    string `json:"repeatable"`

	ValueNodeType string `json:"valueNodeType"`
	ValueDataType string `json:"valueDataType"`
	// ValueShape is a delimiter-separated list of referenced shapeIDs.
	ValueShape          string `json:"valueShape"`
	ValueConstraint     string `json:"valueConstraint"`
	ValueConstraintType string `json:"valueConstraintType"`
	Note                string `json:"note"`

	// LC extension fields. The two default lists pair positionally:
	// the i-th literal belongs with the i-th URI when both are present.
	LCDefaultLiteral string `json:"lcDefaultLiteral"`
	LCDefaultURI     string `json:"lcDefaultURI"`
	LCDataTypeURI    string `json:"lcDataTypeURI"`
	LCRemark         string `json:"lcRemark"`

	// HasErrors / ErrorDetails cache the last structural-validation result.
	// They are recomputed on every cell write, not derived on read.
	HasErrors    bool   `json:"hasErrors"`
	ErrorDetails string `json:"errorDetails"`
}

// ShapeKindTag identifies the structural role of a shape, derived purely
// from naming/row-content conventions (there is no stored flag).
type ShapeKindTag int

const (
	// KindPlain is an ordinary shape.
	KindPlain ShapeKindTag = iota
	// KindProfileContainer is a shape whose rows link resource templates
	// via the dcterms:hasPart / "Has Shape" convention.
	KindProfileContainer
	// KindStartingPointGroup is a menu-group shape (reserved naming).
	KindStartingPointGroup
	// KindStartingPointIndex is the synthetic index shape ordering groups.
	KindStartingPointIndex
)

// ShapeKind is the classification of one shape, computed once per shape
// list so import and export logic cannot drift.
type ShapeKind struct {
	Tag ShapeKindTag
	// Links holds the linked resource-template shapeIDs, in row order,
	// when Tag is KindProfileContainer.
	Links []string
}
