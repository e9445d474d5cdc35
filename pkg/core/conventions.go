package core

import "strings"

// Naming conventions shared by the converters. These are structural
// metadata markers from the source ecosystem's id scheme and must not be
// redesigned: downstream folder assignment and profile detection depend on
// byte-identical behavior for existing data.
const (
	// HasPartProperty marks a row that links a container shape to a
	// member shape.
	HasPartProperty = "dcterms:hasPart"
	// HasShapeLabel is the propertyLabel a profile container uses on its
	// hasPart link rows. Both the property and this label must match for
	// a shape to classify as a profile.
	HasShapeLabel = "Has Shape"

	// StartingPointPrefix is the reserved shapeID prefix for menu-group
	// shapes created by the starting-point importer.
	StartingPointPrefix = "sp:"
	// StartingPointMarker is the case-insensitive substring that also
	// marks a shape as starting-point metadata.
	StartingPointMarker = "startingpoint"
	// StartingPointIndexID is the fixed id of the synthetic index shape
	// that orders menu groups.
	StartingPointIndexID = "sp:_index"
	// StartingPointFolder is the reserved folder name for group shapes.
	StartingPointFolder = "Starting Points"

	// DefaultShapeID is assigned to CSV rows that precede any shapeID.
	DefaultShapeID = "default"
)

// IsStartingPointID reports whether a shapeID names starting-point
// structural metadata rather than user content.
func IsStartingPointID(shapeID string) bool {
	return strings.HasPrefix(shapeID, StartingPointPrefix) ||
		strings.Contains(strings.ToLower(shapeID), StartingPointMarker)
}
