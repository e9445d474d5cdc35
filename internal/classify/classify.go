// Package classify derives each shape's structural role from the naming and
// row-content conventions of the source ecosystem.
//
// There is no stored flag: a "profile" is any shape carrying
// dcterms:hasPart / "Has Shape" rows, and starting-point shapes are
// recognized purely by their ids. Classification runs once per shape list
// so the import and export paths cannot drift apart.
package classify

import (
	"github.com/tapdeck-labs/tapdeck/internal/multival"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Shapes classifies every shape in one pass. rowsByShape maps shapeID to
// that shape's rows in rowOrder. Profile links are collected in row order,
// flattened through the multi-value codec, with starting-point ids dropped.
func Shapes(shapes []*core.Shape, rowsByShape map[string][]*core.StatementRow) map[string]core.ShapeKind {
	kinds := make(map[string]core.ShapeKind, len(shapes))

	for _, shape := range shapes {
		if shape.ShapeID == core.StartingPointIndexID {
			kinds[shape.ShapeID] = core.ShapeKind{Tag: core.KindStartingPointIndex}
			continue
		}
		if core.IsStartingPointID(shape.ShapeID) {
			kinds[shape.ShapeID] = core.ShapeKind{Tag: core.KindStartingPointGroup}
			continue
		}

		links := profileLinks(rowsByShape[shape.ShapeID])
		if links != nil {
			kinds[shape.ShapeID] = core.ShapeKind{Tag: core.KindProfileContainer, Links: links}
			continue
		}

		kinds[shape.ShapeID] = core.ShapeKind{Tag: core.KindPlain}
	}

	return kinds
}

// profileLinks returns the linked resource-template ids when the rows carry
// the hasPart convention, or nil for a plain shape. Both the property and
// the label must match; this exact rule is load-bearing for existing data.
func profileLinks(rows []*core.StatementRow) []string {
	var links []string
	found := false

	for _, row := range rows {
		if row.PropertyID != core.HasPartProperty || row.PropertyLabel != core.HasShapeLabel {
			continue
		}
		found = true
		for _, ref := range multival.Decode(row.ValueShape) {
			if core.IsStartingPointID(ref) {
				continue
			}
			links = append(links, ref)
		}
	}

	if !found {
		return nil
	}
	if links == nil {
		links = []string{}
	}
	return links
}
