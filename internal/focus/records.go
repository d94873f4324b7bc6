package focus

import "github.com/dshills/panelkit/internal/element"

// Record pairs a composite boundary (or the tree root) with the element
// holding focus as seen from that boundary.
type Record struct {
	Scope *element.Element
	Leaf  *element.Element
}

// buildRecords returns the records for leaf, innermost scope first.
func buildRecords(leaf *element.Element) []Record {
	var recs []Record
	current := leaf
	for p := leaf.Parent(); p != nil; p = p.Parent() {
		if p.IsCompositeBoundary() || p.Parent() == nil {
			recs = append(recs, Record{Scope: p, Leaf: current})
			current = p
		}
	}
	if len(recs) == 0 {
		recs = append(recs, Record{Scope: leaf, Leaf: leaf})
	}
	return recs
}
