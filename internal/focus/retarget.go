package focus

import "github.com/dshills/panelkit/internal/element"

// Retarget expresses target as seen from relativeTo. Composite boundaries
// that enclose target but not relativeTo hide their insides, so the result
// is the outermost such boundary, or target itself when there is none.
//
// The walk stops at the nearest common ancestor.
func Retarget(target, relativeTo *element.Element) *element.Element {
	if target == nil || relativeTo == nil {
		return target
	}
	result := target
	for p := target.Parent(); p != nil && !p.Contains(relativeTo); p = p.Parent() {
		if p.IsCompositeBoundary() {
			result = p
		}
	}
	return result
}
