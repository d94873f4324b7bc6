package element

// HitTest returns the deepest displayed element under (x, y), or nil.
// Later siblings are treated as drawn on top of earlier ones.
func HitTest(root *Element, x, y int) *Element {
	if root == nil || !root.displayed || !root.bounds.Contains(x, y) {
		return nil
	}
	for i := len(root.children) - 1; i >= 0; i-- {
		if hit := HitTest(root.children[i], x, y); hit != nil {
			return hit
		}
	}
	return root
}
