// pattern: Functional Core

package jsontree

// Line is one visible row of a tree.
type Line struct {
	Node  *Node
	Depth int
}

// Flatten lists the rows currently visible: every node whose ancestors are
// all expanded, in display order.
func Flatten(root *Node) []Line {
	if root == nil {
		return nil
	}
	var lines []Line
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		lines = append(lines, Line{Node: n, Depth: depth})
		if !n.IsContainer() || !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return lines
}

// Toggle flips a container's expansion and reports whether anything changed.
func Toggle(n *Node) bool {
	if n == nil || !n.IsContainer() {
		return false
	}
	n.Expanded = !n.Expanded
	return true
}

// ExpandAll sets the expansion of n and every descendant container.
func ExpandAll(n *Node, expanded bool) {
	if n == nil || !n.IsContainer() {
		return
	}
	n.Expanded = expanded
	for _, c := range n.Children {
		ExpandAll(c, expanded)
	}
}
