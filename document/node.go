package document

// Node is a read-only view of an element in a parsed document tree.
// Implementations must be safe for concurrent reads.
type Node interface {
	// Name returns the local tag name.
	Name() string
	// Space returns the resolved namespace URI (not the prefix).
	Space() string
	// Text returns the element character data, or "" when there is none.
	Text() string
	// Attr returns the unqualified attribute value, or "".
	Attr(name string) string
	// Children returns direct child elements in document order.
	Children() []Node
	// Child returns the first direct child with the given qualified name, or nil.
	Child(space, name string) Node
}

// Find returns the first node (pre-order, depth-first, root included) with
// the given qualified name, or nil.
func Find(root Node, space, name string) Node {
	if root == nil {
		return nil
	}
	if root.Name() == name && root.Space() == space {
		return root
	}
	for _, child := range root.Children() {
		if found := Find(child, space, name); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenNamed returns direct children with the given qualified name in document order.
func ChildrenNamed(node Node, space, name string) []Node {
	if node == nil {
		return nil
	}
	var out []Node
	for _, child := range node.Children() {
		if child.Name() == name && child.Space() == space {
			out = append(out, child)
		}
	}
	return out
}
