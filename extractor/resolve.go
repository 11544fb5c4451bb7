package extractor

import (
	"github.com/viant/nfereport/document"
	"github.com/viant/nfereport/mapping"
)

// Resolve walks path from node and returns the text found, or "" when any
// step is missing. On a wildcard segment the walk stops: the final segment is
// looked up as a direct child of every child of the current node, in document
// order, and the first non-empty text wins. A trailing wildcard resolves to "".
func Resolve(node document.Node, space string, path mapping.Path) string {
	if node == nil || len(path) == 0 {
		return ""
	}
	current := node
	for i, segment := range path {
		if segment == mapping.Wildcard {
			if i == len(path)-1 {
				return ""
			}
			return resolveAny(current, space, path[len(path)-1])
		}
		current = current.Child(space, segment)
		if current == nil {
			return ""
		}
	}
	return current.Text()
}

func resolveAny(node document.Node, space string, leaf string) string {
	for _, child := range node.Children() {
		target := child.Child(space, leaf)
		if target == nil {
			continue
		}
		if text := target.Text(); text != "" {
			return text
		}
	}
	return ""
}
