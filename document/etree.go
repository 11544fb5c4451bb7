package document

import (
	"strings"

	"github.com/beevik/etree"
)

// Parse parses an XML buffer into a Node tree rooted at the document element.
func Parse(data []byte) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Cause: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Cause: errNoRoot}
	}
	return &element{elem: root}, nil
}

type element struct {
	elem *etree.Element
}

func (e *element) Name() string { return e.elem.Tag }

func (e *element) Space() string { return e.elem.NamespaceURI() }

func (e *element) Text() string {
	return strings.TrimSpace(e.elem.Text())
}

func (e *element) Attr(name string) string {
	return e.elem.SelectAttrValue(name, "")
}

func (e *element) Children() []Node {
	children := e.elem.ChildElements()
	if len(children) == 0 {
		return nil
	}
	out := make([]Node, len(children))
	for i, child := range children {
		out[i] = &element{elem: child}
	}
	return out
}

func (e *element) Child(space, name string) Node {
	for _, child := range e.elem.ChildElements() {
		if child.Tag == name && child.NamespaceURI() == space {
			return &element{elem: child}
		}
	}
	return nil
}
