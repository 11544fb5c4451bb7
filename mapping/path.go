package mapping

import (
	"fmt"
	"strings"
)

const (
	// Separator delimits path segments.
	Separator = "|"
	// Wildcard matches any direct child.
	Wildcard = "*"
)

// Path is an ordered sequence of tag names and wildcards.
type Path []string

// ParsePath parses segment ('|' segment)*.
func ParsePath(expr string) (Path, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("mapping: empty path")
	}
	parts := strings.Split(expr, Separator)
	out := make(Path, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("mapping: empty segment %d in %q", i, expr)
		}
		out = append(out, part)
	}
	return out, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pipe-delimited form.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasWildcard reports whether any segment is a wildcard.
func (p Path) HasWildcard() bool {
	for _, seg := range p {
		if seg == Wildcard {
			return true
		}
	}
	return false
}
