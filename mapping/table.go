package mapping

import (
	"fmt"
	"strings"
)

// Scope selects the subtree a field is resolved against.
type Scope int

const (
	// ScopeHeader fields resolve against the main-content subtree.
	ScopeHeader Scope = iota
	// ScopeItem fields resolve against each line-item subtree.
	ScopeItem
	// ScopeSynthetic fields are derived by the extractor.
	ScopeSynthetic
)

func (s Scope) String() string {
	switch s {
	case ScopeHeader:
		return "header"
	case ScopeItem:
		return "item"
	case ScopeSynthetic:
		return "synthetic"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Synthetic identifies a field not reachable by a plain path.
type Synthetic string

const (
	// ReturnReason comes from the protocol-status subtree.
	ReturnReason Synthetic = "returnReason"
	// AccessKey is derived from the main-content identifying attribute.
	AccessKey Synthetic = "accessKey"
)

// Field binds a source to an output column.
type Field struct {
	Title     string
	Scope     Scope
	Path      Path
	Synthetic Synthetic
}

// Table is an ordered, immutable set of fields with unique titles.
type Table struct {
	fields []Field
	index  map[string]int
}

// NewTable validates and builds a table.
func NewTable(fields ...Field) (*Table, error) {
	t := &Table{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := t.add(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(f Field) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return fmt.Errorf("mapping: field title is required")
	}
	if _, ok := t.index[f.Title]; ok {
		return fmt.Errorf("mapping: duplicate column %q", f.Title)
	}
	switch f.Scope {
	case ScopeHeader, ScopeItem:
		if len(f.Path) == 0 {
			return fmt.Errorf("mapping: column %q has no path", f.Title)
		}
	case ScopeSynthetic:
		if f.Synthetic != ReturnReason && f.Synthetic != AccessKey {
			return fmt.Errorf("mapping: column %q has unknown synthetic %q", f.Title, f.Synthetic)
		}
	default:
		return fmt.Errorf("mapping: column %q has invalid scope %v", f.Title, f.Scope)
	}
	f.Path = append(Path(nil), f.Path...)
	t.index[f.Title] = len(t.fields)
	t.fields = append(t.fields, f)
	return nil
}

// Extend returns a new table with fields appended; t is unchanged.
func (t *Table) Extend(fields ...Field) (*Table, error) {
	all := make([]Field, 0, len(t.fields)+len(fields))
	all = append(all, t.fields...)
	all = append(all, fields...)
	return NewTable(all...)
}

// Fields returns a copy of the fields in column order.
func (t *Table) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Titles returns the column titles in export order.
func (t *Table) Titles() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Title
	}
	return out
}

// Len returns the number of columns.
func (t *Table) Len() int { return len(t.fields) }

// Has reports whether the table declares a column.
func (t *Table) Has(title string) bool {
	_, ok := t.index[title]
	return ok
}

// NewRow returns a row with every column set to "".
func (t *Table) NewRow() Row {
	row := make(Row, len(t.fields))
	for _, f := range t.fields {
		row[f.Title] = ""
	}
	return row
}
