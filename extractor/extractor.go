package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/nfereport/document"
	"github.com/viant/nfereport/mapping"
)

// Invoice schema constants.
const (
	Namespace      = "http://www.portalfiscal.inf.br/nfe"
	MainContentTag = "infNFe"
	LineItemTag    = "det"
	ProtocolTag    = "protNFe"
	KeyAttribute   = "Id"
	KeyPrefix      = "NFe"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithNamespace overrides the invoice namespace URI.
func WithNamespace(space string) Option {
	return func(e *Extractor) {
		if space != "" {
			e.space = space
		}
	}
}

// Extractor turns parsed invoice documents into rows.
type Extractor struct {
	table *mapping.Table
	space string
}

// New creates an Extractor for table; a nil table uses mapping.Default().
func New(table *mapping.Table, opts ...Option) *Extractor {
	if table == nil {
		table = mapping.Default()
	}
	e := &Extractor{table: table, space: Namespace}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the field mapping.
func (e *Extractor) Table() *mapping.Table { return e.table }

// Namespace returns the namespace URI used for lookups.
func (e *Extractor) Namespace() string { return e.space }

// ExtractBytes parses data and extracts rows.
func (e *Extractor) ExtractBytes(data []byte, mode Mode) ([]mapping.Row, error) {
	root, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return e.Extract(root, mode)
}

// Extract returns the rows of one document: one per line item in Detailed
// mode, at most one otherwise.
func (e *Extractor) Extract(root document.Node, mode Mode) ([]mapping.Row, error) {
	main := document.Find(root, e.space, MainContentTag)
	if main == nil {
		return nil, ErrMissingStructure
	}
	protocol := document.Find(root, e.space, ProtocolTag)
	key := strings.TrimPrefix(main.Attr(KeyAttribute), KeyPrefix)

	items := document.ChildrenNamed(main, e.space, LineItemTag)
	if len(items) == 0 {
		return nil, nil
	}
	switch mode {
	case Detailed:
		rows := make([]mapping.Row, 0, len(items))
		for _, item := range items {
			rows = append(rows, e.row(main, item, protocol, key))
		}
		return rows, nil
	case Summary:
		return []mapping.Row{e.row(main, items[0], protocol, key)}, nil
	case Aggregate:
		row := e.row(main, items[0], protocol, key)
		e.aggregate(row, items)
		return []mapping.Row{row}, nil
	}
	return nil, fmt.Errorf("extractor: unsupported mode %v", mode)
}

func (e *Extractor) row(main, item, protocol document.Node, key string) mapping.Row {
	row := e.table.NewRow()
	for _, field := range e.table.Fields() {
		switch field.Scope {
		case mapping.ScopeHeader:
			row[field.Title] = Resolve(main, e.space, field.Path)
		case mapping.ScopeItem:
			row[field.Title] = Resolve(item, e.space, field.Path)
		case mapping.ScopeSynthetic:
			switch field.Synthetic {
			case mapping.AccessKey:
				row[field.Title] = key
			case mapping.ReturnReason:
				row[field.Title] = Resolve(protocol, e.space, field.Path)
			}
		}
	}
	return row
}

// aggregate replaces the quantity column with the item count and the item
// total column with the sum of item totals. Unparsable totals count as zero.
func (e *Extractor) aggregate(row mapping.Row, items []document.Node) {
	if e.table.Has(mapping.ColumnQuantity) {
		row[mapping.ColumnQuantity] = strconv.Itoa(len(items))
	}
	if !e.table.Has(mapping.ColumnItemTotal) {
		return
	}
	var totalPath mapping.Path
	for _, field := range e.table.Fields() {
		if field.Title == mapping.ColumnItemTotal {
			totalPath = field.Path
		}
	}
	var sum float64
	for _, item := range items {
		v, err := strconv.ParseFloat(Resolve(item, e.space, totalPath), 64)
		if err != nil {
			continue
		}
		sum += v
	}
	row[mapping.ColumnItemTotal] = strconv.FormatFloat(sum, 'f', 2, 64)
}
