// Package filter evaluates post-extraction row criteria.
package filter

import (
	"strings"

	"github.com/viant/nfereport/mapping"
)

// Document type labels accepted by Criteria.DocumentType.
const (
	Inbound  = "Entrada"
	Outbound = "Saída"
)

// DefaultPlaceholder is the literal sent by generated API clients for unset fields.
const DefaultPlaceholder = "string"

// Criteria holds optional row predicates; empty fields are ignored.
type Criteria struct {
	DateFrom     string `json:"dataInicio,omitempty" yaml:"dataInicio,omitempty"`
	DateTo       string `json:"dataFim,omitempty" yaml:"dataFim,omitempty"`
	CFOP         string `json:"cfop,omitempty" yaml:"cfop,omitempty"`
	DocumentType string `json:"tipoNF,omitempty" yaml:"tipoNF,omitempty"`
	NCM          string `json:"ncm,omitempty" yaml:"ncm,omitempty"`
	ProductCode  string `json:"codigoProduto,omitempty" yaml:"codigoProduto,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// DocumentTypeCode translates a category label into the raw tpNF code.
// Unknown labels are returned unchanged.
func DocumentTypeCode(label string) string {
	switch label {
	case Inbound:
		return "0"
	case Outbound:
		return "1"
	}
	return label
}

// Keep reports whether row satisfies every set criterion.
func Keep(row mapping.Row, c Criteria) bool {
	issued := row[mapping.ColumnIssuedAt]
	if len(issued) > 10 {
		issued = issued[:10]
	}
	if c.DateFrom != "" && issued < c.DateFrom {
		return false
	}
	if c.DateTo != "" && issued > c.DateTo {
		return false
	}
	if c.CFOP != "" && row[mapping.ColumnCFOP] != c.CFOP {
		return false
	}
	if c.NCM != "" && row[mapping.ColumnNCM] != c.NCM {
		return false
	}
	if c.ProductCode != "" && row[mapping.ColumnProductCode] != c.ProductCode {
		return false
	}
	if c.DocumentType != "" && row[mapping.ColumnType] != DocumentTypeCode(c.DocumentType) {
		return false
	}
	return true
}

// Normalize trims every criterion and unsets placeholder values
// (case-insensitive). With no placeholders DefaultPlaceholder is used.
func Normalize(c Criteria, placeholders ...string) Criteria {
	if len(placeholders) == 0 {
		placeholders = []string{DefaultPlaceholder}
	}
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		for _, p := range placeholders {
			if strings.EqualFold(v, strings.TrimSpace(p)) {
				return ""
			}
		}
		return v
	}
	return Criteria{
		DateFrom:     clean(c.DateFrom),
		DateTo:       clean(c.DateTo),
		CFOP:         clean(c.CFOP),
		DocumentType: clean(c.DocumentType),
		NCM:          clean(c.NCM),
		ProductCode:  clean(c.ProductCode),
	}
}
