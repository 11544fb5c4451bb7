package extractor

import (
	"fmt"
	"strings"
)

// Mode selects how many rows a document contributes.
type Mode int

const (
	// Summary emits one row per document built from the first line item.
	Summary Mode = iota
	// Detailed emits one row per line item.
	Detailed
	// Aggregate emits one row per document with item count and summed totals.
	Aggregate
)

func (m Mode) String() string {
	switch m {
	case Detailed:
		return "detailed"
	case Summary:
		return "summary"
	case Aggregate:
		return "aggregate"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts english and portuguese mode names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detailed", "detalhado", "item", "itens":
		return Detailed, nil
	case "", "summary", "resumo":
		return Summary, nil
	case "aggregate", "agregado":
		return Aggregate, nil
	}
	return Summary, fmt.Errorf("extractor: unknown mode %q", s)
}

// ModeFor maps the one-row-per-item flag to a mode.
func ModeFor(perItem bool) Mode {
	if perItem {
		return Detailed
	}
	return Summary
}
