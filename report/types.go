package report

import (
	"fmt"

	"github.com/viant/nfereport/mapping"
)

// Source is one raw document buffer and its identifier.
type Source struct {
	Name string
	Data []byte
}

// DocumentError records a per-document failure.
type DocumentError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e DocumentError) Unwrap() error { return e.Err }

// Result holds surviving rows in document then line-item order, plus
// per-document failures in input order.
type Result struct {
	Rows      []mapping.Row
	Errors    []DocumentError
	Documents int
}

// Empty reports whether no row survived.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
