package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/viant/nfereport/document"
	"github.com/viant/nfereport/internal/nfetest"
	"github.com/viant/nfereport/mapping"
)

func TestExtract_DetailedMode(t *testing.T) {
	inv := nfetest.Sample()
	rows, err := New(nil).ExtractBytes(inv.XML(), Detailed)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row[mapping.ColumnAccessKey] != inv.Key {
			t.Fatalf("row %d key mismatch: %q", i, row[mapping.ColumnAccessKey])
		}
		if row[mapping.ColumnReturnReason] != inv.Reason {
			t.Fatalf("row %d reason mismatch: %q", i, row[mapping.ColumnReturnReason])
		}
		if row[mapping.ColumnNumber] != "1234" || row[mapping.ColumnIssuer] != inv.IssuerName {
			t.Fatalf("row %d header mismatch: %v", i, row)
		}
		if row[mapping.ColumnProductCode] != inv.Items[i].Code {
			t.Fatalf("row %d product mismatch: got %q want %q", i, row[mapping.ColumnProductCode], inv.Items[i].Code)
		}
	}
	if rows[2][mapping.ColumnCFOP] != "5405" {
		t.Fatalf("expected per-item CFOP, got %q", rows[2][mapping.ColumnCFOP])
	}
}

func TestExtract_SummaryMode(t *testing.T) {
	rows, err := New(nil).ExtractBytes(nfetest.Sample().XML(), Summary)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row[mapping.ColumnProductCode] != "P001" || row[mapping.ColumnItemTotal] != "15.00" {
		t.Fatalf("expected first item values, got %v", row)
	}
	if len(row) != mapping.Default().Len() {
		t.Fatalf("expected every column, got %d", len(row))
	}
}

func TestExtract_AggregateMode(t *testing.T) {
	rows, err := New(nil).ExtractBytes(nfetest.Sample().XML(), Aggregate)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0][mapping.ColumnQuantity]; got != "3" {
		t.Fatalf("quantity mismatch: %q", got)
	}
	if got := rows[0][mapping.ColumnItemTotal]; got != "26.25" {
		t.Fatalf("total mismatch: %q", got)
	}
}

func TestExtract_EdgeCases(t *testing.T) {
	ext := New(nil)

	noItems := nfetest.Sample()
	noItems.Items = nil
	for _, mode := range []Mode{Detailed, Summary, Aggregate} {
		rows, err := ext.ExtractBytes(noItems.XML(), mode)
		if err != nil {
			t.Fatalf("%v: %v", mode, err)
		}
		if len(rows) != 0 {
			t.Fatalf("%v: expected no rows, got %d", mode, len(rows))
		}
	}

	noProtocol := nfetest.Sample()
	noProtocol.NoProtocol = true
	rows, err := ext.ExtractBytes(noProtocol.XML(), Summary)
	if err != nil {
		t.Fatalf("no protocol: %v", err)
	}
	if got, ok := rows[0][mapping.ColumnReturnReason]; !ok || got != "" {
		t.Fatalf("expected empty reason column, got %q present=%v", got, ok)
	}

	noKey := nfetest.Sample()
	noKey.Key = ""
	rows, err = ext.ExtractBytes(noKey.XML(), Summary)
	if err != nil {
		t.Fatalf("no key: %v", err)
	}
	if rows[0][mapping.ColumnAccessKey] != "" {
		t.Fatalf("expected empty key")
	}

	foreign := nfetest.Sample()
	foreign.Namespace = "http://example.com/other"
	if _, err = ext.ExtractBytes(foreign.XML(), Summary); !errors.Is(err, ErrMissingStructure) {
		t.Fatalf("expected ErrMissingStructure for foreign namespace, got %v", err)
	}
	rows, err = New(nil, WithNamespace(foreign.Namespace)).ExtractBytes(foreign.XML(), Summary)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected namespace override to match, rows=%d err=%v", len(rows), err)
	}

	if _, err = ext.ExtractBytes([]byte(`<nfeProc xmlns="`+Namespace+`"><other/></nfeProc>`), Summary); !errors.Is(err, ErrMissingStructure) {
		t.Fatalf("expected ErrMissingStructure, got %v", err)
	}
	if _, err = ext.ExtractBytes([]byte("not xml at all <<<"), Summary); !errors.Is(err, document.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestExtract_MissingFieldsYieldEmptyStrings(t *testing.T) {
	inv := nfetest.Sample()
	inv.Items[0].NCM = ""
	inv.IssuerCNPJ = ""
	rows, err := New(nil).ExtractBytes(inv.XML(), Summary)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	for _, title := range []string{mapping.ColumnNCM, mapping.ColumnIssuerCNPJ} {
		if got, ok := rows[0][title]; !ok || got != "" {
			t.Fatalf("%s: expected empty string, got %q present=%v", title, got, ok)
		}
	}
}

func TestResolve_Wildcard(t *testing.T) {
	root, err := document.Parse(nfetest.Sample().XML())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	items := document.ChildrenNamed(document.Find(root, Namespace, MainContentTag), Namespace, LineItemTag)
	testCases := []struct {
		description string
		path        string
		expect      string
	}{
		{description: "tax group", path: "imposto|ICMS|*|CST", expect: "20"},
		{description: "wildcard then leaf", path: "*|CFOP", expect: "5102"},
		{description: "trailing wildcard", path: "prod|*", expect: ""},
		{description: "missing", path: "imposto|IPI|*|CST", expect: ""},
		{description: "plain", path: "prod|xProd", expect: "Porca"},
	}
	for _, tc := range testCases {
		got := Resolve(items[1], Namespace, mapping.MustParsePath(tc.path))
		if got != tc.expect {
			t.Fatalf("%s: got %q want %q", tc.description, got, tc.expect)
		}
	}
	if Resolve(nil, Namespace, mapping.MustParsePath("a")) != "" {
		t.Fatalf("expected empty for nil node")
	}
}

func TestResolve_WildcardFinalSegment(t *testing.T) {
	root, err := document.Parse([]byte(`<a xmlns="` + Namespace + `"><g><b><c>deep</c></b><c>direct</c></g><h><c>later</c></h></a>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	testCases := []struct {
		description string
		path        string
		expect      string
	}{
		{description: "final segment under each child", path: "*|b|c", expect: "direct"},
		{description: "intermediate segments ignored", path: "*|x|c", expect: "direct"},
		{description: "trailing wildcard", path: "g|*", expect: ""},
		{description: "lone wildcard", path: "*", expect: ""},
		{description: "no child carries leaf", path: "*|d", expect: ""},
		{description: "explicit path", path: "g|b|c", expect: "deep"},
	}
	for _, tc := range testCases {
		got := Resolve(root, Namespace, mapping.MustParsePath(tc.path))
		if got != tc.expect {
			t.Fatalf("%s: got %q want %q", tc.description, got, tc.expect)
		}
	}
}

func TestExtract_ExtendedTable(t *testing.T) {
	table, err := mapping.Default().Extend(mapping.Field{Title: "CST ICMS", Scope: mapping.ScopeItem, Path: mapping.MustParsePath("imposto|ICMS|*|CST")})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	rows, err := New(table).ExtractBytes(nfetest.Sample().XML(), Detailed)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	var got []string
	for _, row := range rows {
		got = append(got, row["CST ICMS"])
	}
	if strings.Join(got, ",") != "00,20,60" {
		t.Fatalf("unexpected CST values: %v", got)
	}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input  string
		expect Mode
	}{
		{"", Summary},
		{"resumo", Summary},
		{"Detalhado", Detailed},
		{"detailed", Detailed},
		{"agregado", Aggregate},
	}
	for _, tc := range testCases {
		got, err := ParseMode(tc.input)
		if err != nil || got != tc.expect {
			t.Fatalf("%q: got %v err=%v", tc.input, got, err)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Fatalf("expected error")
	}
	if ModeFor(true) != Detailed || ModeFor(false) != Summary {
		t.Fatalf("ModeFor mismatch")
	}
}
