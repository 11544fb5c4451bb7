package filter

import (
	"testing"

	"github.com/viant/nfereport/mapping"
)

func row(issued, cfop, tpNF, ncm, code string) mapping.Row {
	r := mapping.Default().NewRow()
	r[mapping.ColumnIssuedAt] = issued
	r[mapping.ColumnCFOP] = cfop
	r[mapping.ColumnType] = tpNF
	r[mapping.ColumnNCM] = ncm
	r[mapping.ColumnProductCode] = code
	return r
}

func TestKeep(t *testing.T) {
	base := row("2024-01-15T10:30:00-03:00", "5102", "1", "73181500", "P001")
	testCases := []struct {
		description string
		row         mapping.Row
		criteria    Criteria
		expect      bool
	}{
		{description: "no criteria", row: base, expect: true},
		{description: "inside range", row: base, criteria: Criteria{DateFrom: "2024-01-01", DateTo: "2024-01-31"}, expect: true},
		{description: "inclusive bounds", row: base, criteria: Criteria{DateFrom: "2024-01-15", DateTo: "2024-01-15"}, expect: true},
		{description: "before lower bound", row: base, criteria: Criteria{DateFrom: "2024-02-01"}, expect: false},
		{description: "after upper bound", row: base, criteria: Criteria{DateTo: "2023-12-31"}, expect: false},
		{description: "cfop match", row: base, criteria: Criteria{CFOP: "5102"}, expect: true},
		{description: "cfop mismatch", row: base, criteria: Criteria{CFOP: "6102"}, expect: false},
		{description: "outbound label", row: base, criteria: Criteria{DocumentType: Outbound}, expect: true},
		{description: "inbound label", row: base, criteria: Criteria{DocumentType: Inbound}, expect: false},
		{description: "unknown label", row: base, criteria: Criteria{DocumentType: "Devolução"}, expect: false},
		{description: "ncm", row: base, criteria: Criteria{NCM: "73181500"}, expect: true},
		{description: "product code mismatch", row: base, criteria: Criteria{ProductCode: "P002"}, expect: false},
		{description: "empty date with lower bound", row: row("", "5102", "1", "", ""), criteria: Criteria{DateFrom: "2024-01-01"}, expect: false},
		{description: "empty date with upper bound", row: row("", "5102", "1", "", ""), criteria: Criteria{DateTo: "2024-01-31"}, expect: true},
	}
	for _, tc := range testCases {
		if got := Keep(tc.row, tc.criteria); got != tc.expect {
			t.Fatalf("%s: got %v want %v", tc.description, got, tc.expect)
		}
	}
}

// Scenario: date range plus CFOP keeps only the matching document.
func TestKeep_DateAndCFOP(t *testing.T) {
	rows := []mapping.Row{
		row("2024-01-10", "5102", "1", "", ""),
		row("2024-02-10", "5102", "1", "", ""),
		row("2024-01-20", "6102", "1", "", ""),
	}
	c := Criteria{DateFrom: "2024-01-01", DateTo: "2024-01-31", CFOP: "5102"}
	var kept []mapping.Row
	for _, r := range rows {
		if Keep(r, c) {
			kept = append(kept, r)
		}
	}
	if len(kept) != 1 || kept[0][mapping.ColumnIssuedAt] != "2024-01-10" {
		t.Fatalf("unexpected rows: %v", kept)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Criteria{DateFrom: " 2024-01-01 ", CFOP: "string", NCM: "STRING", ProductCode: "  "})
	expect := Criteria{DateFrom: "2024-01-01"}
	if got != expect {
		t.Fatalf("got %+v want %+v", got, expect)
	}
	if !Normalize(Criteria{CFOP: "n/a"}, "n/a").IsZero() {
		t.Fatalf("expected custom placeholder to be unset")
	}
	if Normalize(Criteria{CFOP: "string"}, "n/a").CFOP != "string" {
		t.Fatalf("custom placeholders replace the default")
	}
}

func TestDocumentTypeCode(t *testing.T) {
	if DocumentTypeCode(Inbound) != "0" || DocumentTypeCode(Outbound) != "1" {
		t.Fatalf("unexpected codes")
	}
	if DocumentTypeCode("X") != "X" {
		t.Fatalf("unknown label should pass through")
	}
}
