package document

import (
	"errors"
	"testing"
)

const ns = "http://example.com/ns"

func TestParse_ResolvesNamespaceAndText(t *testing.T) {
	root, err := Parse([]byte(`<root xmlns="` + ns + `"><a id="x1"><b>  hello </b></a><a id="x2"/></root>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Name() != "root" || root.Space() != ns {
		t.Fatalf("unexpected root: %s %s", root.Space(), root.Name())
	}
	a := root.Child(ns, "a")
	if a == nil {
		t.Fatalf("expected child a")
	}
	if got := a.Attr("id"); got != "x1" {
		t.Fatalf("attr mismatch: got %q want %q", got, "x1")
	}
	if got := a.Child(ns, "b").Text(); got != "hello" {
		t.Fatalf("text mismatch: got %q", got)
	}
	if a.Child("", "b") != nil {
		t.Fatalf("expected no match without namespace")
	}
	if got := len(ChildrenNamed(root, ns, "a")); got != 2 {
		t.Fatalf("expected 2 children, got %d", got)
	}
	if got := root.Child(ns, "missing"); got != nil {
		t.Fatalf("expected nil for missing child")
	}
}

func TestParse_PrefixedNamespace(t *testing.T) {
	root, err := Parse([]byte(`<p:root xmlns:p="` + ns + `"><p:leaf>v</p:leaf></p:root>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	leaf := Find(root, ns, "leaf")
	if leaf == nil || leaf.Text() != "v" {
		t.Fatalf("expected prefixed leaf to resolve by URI")
	}
}

func TestFind_PreOrder(t *testing.T) {
	root, err := Parse([]byte(`<r xmlns="` + ns + `"><x><t>first</t></x><t>second</t></r>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Find(root, ns, "t").Text(); got != "first" {
		t.Fatalf("expected depth-first match, got %q", got)
	}
	if Find(root, ns, "r") != root {
		t.Fatalf("expected root to match itself")
	}
	if Find(nil, ns, "r") != nil {
		t.Fatalf("expected nil for nil root")
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"not xml at all <<<", ""} {
		_, err := Parse([]byte(input))
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		if !errors.Is(err, ErrParse) {
			t.Fatalf("expected ErrParse, got %v", err)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T", err)
		}
	}
}
