package rdf

import "testing"

func TestCompactPrefixedForm(t *testing.T) {
	tbl := NewPrefixTable(map[string]string{
		"foaf": "http://xmlns.com/foaf/0.1/",
	})
	res := tbl.Compact("http://xmlns.com/foaf/0.1/name", RoleGenericObject)
	if !res.IsPrefixed {
		t.Fatalf("expected a prefixed compaction, got %+v", res)
	}
	if res.Text != "foaf:name" {
		t.Errorf("expected foaf:name, got %q", res.Text)
	}
}

func TestCompactFallsBackToFullIRI(t *testing.T) {
	tbl := NewPrefixTable(nil)
	res := tbl.Compact("http://example.org/unregistered/thing", RoleGenericObject)
	if res.IsPrefixed || res.IsRelative {
		t.Fatalf("expected a full-IRI fallback, got %+v", res)
	}
	if res.Text != "http://example.org/unregistered/thing" {
		t.Errorf("expected the IRI to pass through unchanged, got %q", res.Text)
	}
}

func TestCompactTypeObjectNeverEmptyLocal(t *testing.T) {
	tbl := NewPrefixTable(map[string]string{
		"ex": "http://example.org/",
	})
	res := tbl.Compact("http://example.org/", RoleTypeObject)
	if res.IsPrefixed && res.Text == "ex:" {
		t.Error("a type-object position must never compact to an empty local name")
	}
}

func TestCompactBaseRelativeSkipsPredicateRole(t *testing.T) {
	tbl := NewPrefixTable(nil)
	tbl.SetBase("http://example.org/")
	res := tbl.Compact("http://example.org/knows", RolePredicate)
	if res.IsRelative {
		t.Error("predicate position must never use the base-relative form")
	}
}
