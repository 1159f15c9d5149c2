package rdfmapper

import (
	"testing"

	"github.com/geoknoesis/rdfcore/rdf"
)

type employee struct {
	ID   string
	Name string
}

func TestTemplateIRIMapperToIRI(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{ID}")
	e := employee{ID: "42", Name: "Alice"}
	iri, err := tm.ToIRI(e)
	if err != nil {
		t.Fatalf("ToIRI: %v", err)
	}
	if iri.Value() != "https://example.org/people/42" {
		t.Errorf("expected the placeholder to resolve to the ID field, got %q", iri.Value())
	}
}

func TestTemplateIRIMapperToIRIMissingField(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{missingField}")
	_, err := tm.ToIRI(employee{ID: "42"})
	if err == nil {
		t.Fatal("expected an error when the pattern names a field the value does not have")
	}
}

func TestResolvePlaceholdersMatchesSingleSegment(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{id}")
	iri := rdf.NewIRIUnchecked("https://example.org/people/42")
	got, ok := tm.ResolvePlaceholders(iri)
	if !ok {
		t.Fatal("expected the IRI to match the pattern")
	}
	if got["id"] != "42" {
		t.Errorf("expected id=42, got %v", got)
	}
}

func TestResolvePlaceholdersMatchesBetweenTwoLiteralSegments(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/{kind}/people/{id}")
	iri := rdf.NewIRIUnchecked("https://example.org/staff/people/42")
	got, ok := tm.ResolvePlaceholders(iri)
	if !ok {
		t.Fatal("expected the IRI to match the pattern")
	}
	if got["kind"] != "staff" || got["id"] != "42" {
		t.Errorf("expected kind=staff id=42, got %v", got)
	}
}

func TestResolvePlaceholdersRejectsNonMatchingPrefix(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{id}")
	iri := rdf.NewIRIUnchecked("https://example.org/departments/42")
	_, ok := tm.ResolvePlaceholders(iri)
	if ok {
		t.Fatal("expected a non-matching prefix to reject the IRI")
	}
}

func TestTemplateIRIMapperFromIRIReturnsPlaceholderMap(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{id}")
	iri := rdf.NewIRIUnchecked("https://example.org/people/42")
	v, err := tm.FromIRI(iri)
	if err != nil {
		t.Fatalf("FromIRI: %v", err)
	}
	placeholders, ok := v.(map[string]string)
	if !ok || placeholders["id"] != "42" {
		t.Errorf("expected a placeholder map with id=42, got %v", v)
	}
}

func TestTemplateIRIMapperFromIRIMismatchFails(t *testing.T) {
	tm := NewTemplateIRIMapper("https://example.org/people/{id}")
	iri := rdf.NewIRIUnchecked("https://example.org/departments/42")
	_, err := tm.FromIRI(iri)
	if _, ok := err.(*TemplateMismatchError); !ok {
		t.Fatalf("expected TemplateMismatchError, got %v (%T)", err, err)
	}
}
