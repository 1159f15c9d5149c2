package rdf

import (
	"strings"
	"testing"
)

func TestCanParseJSONLDRequiresAKeyword(t *testing.T) {
	if CanParseJSONLD(`{"name": "no keywords here"}`) {
		t.Error("expected a plain JSON object with no JSON-LD keyword to be rejected")
	}
	if !CanParseJSONLD(`{"@id": "http://example.org/s", "@type": "http://example.org/Thing"}`) {
		t.Error("expected an object carrying @id/@type to be accepted")
	}
}

func TestCanParseJSONLDRejectsNonJSON(t *testing.T) {
	if CanParseJSONLD(`@prefix ex: <http://example.org/> .`) {
		t.Error("expected Turtle input to be rejected")
	}
}

func TestCanParseJSONLDRejectsKeywordOnlyInStringValue(t *testing.T) {
	if CanParseJSONLD(`{"description": "mentions @id in passing"}`) {
		t.Error("expected a keyword appearing only inside a string value, not as a key, to be rejected")
	}
}

func TestEncodeJSONLDSingleSubjectRoundTrip(t *testing.T) {
	s, _ := NewIRI("http://example.org/alice")
	p, _ := NewIRI("http://xmlns.com/foaf/0.1/name")
	tr, err := NewTriple(s, p, NewLiteral("Alice"))
	if err != nil {
		t.Fatalf("NewTriple: %v", err)
	}
	g := NewGraph(tr)

	out, err := EncodeJSONLD(g, JSONLDEncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeJSONLD: %v", err)
	}
	if !strings.Contains(out, `"@id"`) {
		t.Errorf("expected the encoded document to carry an @id, got:\n%s", out)
	}

	ds, err := DecodeJSONLD(out, JSONLDDecodeOptions{})
	if err != nil {
		t.Fatalf("DecodeJSONLD: %v", err)
	}
	if ds.Default.Count() != 1 {
		t.Fatalf("expected 1 triple in the default graph, got %d", ds.Default.Count())
	}
	matches := ds.Default.BySubject(s)
	if len(matches) != 1 || matches[0].O.(Literal).Lexical() != "Alice" {
		t.Errorf("expected the round trip to reproduce foaf:name \"Alice\", got %v", matches)
	}
}

func TestDecodeJSONLDMultipleSubjects(t *testing.T) {
	input := `{
		"@context": {"foaf": "http://xmlns.com/foaf/0.1/"},
		"@graph": [
			{"@id": "http://example.org/alice", "foaf:name": "Alice"},
			{"@id": "http://example.org/bob", "foaf:name": "Bob"}
		]
	}`
	ds, err := DecodeJSONLD(input, JSONLDDecodeOptions{})
	if err != nil {
		t.Fatalf("DecodeJSONLD: %v", err)
	}
	if ds.Default.Count() != 2 {
		t.Fatalf("expected 2 triples, got %d", ds.Default.Count())
	}
}
