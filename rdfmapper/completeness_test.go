package rdfmapper

import (
	"testing"

	"github.com/geoknoesis/rdfcore/rdf"
)

func TestCompletenessStrictFailsOnLeftoverTriples(t *testing.T) {
	reg := newTestRegistry()
	m := NewMapper(reg)
	alice := rdf.NewIRIUnchecked("http://example.org/alice")
	unknownPred := rdf.NewIRIUnchecked("http://example.org/unmappedField")
	g := rdf.NewGraph(
		triple(t, alice, rdf.RDFType, personType),
		triple(t, alice, foafName, rdf.NewLiteral("Alice")),
		triple(t, alice, unknownPred, rdf.NewLiteral("mystery")),
	)
	_, err := FromGraph[*person](m, g, alice)
	if _, ok := err.(*IncompleteDeserializationError); !ok {
		t.Fatalf("expected IncompleteDeserializationError, got %v (%T)", err, err)
	}
}

func TestCompletenessLenientIgnoresLeftoverTriples(t *testing.T) {
	reg := newTestRegistry()
	m := NewMapper(reg).WithCompleteness(CompletenessLenient)
	alice := rdf.NewIRIUnchecked("http://example.org/alice")
	unknownPred := rdf.NewIRIUnchecked("http://example.org/unmappedField")
	g := rdf.NewGraph(
		triple(t, alice, rdf.RDFType, personType),
		triple(t, alice, foafName, rdf.NewLiteral("Alice")),
		triple(t, alice, unknownPred, rdf.NewLiteral("mystery")),
	)
	got, err := FromGraph[*person](m, g, alice)
	if err != nil {
		t.Fatalf("FromGraph under CompletenessLenient: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("expected Name %q, got %q", "Alice", got.Name)
	}
}

func TestDecodeLosslessPreservesUnconsumedTriples(t *testing.T) {
	reg := newTestRegistry()
	alice := rdf.NewIRIUnchecked("http://example.org/alice")
	unknownPred := rdf.NewIRIUnchecked("http://example.org/unmappedField")
	g := rdf.NewGraph(
		triple(t, alice, rdf.RDFType, personType),
		triple(t, alice, foafName, rdf.NewLiteral("Alice")),
		triple(t, alice, unknownPred, rdf.NewLiteral("mystery")),
	)
	got, leftover, err := DecodeLossless[*person](reg, g, alice)
	if err != nil {
		t.Fatalf("DecodeLossless: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("expected Name %q, got %q", "Alice", got.Name)
	}
	if leftover.Count() != 1 || !leftover.Has(triple(t, alice, unknownPred, rdf.NewLiteral("mystery"))) {
		t.Fatalf("expected the unmapped triple to survive into leftover, got %v", leftover.Triples())
	}
}

func TestEncodeLosslessMergesLeftoverBackIn(t *testing.T) {
	reg := newTestRegistry()
	alice := rdf.NewIRIUnchecked("http://example.org/alice")
	unknownPred := rdf.NewIRIUnchecked("http://example.org/unmappedField")
	leftoverTriple := triple(t, alice, unknownPred, rdf.NewLiteral("mystery"))
	leftover := rdf.NewGraph(leftoverTriple)

	g, err := EncodeLossless(reg, alice, &person{IRI: alice, Name: "Alice"}, leftover)
	if err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	if !g.Has(leftoverTriple) {
		t.Errorf("expected the leftover triple to reappear verbatim, got %v", g.Triples())
	}
	if !g.Has(triple(t, alice, foafName, rdf.NewLiteral("Alice"))) {
		t.Errorf("expected the mapped name triple to also be present, got %v", g.Triples())
	}
}
