package rdf

import (
	"strings"
	"testing"
)

func TestParseNTriplesBasic(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> "v" .` + "\n"
	g, err := ParseNTriples(strings.NewReader(input), DecodeOptions{})
	if err != nil {
		t.Fatalf("ParseNTriples: %v", err)
	}
	if g.Count() != 1 {
		t.Fatalf("expected 1 triple, got %d", g.Count())
	}
}

func TestEncodeNTriplesCanonicalModeIsDeterministic(t *testing.T) {
	s, _ := NewIRI("http://example.org/s")
	p, _ := NewIRI("http://example.org/p")
	b1 := NewBlankNode()
	b2 := NewBlankNode()
	t1, _ := NewTriple(s, p, b1)
	t2, _ := NewTriple(b1, p, b2)
	g := NewGraph(t1, t2)

	out1 := EncodeNTriples(g, EncodeNTriplesOptions{Canonical: true})
	out2 := EncodeNTriples(g, EncodeNTriplesOptions{Canonical: true})
	if out1 != out2 {
		t.Fatalf("expected canonical-mode output to be deterministic across calls:\n%s\n---\n%s", out1, out2)
	}
	if !strings.Contains(out1, "_:b0") {
		t.Errorf("expected canonical labels to start at b0, got:\n%s", out1)
	}
}

func TestEncodeNTriplesCanonicalDedups(t *testing.T) {
	s, _ := NewIRI("http://example.org/s")
	p, _ := NewIRI("http://example.org/p")
	o, _ := NewIRI("http://example.org/o")
	tr, _ := NewTriple(s, p, o)
	g := NewGraph(tr, tr)
	out := EncodeNTriples(g, EncodeNTriplesOptions{Canonical: true})
	if strings.Count(out, "example.org/o") != 1 {
		t.Errorf("expected deduplicated output, got:\n%s", out)
	}
}
