package rdf

import "testing"

func buildSampleGraph(t *testing.T) (Graph, IRI, IRI, IRI) {
	t.Helper()
	s, _ := NewIRI("http://example.org/alice")
	p1, _ := NewIRI("http://example.org/knows")
	p2, _ := NewIRI("http://example.org/name")
	o, _ := NewIRI("http://example.org/bob")
	t1, _ := NewTriple(s, p1, o)
	t2, _ := NewTriple(s, p2, NewLiteral("Alice"))
	return NewGraph(t1, t2), s, p1, p2
}

func TestFindBySubjectAndPredicate(t *testing.T) {
	g, s, p1, _ := buildSampleGraph(t)
	matches := g.Find(Pattern{Subject: s, Predicate: &p1})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestFindWithNoConstraintsReturnsEverything(t *testing.T) {
	g, _, _, _ := buildSampleGraph(t)
	matches := g.Find(Pattern{})
	if len(matches) != g.Count() {
		t.Fatalf("expected %d matches, got %d", g.Count(), len(matches))
	}
}

func TestSubgraphSkipButDescendReachesPastFilteredEdge(t *testing.T) {
	head := NewBlankNode()
	mid := NewBlankNode()
	first, _ := NewIRI("http://example.org/firstVal")
	t1, _ := NewTriple(head, RDFRest, mid)
	t2, _ := NewTriple(mid, RDFFirst, first)
	g := NewGraph(t1, t2)

	result := g.Subgraph(head, func(tr Triple, depth int) Decision {
		if tr.P.Equal(RDFRest) {
			return DecisionSkipButDescend
		}
		return DecisionInclude
	})
	if result.Has(t1) {
		t.Error("expected the rdf:rest edge to be dropped")
	}
	if !result.Has(t2) {
		t.Error("expected traversal to still reach rdf:first past the skipped rdf:rest edge")
	}
}

func TestSubgraphIsCycleSafe(t *testing.T) {
	a := NewBlankNode()
	b := NewBlankNode()
	p, _ := NewIRI("http://example.org/p")
	t1, _ := NewTriple(a, p, b)
	t2, _ := NewTriple(b, p, a)
	g := NewGraph(t1, t2)

	result := g.Subgraph(a, nil)
	if result.Count() != 2 {
		t.Errorf("expected both edges of the cycle to be visited once, got %d", result.Count())
	}
}

func TestGraphMergeAndSubtract(t *testing.T) {
	s, _ := NewIRI("http://example.org/s")
	p, _ := NewIRI("http://example.org/p")
	o1, _ := NewIRI("http://example.org/o1")
	o2, _ := NewIRI("http://example.org/o2")
	t1, _ := NewTriple(s, p, o1)
	t2, _ := NewTriple(s, p, o2)
	g1 := NewGraph(t1)
	g2 := NewGraph(t2)

	merged := g1.Merge(g2)
	if merged.Count() != 2 {
		t.Fatalf("expected a 2-triple merge, got %d", merged.Count())
	}
	diff := merged.Subtract(g1)
	if diff.Count() != 1 || !diff.Has(t2) {
		t.Fatalf("expected subtraction to leave exactly t2, got %v", diff.Triples())
	}
}
