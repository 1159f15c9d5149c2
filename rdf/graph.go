package rdf

import "sync"

// Graph is an immutable set of triples. Graphs are value types: every
// mutating-looking operation (Add, Remove, Merge, Subtract) returns a
// new Graph rather than modifying the receiver. Duplicate triples
// collapse under set semantics (graph.Count(t) <= 1 always holds).
type Graph struct {
	triples map[Triple]struct{}
	idx     *graphIndex
}

// graphIndex is a lazily built, subject-keyed lookup table. It is built
// at most once per Graph instance (via sync.Once) on the first query
// that can use it, and is never shared across Graph instances: a
// mutation always produces a Graph with a fresh, unbuilt index.
type graphIndex struct {
	once    sync.Once
	buckets map[Term][]Triple
}

// NewGraph builds a graph containing the given triples, deduplicated.
func NewGraph(triples ...Triple) Graph {
	g := Graph{triples: make(map[Triple]struct{}, len(triples)), idx: &graphIndex{}}
	for _, t := range triples {
		g.triples[t] = struct{}{}
	}
	return g
}

func (g Graph) clone(extra int) map[Triple]struct{} {
	nt := make(map[Triple]struct{}, len(g.triples)+extra)
	for t := range g.triples {
		nt[t] = struct{}{}
	}
	return nt
}

// Add returns a new graph with t inserted. Adding a triple already
// present is a no-op (graph-set semantics).
func (g Graph) Add(t Triple) Graph {
	if _, ok := g.triples[t]; ok {
		return g
	}
	nt := g.clone(1)
	nt[t] = struct{}{}
	return Graph{triples: nt, idx: &graphIndex{}}
}

// AddAll returns a new graph with every triple in ts inserted.
func (g Graph) AddAll(ts ...Triple) Graph {
	nt := g.clone(len(ts))
	changed := false
	for _, t := range ts {
		if _, ok := nt[t]; !ok {
			nt[t] = struct{}{}
			changed = true
		}
	}
	if !changed {
		return g
	}
	return Graph{triples: nt, idx: &graphIndex{}}
}

// Remove returns a new graph with t absent.
func (g Graph) Remove(t Triple) Graph {
	if _, ok := g.triples[t]; !ok {
		return g
	}
	nt := g.clone(0)
	delete(nt, t)
	return Graph{triples: nt, idx: &graphIndex{}}
}

// Has reports whether t is a member of the graph.
func (g Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Count returns the number of triples in the graph.
func (g Graph) Count() int { return len(g.triples) }

// IsEmpty reports whether the graph has no triples.
func (g Graph) IsEmpty() bool { return len(g.triples) == 0 }

// Triples returns every triple in the graph. Iteration order is
// unspecified (set semantics).
func (g Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	return out
}

// Merge returns the union of g and other, deduplicated.
func (g Graph) Merge(other Graph) Graph {
	nt := g.clone(len(other.triples))
	changed := false
	for t := range other.triples {
		if _, ok := nt[t]; !ok {
			nt[t] = struct{}{}
			changed = true
		}
	}
	if !changed {
		return g
	}
	return Graph{triples: nt, idx: &graphIndex{}}
}

// Subtract returns g minus every triple also present in other.
func (g Graph) Subtract(other Graph) Graph {
	nt := make(map[Triple]struct{}, len(g.triples))
	changed := false
	for t := range g.triples {
		if _, ok := other.triples[t]; ok {
			changed = true
			continue
		}
		nt[t] = struct{}{}
	}
	if !changed {
		return g
	}
	return Graph{triples: nt, idx: &graphIndex{}}
}

// WithoutTriples is an alias for Subtract matching the mapper-facing
// vocabulary used by lossless codec wrappers.
func (g Graph) WithoutTriples(other Graph) Graph { return g.Subtract(other) }

// ensureIndex builds (once) and returns the subject-keyed bucket index.
func (g Graph) ensureIndex() *graphIndex {
	g.idx.once.Do(func() {
		buckets := make(map[Term][]Triple)
		for t := range g.triples {
			buckets[t.S] = append(buckets[t.S], t)
		}
		g.idx.buckets = buckets
	})
	return g.idx
}

// BySubject returns every triple whose subject equals s, using the
// lazily built subject index for an O(bucket) lookup.
func (g Graph) BySubject(s Term) []Triple {
	idx := g.ensureIndex()
	bucket := idx.buckets[s]
	out := make([]Triple, len(bucket))
	copy(out, bucket)
	return out
}

// Subjects returns the distinct set of subjects appearing in the graph.
func (g Graph) Subjects() []Term {
	idx := g.ensureIndex()
	out := make([]Term, 0, len(idx.buckets))
	for s := range idx.buckets {
		out = append(out, s)
	}
	return out
}

// objectRefCounts returns, for every term appearing in object position,
// the number of triples that reference it there. Used by the Turtle
// encoder's single-use blank-node inlining decision.
func (g Graph) objectRefCounts() map[Term]int {
	counts := make(map[Term]int)
	for t := range g.triples {
		counts[t.O]++
	}
	return counts
}
