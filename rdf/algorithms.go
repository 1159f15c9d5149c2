package rdf

// Pattern describes a conjunctive triple-pattern query. A nil field (or
// empty *In slice) matches anything in that position; a non-nil *In
// slice matches disjunctively (any term in the slice).
type Pattern struct {
	Subject   Term
	Predicate *IRI
	Object    Term

	SubjectIn   []Term
	PredicateIn []IRI
	ObjectIn    []Term
}

func containsTerm(set []Term, t Term) bool {
	for _, s := range set {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

func containsIRI(set []IRI, p IRI) bool {
	for _, s := range set {
		if s.Equal(p) {
			return true
		}
	}
	return false
}

func (p Pattern) matches(t Triple) bool {
	if p.Subject != nil && !p.Subject.Equal(t.S) {
		return false
	}
	if len(p.SubjectIn) > 0 && !containsTerm(p.SubjectIn, t.S) {
		return false
	}
	if p.Predicate != nil && !p.Predicate.Equal(t.P) {
		return false
	}
	if len(p.PredicateIn) > 0 && !containsIRI(p.PredicateIn, t.P) {
		return false
	}
	if p.Object != nil && !p.Object.Equal(t.O) {
		return false
	}
	if len(p.ObjectIn) > 0 && !containsTerm(p.ObjectIn, t.O) {
		return false
	}
	return true
}

// Find returns every triple matching the conjunction of pat's
// constraints. When pat.Subject is set (and SubjectIn is empty), the
// lazily built subject index is used to fetch the candidate bucket in
// O(1) before filtering the remaining constraints.
func (g Graph) Find(pat Pattern) []Triple {
	if pat.Subject != nil && len(pat.SubjectIn) == 0 {
		var out []Triple
		for _, t := range g.BySubject(pat.Subject) {
			if pat.matches(t) {
				out = append(out, t)
			}
		}
		return out
	}
	var out []Triple
	for t := range g.triples {
		if pat.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// HasMatch reports whether any triple satisfies pat.
func (g Graph) HasMatch(pat Pattern) bool {
	if pat.Subject != nil && len(pat.SubjectIn) == 0 {
		for _, t := range g.BySubject(pat.Subject) {
			if pat.matches(t) {
				return true
			}
		}
		return false
	}
	for t := range g.triples {
		if pat.matches(t) {
			return true
		}
	}
	return false
}

// SubgraphByPattern returns every triple matching pat as a new graph.
func (g Graph) SubgraphByPattern(pat Pattern) Graph {
	return NewGraph(g.Find(pat)...)
}

// Decision is the outcome a SubgraphFilter returns for one visited
// triple during reachability traversal.
type Decision int

const (
	// DecisionInclude keeps the triple and continues traversal into its object.
	DecisionInclude Decision = iota
	// DecisionSkip drops the triple and does not descend into its object.
	DecisionSkip
	// DecisionIncludeButDontDescend keeps the triple but treats its
	// object as a leaf (no further traversal).
	DecisionIncludeButDontDescend
	// DecisionSkipButDescend drops the triple but still traverses into
	// its object; essential for filtering rdf:List/rdf:rest spines
	// while still reaching their rdf:first payloads.
	DecisionSkipButDescend
)

// SubgraphFilter decides, for each triple visited during a Subgraph
// traversal, whether to keep it and whether to continue past it.
// depth counts edges from root (root itself is depth 0).
type SubgraphFilter func(t Triple, depth int) Decision

// Subgraph performs a depth-first traversal starting at root, following
// predicates from subject to object, cycle-safe via a visited set keyed
// on subject identity. The traversal is not breadth-first: the depth
// passed to filter is the length of the path that first reached a
// subject, which is not necessarily its shortest distance from root.
// filter may be nil to include everything reachable.
func (g Graph) Subgraph(root Term, filter SubgraphFilter) Graph {
	visited := make(map[Term]struct{})
	result := NewGraph()

	var walk func(subj Term, depth int)
	walk = func(subj Term, depth int) {
		if _, ok := visited[subj]; ok {
			return
		}
		visited[subj] = struct{}{}
		for _, t := range g.BySubject(subj) {
			decision := DecisionInclude
			if filter != nil {
				decision = filter(t, depth)
			}
			switch decision {
			case DecisionInclude:
				result = result.Add(t)
				walk(t.O, depth+1)
			case DecisionIncludeButDontDescend:
				result = result.Add(t)
			case DecisionSkipButDescend:
				walk(t.O, depth+1)
			case DecisionSkip:
				// drop; do not descend
			}
		}
	}
	walk(root, 0)
	return result
}
