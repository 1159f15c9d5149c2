package rdfmapper

import (
	"github.com/geoknoesis/rdfcore/rdf"
)

// SelectRoot implements the root-subject selection algorithm used when
// a caller asks to deserialize a Go type out of a graph without naming
// a subject explicitly:
//
//  1. if explicit is non-nil, use it unconditionally;
//  2. otherwise, narrow to subjects whose rdf:type matches the
//     registered mapper's TypeIRI. If none match, fall back to every
//     subject in the graph and narrow those to the ones that are never
//     themselves the object of another triple, so an untyped but
//     otherwise well-formed root subject still resolves;
//  3. if more than one typed candidate remains, narrow further to
//     subjects that are never themselves the object of another triple
//     (i.e. are not nested inside some other resource);
//  4. if more than one candidate still remains, break the tie by
//     picking the subject with the most outgoing predicates;
//  5. if that is still ambiguous, fail with AmbiguousRootError.
func SelectRoot(g rdf.Graph, typeIRI rdf.IRI, explicit rdf.Term) (rdf.Term, error) {
	if explicit != nil {
		return explicit, nil
	}

	candidates := subjectsWithType(g, typeIRI)
	if len(candidates) == 0 {
		return selectRootByReference(g, g.Subjects())
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return selectRootByReference(g, candidates)
}

// selectRootByReference applies steps 3-5 of SelectRoot's algorithm to an
// already-narrowed candidate list: prefer subjects never referenced as
// another triple's object, then break remaining ties by outgoing
// predicate count, then fail with NoRootFoundError/AmbiguousRootError.
func selectRootByReference(g rdf.Graph, candidates []rdf.Term) (rdf.Term, error) {
	if len(candidates) == 0 {
		return nil, &NoRootFoundError{}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	unreferenced := filterUnreferenced(g, candidates)
	if len(unreferenced) == 1 {
		return unreferenced[0], nil
	}
	if len(unreferenced) > 1 {
		candidates = unreferenced
	}

	winners := mostOutgoingPredicates(g, candidates)
	if len(winners) == 1 {
		return winners[0], nil
	}
	return nil, &AmbiguousRootError{Candidates: winners}
}

// SelectRootFor is SelectRoot but resolves typeIRI from the resource
// mapper registered for T, for callers deserializing by Go type.
func SelectRootFor[T any](registry *Registry, g rdf.Graph, explicit rdf.Term) (rdf.Term, error) {
	t := typeOf[T]()
	m, _, ok := registry.resourceMapperFor(t)
	if !ok {
		return nil, &DeserializerNotFoundError{Type: t}
	}
	root, err := SelectRoot(g, m.TypeIRI(), explicit)
	if err != nil {
		if nf, ok := err.(*NoRootFoundError); ok {
			nf.Type = t
		}
		return nil, err
	}
	return root, nil
}

func subjectsWithType(g rdf.Graph, typeIRI rdf.IRI) []rdf.Term {
	var out []rdf.Term
	seen := make(map[rdf.Term]bool)
	for _, t := range g.Triples() {
		if t.P.Equal(rdf.RDFType) && t.O.Equal(typeIRI) {
			if !seen[t.S] {
				seen[t.S] = true
				out = append(out, t.S)
			}
		}
	}
	return out
}

func filterUnreferenced(g rdf.Graph, candidates []rdf.Term) []rdf.Term {
	referenced := make(map[rdf.Term]bool)
	for _, t := range g.Triples() {
		if t.O.Kind() != rdf.KindLiteral {
			referenced[t.O] = true
		}
	}
	var out []rdf.Term
	for _, c := range candidates {
		if !referenced[c] {
			out = append(out, c)
		}
	}
	return out
}

func mostOutgoingPredicates(g rdf.Graph, candidates []rdf.Term) []rdf.Term {
	counts := make(map[rdf.Term]int)
	max := -1
	for _, c := range candidates {
		n := len(g.BySubject(c))
		counts[c] = n
		if n > max {
			max = n
		}
	}
	var out []rdf.Term
	for _, c := range candidates {
		if counts[c] == max {
			out = append(out, c)
		}
	}
	return out
}
