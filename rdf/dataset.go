package rdf

// Dataset is a default graph plus a mapping from graph-name terms
// (IRI or blank node) to named graphs. Like Graph, Dataset is a value
// type: mutating operations return a new Dataset.
type Dataset struct {
	Default Graph
	named   map[Term]Graph
}

// NewDataset builds an empty dataset.
func NewDataset() Dataset {
	return Dataset{Default: NewGraph(), named: make(map[Term]Graph)}
}

func (d Dataset) cloneNamed(extra int) map[Term]Graph {
	nm := make(map[Term]Graph, len(d.named)+extra)
	for k, v := range d.named {
		nm[k] = v
	}
	return nm
}

// NamedGraph returns the named graph bound to name, if any.
func (d Dataset) NamedGraph(name Term) (Graph, bool) {
	g, ok := d.named[name]
	return g, ok
}

// GraphNames returns the distinct graph-name terms with a named graph
// in the dataset. The default graph is not included.
func (d Dataset) GraphNames() []Term {
	out := make([]Term, 0, len(d.named))
	for n := range d.named {
		out = append(out, n)
	}
	return out
}

// WithNamedGraph returns a new dataset with name bound to g, replacing
// any existing binding.
func (d Dataset) WithNamedGraph(name Term, g Graph) Dataset {
	nm := d.cloneNamed(1)
	nm[name] = g
	return Dataset{Default: d.Default, named: nm}
}

// AddQuad returns a new dataset with q inserted into its target graph
// (the default graph when q.G is nil).
func (d Dataset) AddQuad(q Quad) Dataset {
	t := q.ToTriple()
	if q.InDefaultGraph() {
		return Dataset{Default: d.Default.Add(t), named: d.named}
	}
	existing := d.named[q.G]
	return d.WithNamedGraph(q.G, existing.Add(t))
}

// Quads flattens the dataset back into quads, default graph first.
// Iteration order is unspecified beyond that grouping (set semantics).
func (d Dataset) Quads() []Quad {
	out := make([]Quad, 0, d.Default.Count())
	for _, t := range d.Default.Triples() {
		out = append(out, t.ToQuad())
	}
	for name, g := range d.named {
		for _, t := range g.Triples() {
			out = append(out, t.ToQuadInGraph(name))
		}
	}
	return out
}

// TripleCount returns the total number of triples across the default
// graph and every named graph.
func (d Dataset) TripleCount() int {
	n := d.Default.Count()
	for _, g := range d.named {
		n += g.Count()
	}
	return n
}

// Merge returns the union of two datasets: default graphs are merged
// and named graphs with the same name are merged; named graphs unique
// to one side pass through unchanged.
func (d Dataset) Merge(other Dataset) Dataset {
	nm := d.cloneNamed(len(other.named))
	for name, g := range other.named {
		if existing, ok := nm[name]; ok {
			nm[name] = existing.Merge(g)
		} else {
			nm[name] = g
		}
	}
	return Dataset{Default: d.Default.Merge(other.Default), named: nm}
}
