package rdfmapper

import "github.com/geoknoesis/rdfcore/rdf"

// CompletenessMode controls how a deserialization pass reacts to
// triples that no mapper consumed.
type CompletenessMode int

const (
	// CompletenessStrict fails with IncompleteDeserializationError when
	// any triple remains unconsumed.
	CompletenessStrict CompletenessMode = iota
	// CompletenessLenient silently discards unconsumed triples.
	CompletenessLenient
	// CompletenessWarnOnly discards unconsumed triples but callers can
	// inspect DeserializationContext.Unconsumed() to log a warning.
	CompletenessWarnOnly
	// CompletenessInfoOnly is CompletenessWarnOnly under a different
	// name, for callers that want to log at info rather than warn level
	// without changing control flow.
	CompletenessInfoOnly
)

// MapKeyPredicate and MapValuePredicate are this package's own
// vocabulary terms for the synthetic entry nodes AddMap/map-decoding
// produce; they are not part of any external standard vocabulary.
var (
	MapKeyPredicate   = rdf.NewIRIUnchecked("https://rdfcore.geoknoesis.com/ns/mapper#key")
	MapValuePredicate = rdf.NewIRIUnchecked("https://rdfcore.geoknoesis.com/ns/mapper#value")
)

// DecodeLossless decodes a Go value of type T from g, preserving every
// triple the registered mappers do not understand into leftover, so a
// later EncodeLossless round-trip reproduces byte-for-byte the same
// graph the value did not explicitly model.
func DecodeLossless[T any](registry *Registry, g rdf.Graph, subject rdf.Term) (value T, leftover rdf.Graph, err error) {
	ctx := NewDeserializationContext(registry, g, CompletenessLenient)
	v, err := fromTerm[T](ctx, subject)
	if err != nil {
		return value, rdf.Graph{}, err
	}
	return v, rdf.NewGraph(ctx.Unconsumed()...), nil
}

// EncodeLossless serializes value and merges leftover back in verbatim,
// the inverse of DecodeLossless.
func EncodeLossless(registry *Registry, subject rdf.Term, value interface{}, leftover rdf.Graph) (rdf.Graph, error) {
	ctx := NewSerializationContext(registry)
	b := ctx.Builder(subject)
	if m, kind, ok := registry.resourceMapperFor(typeOfValue(value)); ok {
		_ = kind
		triples, err := m.ToTriples(subject, value, ctx)
		if err != nil {
			return rdf.Graph{}, err
		}
		for _, t := range triples {
			ctx.Emit(t)
		}
	}
	b.AddUnmapped(leftover)
	return ctx.Graph(), nil
}
